package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"NewsPulse/internal/domain"
	"NewsPulse/internal/ports"
)

// fakeStore mirrors the store contract in memory, including the monotonic
// processed flag and the never-cleared analysis.
type fakeStore struct {
	rows    map[string]domain.Article
	flashes map[string]domain.FlashNews
	logs    []string

	failExists bool
	failUpsert bool
	upserts    int
}

var _ ports.ArticleStore = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		rows:    map[string]domain.Article{},
		flashes: map[string]domain.FlashNews{},
	}
}

func key(id, source string) string { return source + "/" + id }

func (s *fakeStore) Exists(_ context.Context, id, source string) (bool, bool, error) {
	if s.failExists {
		return false, false, errors.New("exists: disk on fire")
	}
	row, ok := s.rows[key(id, source)]
	return ok, row.Processed, nil
}

func (s *fakeStore) Upsert(_ context.Context, article domain.Article) error {
	if s.failUpsert {
		return errors.New("upsert: disk on fire")
	}
	s.upserts++

	k := key(article.ID, article.Source)
	if article.Analysis != nil {
		article.Processed = true
	}
	if existing, ok := s.rows[k]; ok {
		article.Processed = article.Processed || existing.Processed
		if article.Analysis == nil {
			article.Analysis = existing.Analysis
		}
		article.CreatedAt = existing.CreatedAt
	} else {
		article.CreatedAt = time.Now()
	}
	s.rows[k] = article
	return nil
}

func (s *fakeStore) UpsertFlash(_ context.Context, flash domain.FlashNews) error {
	s.flashes[key(flash.ID, flash.Source)] = flash
	return nil
}

func (s *fakeStore) Unresolved(_ context.Context, limit int, source string) ([]domain.Article, error) {
	var out []domain.Article
	for _, row := range s.rows {
		if row.Processed {
			continue
		}
		if source != "" && row.Source != source {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PubDate.After(out[j].PubDate) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeStore) RecordLog(_ context.Context, articleID string, severity domain.LogSeverity, message string) error {
	s.logs = append(s.logs, fmt.Sprintf("%s %s %s", articleID, severity, message))
	return nil
}

// fakeAdapter serves scripted summaries and details.
type fakeAdapter struct {
	name       string
	immediate  bool
	summaries  []domain.Summary
	details    map[string]*domain.Detail
	failDetail bool
}

func (a *fakeAdapter) Name() string            { return a.name }
func (a *fakeAdapter) SupportsImmediate() bool { return a.immediate }

func (a *fakeAdapter) FetchSummaries(context.Context, int) ([]domain.Summary, error) {
	return a.summaries, nil
}

func (a *fakeAdapter) FetchDetail(_ context.Context, id string) (*domain.Detail, error) {
	if a.failDetail {
		return nil, errors.New("site unreachable")
	}
	return a.details[id], nil
}

// fakeAnalyzer counts calls and returns either a genuine-looking or a
// fallback-tagged result.
type fakeAnalyzer struct {
	calls    int
	fallback bool
}

func (a *fakeAnalyzer) Analyze(_ context.Context, title, _ string, _ []domain.Snippet) domain.AnalysisResult {
	a.calls++
	model := "deepseek-chat"
	if a.fallback {
		model = domain.FallbackModel
	}
	return domain.AnalysisResult{
		AnalysisTitle:    title,
		ExecutiveSummary: "summary",
		Conclusion:       "conclusion",
		RiskDisclaimer:   "not advice",
		AIModel:          model,
		GeneratedAt:      time.Now(),
		Version:          domain.SchemaVersion,
	}
}

// fakeSearcher returns a fixed snippet set.
type fakeSearcher struct {
	calls    int
	snippets []domain.Snippet
}

func (s *fakeSearcher) Related(_ context.Context, _ string, max int) []domain.Snippet {
	s.calls++
	if len(s.snippets) > max {
		return s.snippets[:max]
	}
	return s.snippets
}
