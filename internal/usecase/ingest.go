package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"NewsPulse/internal/domain"
	"NewsPulse/internal/ports"
	"NewsPulse/internal/sources"
)

// IngestorDeps wires the driven adapters into the per-article coordinator.
type IngestorDeps struct {
	Store       ports.ArticleStore
	Searcher    ports.SnippetSearcher
	Analyzer    ports.Analyzer
	MaxSnippets int
	Logger      *slog.Logger
}

// Ingestor owns the per-article control flow: dedup check, detail fetch,
// optional synchronous enrichment, persistence. Only store I/O errors
// propagate to the caller; everything else is logged and absorbed.
type Ingestor struct {
	store       ports.ArticleStore
	searcher    ports.SnippetSearcher
	analyzer    ports.Analyzer
	maxSnippets int
	logger      *slog.Logger
}

// NewIngestor constructs the coordinator.
func NewIngestor(deps IngestorDeps) *Ingestor {
	maxSnippets := deps.MaxSnippets
	if maxSnippets <= 0 {
		maxSnippets = 3
	}
	return &Ingestor{
		store:       deps.Store,
		searcher:    deps.Searcher,
		analyzer:    deps.Analyzer,
		maxSnippets: maxSnippets,
		logger:      deps.Logger,
	}
}

// Ingest runs one summary through the pipeline. The outcome is meaningful
// only when the returned error is nil.
func (in *Ingestor) Ingest(ctx context.Context, adapter sources.Adapter, summary domain.Summary) (domain.Outcome, error) {
	source := adapter.Name()

	found, processed, err := in.store.Exists(ctx, summary.ID, source)
	if err != nil {
		return domain.AlreadyExists, fmt.Errorf("dedup check %s/%s: %w", source, summary.ID, err)
	}
	if found && processed {
		return domain.AlreadyExists, nil
	}

	detail, err := adapter.FetchDetail(ctx, summary.ID)
	if err != nil || detail == nil {
		// The item stays unresolved; the batch reprocessor picks the stub up
		// on a later cycle when the source recovers.
		if err != nil {
			in.warn("detail fetch failed", "source", source, "id", summary.ID, "error", err)
			in.recordLog(ctx, summary.ID, domain.LogWarn, fmt.Sprintf("detail fetch failed: %v", err))
		}
		stub := summaryStub(summary, source)
		if upErr := in.store.Upsert(ctx, stub); upErr != nil {
			return domain.AlreadyExists, fmt.Errorf("persist stub %s/%s: %w", source, summary.ID, upErr)
		}
		return domain.SavedWithoutAnalysis, nil
	}

	article := detail.Article(source)

	if !adapter.SupportsImmediate() {
		if err := in.store.Upsert(ctx, article); err != nil {
			return domain.AlreadyExists, fmt.Errorf("persist %s/%s: %w", source, summary.ID, err)
		}
		return domain.SavedWithoutAnalysis, nil
	}

	if err := in.Enrich(ctx, article); err != nil {
		return domain.AlreadyExists, err
	}
	return domain.Saved, nil
}

// Enrich runs the snippet and analysis stages for the article and persists
// the processed row. The analyzer cannot fail, so the only error here is
// store I/O.
func (in *Ingestor) Enrich(ctx context.Context, article domain.Article) error {
	var snippets []domain.Snippet
	if in.searcher != nil {
		snippets = in.searcher.Related(ctx, article.Title, in.maxSnippets)
	}

	result := in.analyzer.Analyze(ctx, article.Title, article.Content, snippets)
	article.Analysis = &result

	if err := in.store.Upsert(ctx, article); err != nil {
		in.recordLog(ctx, article.ID, domain.LogError, fmt.Sprintf("persist analysis failed: %v", err))
		return fmt.Errorf("persist analysis %s/%s: %w", article.Source, article.ID, err)
	}

	if result.AIModel == domain.FallbackModel {
		in.recordLog(ctx, article.ID, domain.LogWarn, "analysis degraded to fallback")
	} else {
		in.recordLog(ctx, article.ID, domain.LogInfo, fmt.Sprintf("analysis stored (model %s)", result.AIModel))
	}
	return nil
}

// IngestFlash persists a flash item; no enrichment applies.
func (in *Ingestor) IngestFlash(ctx context.Context, flash domain.FlashNews) error {
	if err := in.store.UpsertFlash(ctx, flash); err != nil {
		return fmt.Errorf("persist flash %s/%s: %w", flash.Source, flash.ID, err)
	}
	return nil
}

func summaryStub(summary domain.Summary, source string) domain.Article {
	return domain.Article{
		ID:      summary.ID,
		Source:  source,
		Title:   summary.Title,
		URL:     summary.URL,
		PubDate: summary.PubDate,
	}
}

func (in *Ingestor) recordLog(ctx context.Context, articleID string, severity domain.LogSeverity, message string) {
	if err := in.store.RecordLog(ctx, articleID, severity, message); err != nil {
		in.warn("diagnostic log write failed", "article", articleID, "error", err)
	}
}

func (in *Ingestor) warn(msg string, args ...any) {
	if in.logger != nil {
		in.logger.Warn(msg, args...)
	}
}
