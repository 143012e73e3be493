package ports

import (
	"context"

	"NewsPulse/internal/domain"
)

// ArticleStore is the single source of truth for articles, flash items and
// the per-article diagnostic trail. Every mutation is one single-record
// transaction; any I/O failure surfaces as *storage.StoreError.
type ArticleStore interface {
	// Exists reports whether (id, source) is stored and whether that row has
	// already reached its terminal processed state.
	Exists(ctx context.Context, id, source string) (found, processed bool, err error)

	// Upsert inserts the article or refreshes the existing row in place. When
	// the article carries an analysis the processed flag transitions
	// false->true atomically; processed never goes back and a stored analysis
	// is never cleared.
	Upsert(ctx context.Context, article domain.Article) error

	// UpsertFlash persists a flash item under the same (id, source) dedup rule.
	UpsertFlash(ctx context.Context, flash domain.FlashNews) error

	// Unresolved returns up to limit rows with processed = false, newest
	// publish time first. An empty source matches every source.
	Unresolved(ctx context.Context, limit int, source string) ([]domain.Article, error)

	// RecordLog appends one diagnostic row for the article. Write-only.
	RecordLog(ctx context.Context, articleID string, severity domain.LogSeverity, message string) error
}

// SnippetSearcher fetches bounded related-content snippets for a query.
// Implementations are best-effort: on any upstream failure they return an
// empty slice, never an error.
type SnippetSearcher interface {
	Related(ctx context.Context, query string, max int) []domain.Snippet
}

// Analyzer produces a complete AnalysisResult for an article. The contract is
// total: whatever the provider does, Analyze returns a well-formed result.
type Analyzer interface {
	Analyze(ctx context.Context, title, body string, snippets []domain.Snippet) domain.AnalysisResult
}
