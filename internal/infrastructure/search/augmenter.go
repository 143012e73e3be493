package search

import (
	"context"
	"log/slog"
	"time"

	"NewsPulse/internal/domain"
	"NewsPulse/internal/ports"
)

const maxExcerptLen = 300

// Augmenter fetches related snippets on a best-effort basis: a fixed timeout
// bounds each lookup and any failure degrades to an empty slice. The snippets
// only ever serve as prompt context, so losing them costs nothing.
type Augmenter struct {
	client  *Client
	timeout time.Duration
	logger  *slog.Logger
}

var _ ports.SnippetSearcher = (*Augmenter)(nil)

// NewAugmenter wraps a search client with the never-fail contract.
func NewAugmenter(client *Client, timeout time.Duration, logger *slog.Logger) *Augmenter {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Augmenter{client: client, timeout: timeout, logger: logger}
}

// Related returns up to max snippets for the query, or nothing at all.
func (a *Augmenter) Related(ctx context.Context, query string, max int) []domain.Snippet {
	if a.client == nil || query == "" || max <= 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	results, err := a.client.Search(ctx, query, max)
	if err != nil {
		a.warn("snippet search failed", "query", query, "error", err)
		return nil
	}

	snippets := make([]domain.Snippet, 0, max)
	for _, r := range results {
		if r.Title == "" && r.Content == "" {
			continue
		}
		snippets = append(snippets, domain.Snippet{
			Title:   r.Title,
			Excerpt: truncate(r.Content, maxExcerptLen),
		})
		if len(snippets) == max {
			break
		}
	}
	return snippets
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

func (a *Augmenter) warn(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Warn(msg, args...)
	}
}
