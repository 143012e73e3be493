package rss

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/mmcdole/gofeed"

	"NewsPulse/internal/config"
	"NewsPulse/internal/domain"
	"NewsPulse/internal/sources"
)

const fullTextTimeout = 30 * time.Second

var whitespaceExpr = regexp.MustCompile(`\s+`)

// FeedAdapter is a generic RSS/Atom source. Listing goes through the feed;
// details come from the cached feed entry, optionally upgraded to the
// readability-extracted article body when the feed only carries teasers.
type FeedAdapter struct {
	name      string
	feedURL   string
	category  string
	immediate bool
	fullText  bool
	parser    *gofeed.Parser

	mu    sync.Mutex
	items map[string]*gofeed.Item
}

var _ sources.Adapter = (*FeedAdapter)(nil)

// NewFeedAdapter builds an adapter from one configured source.
func NewFeedAdapter(cfg config.SourceConfig) *FeedAdapter {
	return &FeedAdapter{
		name:      cfg.Name,
		feedURL:   cfg.FeedURL,
		category:  cfg.Category,
		immediate: cfg.Immediate,
		fullText:  cfg.FullText,
		parser:    gofeed.NewParser(),
		items:     map[string]*gofeed.Item{},
	}
}

// Name identifies the source inside the registry and the article key.
func (a *FeedAdapter) Name() string { return a.name }

// SupportsImmediate reports whether items should be enriched at ingest time.
func (a *FeedAdapter) SupportsImmediate() bool { return a.immediate }

// FetchSummaries pulls the feed and lists up to limit entries, newest first.
func (a *FeedAdapter) FetchSummaries(ctx context.Context, limit int) ([]domain.Summary, error) {
	feed, err := a.parser.ParseURLWithContext(a.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", a.feedURL, err)
	}

	a.mu.Lock()
	summaries := make([]domain.Summary, 0, len(feed.Items))
	for _, item := range feed.Items {
		id := itemID(item)
		if id == "" {
			continue
		}
		a.items[id] = item
		summaries = append(summaries, domain.Summary{
			ID:      id,
			Title:   strings.TrimSpace(item.Title),
			URL:     item.Link,
			PubDate: itemTime(item),
		})
	}
	a.mu.Unlock()

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].PubDate.After(summaries[j].PubDate)
	})
	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

// FetchDetail resolves a listed item into the full record. Items never listed
// (or rotated out of the feed) come back nil.
func (a *FeedAdapter) FetchDetail(ctx context.Context, id string) (*domain.Detail, error) {
	a.mu.Lock()
	item, ok := a.items[id]
	a.mu.Unlock()
	if !ok {
		return nil, nil
	}

	content := item.Content
	if content == "" {
		content = item.Description
	}
	text := stripHTML(content)

	if a.fullText && item.Link != "" {
		if extracted, err := readability.FromURL(item.Link, fullTextTimeout); err == nil {
			if cleaned := normalizeSpace(extracted.TextContent); len(cleaned) > len(text) {
				text = cleaned
			}
		}
	}

	detail := &domain.Detail{
		ID:       id,
		Title:    strings.TrimSpace(item.Title),
		Content:  text,
		URL:      item.Link,
		PubDate:  itemTime(item),
		Category: a.category,
		Tags:     uniqueTags(item.Categories),
	}
	if item.Author != nil {
		detail.Author = item.Author.Name
	}
	if item.Image != nil {
		detail.ImageURL = item.Image.URL
	}
	return detail, nil
}

func itemID(item *gofeed.Item) string {
	if item.GUID != "" {
		return item.GUID
	}
	return item.Link
}

func itemTime(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.UTC()
	}
	if item.UpdatedParsed != nil {
		return item.UpdatedParsed.UTC()
	}
	return time.Now().UTC()
}

// stripHTML reduces feed markup to readable text.
func stripHTML(html string) string {
	if html == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return normalizeSpace(html)
	}
	return normalizeSpace(doc.Text())
}

func normalizeSpace(s string) string {
	return strings.TrimSpace(whitespaceExpr.ReplaceAllString(s, " "))
}

func uniqueTags(categories []string) []string {
	seen := map[string]struct{}{}
	var tags []string
	for _, c := range categories {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		tags = append(tags, c)
	}
	return tags
}
