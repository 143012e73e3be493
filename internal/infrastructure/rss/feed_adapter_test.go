package rss

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"NewsPulse/internal/config"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Markets Wire</title>
  <item>
    <title> Oil slides on demand fears </title>
    <link>https://example.org/oil</link>
    <guid>wire-001</guid>
    <pubDate>Tue, 10 Feb 2026 08:00:00 GMT</pubDate>
    <description><![CDATA[<p>Brent crude <b>fell</b> 3% on Tuesday.</p> <p>Traders cited weak data.</p>]]></description>
    <category>oil</category>
    <category>energy</category>
    <category>oil</category>
  </item>
  <item>
    <title>Fed minutes released</title>
    <link>https://example.org/fed</link>
    <guid>wire-002</guid>
    <pubDate>Tue, 10 Feb 2026 10:30:00 GMT</pubDate>
    <description>Minutes show a split committee.</description>
  </item>
  <item>
    <title>Gold steady</title>
    <link>https://example.org/gold</link>
    <guid>wire-003</guid>
    <pubDate>Tue, 10 Feb 2026 06:15:00 GMT</pubDate>
    <description>Spot gold unchanged.</description>
  </item>
</channel>
</rss>`

func newTestAdapter(t *testing.T) *FeedAdapter {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(feedXML))
	}))
	t.Cleanup(server.Close)

	return NewFeedAdapter(config.SourceConfig{
		Name:     "markets-wire",
		FeedURL:  server.URL,
		Category: "markets",
	})
}

func TestFetchSummariesNewestFirst(t *testing.T) {
	t.Parallel()

	adapter := newTestAdapter(t)
	summaries, err := adapter.FetchSummaries(context.Background(), 0)
	if err != nil {
		t.Fatalf("FetchSummaries error: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(summaries))
	}

	wantOrder := []string{"wire-002", "wire-001", "wire-003"}
	for i, id := range wantOrder {
		if summaries[i].ID != id {
			t.Fatalf("position %d: got %s, want %s", i, summaries[i].ID, id)
		}
	}
	if summaries[1].Title != "Oil slides on demand fears" {
		t.Fatalf("title not trimmed: %q", summaries[1].Title)
	}
}

func TestFetchSummariesLimit(t *testing.T) {
	t.Parallel()

	adapter := newTestAdapter(t)
	summaries, err := adapter.FetchSummaries(context.Background(), 2)
	if err != nil {
		t.Fatalf("FetchSummaries error: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("limit ignored: %d summaries", len(summaries))
	}
	if summaries[0].ID != "wire-002" {
		t.Fatalf("limit must keep the newest items, got %s first", summaries[0].ID)
	}
}

func TestFetchDetailStripsMarkup(t *testing.T) {
	t.Parallel()

	adapter := newTestAdapter(t)
	if _, err := adapter.FetchSummaries(context.Background(), 0); err != nil {
		t.Fatalf("FetchSummaries error: %v", err)
	}

	detail, err := adapter.FetchDetail(context.Background(), "wire-001")
	if err != nil {
		t.Fatalf("FetchDetail error: %v", err)
	}
	if detail == nil {
		t.Fatalf("listed item came back nil")
	}
	if detail.Content != "Brent crude fell 3% on Tuesday. Traders cited weak data." {
		t.Fatalf("markup not stripped: %q", detail.Content)
	}
	if detail.Category != "markets" {
		t.Fatalf("category not applied: %s", detail.Category)
	}

	wantTags := []string{"oil", "energy"}
	if len(detail.Tags) != len(wantTags) {
		t.Fatalf("tags not deduplicated: %v", detail.Tags)
	}
	for i, tag := range wantTags {
		if detail.Tags[i] != tag {
			t.Fatalf("tag %d: got %s, want %s", i, detail.Tags[i], tag)
		}
	}
}

func TestFetchDetailUnknownID(t *testing.T) {
	t.Parallel()

	adapter := newTestAdapter(t)
	if _, err := adapter.FetchSummaries(context.Background(), 0); err != nil {
		t.Fatalf("FetchSummaries error: %v", err)
	}

	detail, err := adapter.FetchDetail(context.Background(), "never-listed")
	if err != nil {
		t.Fatalf("unknown id must not error: %v", err)
	}
	if detail != nil {
		t.Fatalf("unknown id must come back nil, got %+v", detail)
	}
}

func TestFetchSummariesFeedDown(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	adapter := NewFeedAdapter(config.SourceConfig{Name: "dead", FeedURL: url})
	if _, err := adapter.FetchSummaries(context.Background(), 0); err == nil {
		t.Fatalf("dead feed must surface an error")
	}
}

func TestStripHTMLPlainText(t *testing.T) {
	t.Parallel()

	if got := stripHTML("  already   plain\n text "); got != "already plain text" {
		t.Fatalf("whitespace not normalized: %q", got)
	}
	if got := stripHTML(""); got != "" {
		t.Fatalf("empty input: %q", got)
	}
}

func TestUniqueTags(t *testing.T) {
	t.Parallel()

	got := uniqueTags([]string{" a ", "b", "a", "", "b"})
	want := []string{"a", "b"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
