package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestAugmenter(t *testing.T, handler http.HandlerFunc) *Augmenter {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(server.URL, "test-key", server.Client())
	return NewAugmenter(client, 2*time.Second, nil)
}

func TestRelatedReturnsSnippets(t *testing.T) {
	t.Parallel()

	augmenter := newTestAugmenter(t, func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Query != "fed rates" {
			t.Errorf("unexpected query: %s", req.Query)
		}
		_, _ = w.Write([]byte(`{"results":[
			{"title":"A","url":"http://a","content":"first"},
			{"title":"B","url":"http://b","content":"second"},
			{"title":"C","url":"http://c","content":"third"},
			{"title":"D","url":"http://d","content":"fourth"}
		]}`))
	})

	snippets := augmenter.Related(context.Background(), "fed rates", 3)
	if len(snippets) != 3 {
		t.Fatalf("expected 3 snippets, got %d", len(snippets))
	}
	if snippets[0].Title != "A" || snippets[0].Excerpt != "first" {
		t.Fatalf("unexpected first snippet: %+v", snippets[0])
	}
}

func TestRelatedNeverFails(t *testing.T) {
	t.Parallel()

	cases := map[string]http.HandlerFunc{
		"upstream 500": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"upstream 403": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		},
		"bad body": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		},
		"empty results": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"results":[]}`))
		},
	}

	for name, handler := range cases {
		augmenter := newTestAugmenter(t, handler)
		if got := augmenter.Related(context.Background(), "query", 3); len(got) != 0 {
			t.Fatalf("%s: expected empty slice, got %v", name, got)
		}
	}
}

func TestRelatedUnreachableUpstream(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	endpoint := server.URL
	server.Close()

	client := NewClient(endpoint, "key", nil)
	augmenter := NewAugmenter(client, time.Second, nil)

	if got := augmenter.Related(context.Background(), "query", 3); len(got) != 0 {
		t.Fatalf("expected empty slice from dead upstream, got %v", got)
	}
}

func TestRelatedTruncatesExcerpts(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 1000)
	augmenter := newTestAugmenter(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(searchResponse{Results: []searchResult{
			{Title: "long", Content: long},
		}})
	})

	snippets := augmenter.Related(context.Background(), "query", 1)
	if len(snippets) != 1 {
		t.Fatalf("expected one snippet, got %d", len(snippets))
	}
	if len(snippets[0].Excerpt) != maxExcerptLen {
		t.Fatalf("excerpt not truncated: %d bytes", len(snippets[0].Excerpt))
	}
}

func TestRelatedGuards(t *testing.T) {
	t.Parallel()

	augmenter := NewAugmenter(nil, time.Second, nil)
	if got := augmenter.Related(context.Background(), "query", 3); got != nil {
		t.Fatalf("nil client must yield nil, got %v", got)
	}

	withClient := newTestAugmenter(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no request expected")
	})
	if got := withClient.Related(context.Background(), "", 3); got != nil {
		t.Fatalf("empty query must yield nil")
	}
	if got := withClient.Related(context.Background(), "query", 0); got != nil {
		t.Fatalf("zero max must yield nil")
	}
}
