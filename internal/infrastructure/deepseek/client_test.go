package deepseek

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, minInterval time.Duration) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(Config{
		Endpoint:    server.URL,
		Model:       "deepseek-chat",
		APIKey:      "test-key",
		MaxTokens:   1000,
		Temperature: 0.7,
		TopP:        0.9,
		MinInterval: minInterval,
	}, server.Client())
}

func TestCompleteSuccess(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token")
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("missing content type")
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hello"}}]}`))
	}, 0)

	content, err := client.Complete(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if content != "hello" {
		t.Fatalf("unexpected content: %s", content)
	}
}

func TestCompleteErrorClasses(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"auth lockout", http.StatusUnauthorized, func(err error) bool {
			var e *AuthLockoutError
			return errors.As(err, &e)
		}},
		{"rate limit", http.StatusTooManyRequests, func(err error) bool {
			var e *RateLimitError
			return errors.As(err, &e)
		}},
		{"server error", http.StatusInternalServerError, func(err error) bool {
			var e *TransientError
			return errors.As(err, &e)
		}},
		{"bad gateway", http.StatusBadGateway, func(err error) bool {
			var e *TransientError
			return errors.As(err, &e)
		}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}, 0)

			_, err := client.Complete(context.Background(), "sys", "user")
			if err == nil {
				t.Fatalf("expected error for status %d", tc.status)
			}
			if !tc.check(err) {
				t.Fatalf("wrong error class: %v", err)
			}
		})
	}
}

func TestCompleteMalformedEnvelope(t *testing.T) {
	t.Parallel()

	for name, body := range map[string]string{
		"not json":   "surprise, plain text",
		"no choices": `{"choices":[]}`,
		"empty text": `{"choices":[{"message":{"role":"assistant","content":""}}]}`,
	} {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}, 0)

		_, err := client.Complete(context.Background(), "sys", "user")
		var malformed *MalformedError
		if !errors.As(err, &malformed) {
			t.Fatalf("%s: expected MalformedError, got %v", name, err)
		}
	}
}

func TestCompleteConnectionErrorIsTransient(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	endpoint := server.URL
	server.Close()

	client := NewClient(Config{Endpoint: endpoint, Model: "deepseek-chat"}, nil)

	_, err := client.Complete(context.Background(), "sys", "user")
	var transient *TransientError
	if !errors.As(err, &transient) {
		t.Fatalf("expected TransientError, got %v", err)
	}
}

func TestCompleteThrottleSpacing(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	const minInterval = 30 * time.Millisecond

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}, minInterval)

	const n = 3
	start := time.Now()
	for i := 0; i < n; i++ {
		if _, err := client.Complete(context.Background(), "sys", "user"); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	elapsed := time.Since(start)

	if calls.Load() != n {
		t.Fatalf("expected %d upstream calls, got %d", n, calls.Load())
	}
	if want := (n - 1) * minInterval; elapsed < want {
		t.Fatalf("throttle too loose: %v elapsed, want >= %v", elapsed, want)
	}
}
