package deepseek

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Config collects everything needed to talk to an OpenAI-compatible chat
// completion endpoint under a fixed pacing policy.
type Config struct {
	Endpoint    string
	Model       string
	APIKey      string
	MaxTokens   int
	Temperature float64
	TopP        float64

	// MinInterval is the enforced wall-clock spacing between consecutive
	// outbound calls across every caller of this client.
	MinInterval time.Duration
	CacheTTL    time.Duration
	CacheSize   int
}

// Client is the rate-limited provider client. It owns the only shared mutable
// state of the orchestration layer: the pacing limiter and the result memo
// cache, both safe for concurrent callers.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	cache   *ResultCache
}

// NewClient builds a client; a nil http.Client gets a 90s-timeout default
// sized for slow generation endpoints.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 90 * time.Second}
	}

	every := rate.Inf
	if cfg.MinInterval > 0 {
		every = rate.Every(cfg.MinInterval)
	}

	return &Client{
		cfg:     cfg,
		http:    httpClient,
		limiter: rate.NewLimiter(every, 1),
		cache:   newResultCache(cfg.CacheTTL, cfg.CacheSize),
	}
}

// Model reports the configured model identifier.
func (c *Client) Model() string { return c.cfg.Model }

// Cache exposes the memo cache shared with the orchestrator.
func (c *Client) Cache() *ResultCache { return c.cache }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete waits for a throttle slot, posts the prompt pair, and returns the
// assistant text. Failures come back as one of the typed error classes.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", &TransientError{Err: fmt.Errorf("throttle wait: %w", err)}
	}

	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		TopP:        c.cfg.TopP,
	})
	if err != nil {
		return "", &TransientError{Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &TransientError{Err: fmt.Errorf("new request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &TransientError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		drain(resp.Body)
		return "", &AuthLockoutError{Status: resp.Status}
	case resp.StatusCode == http.StatusTooManyRequests:
		drain(resp.Body)
		return "", &RateLimitError{Status: resp.Status}
	case resp.StatusCode != http.StatusOK:
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &TransientError{Err: fmt.Errorf("status %s: %s", resp.Status, strings.TrimSpace(string(payload)))}
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", &MalformedError{Reason: fmt.Sprintf("decode envelope: %v", err)}
	}
	if len(decoded.Choices) == 0 || decoded.Choices[0].Message.Content == "" {
		return "", &MalformedError{Reason: "no completion choices"}
	}

	return decoded.Choices[0].Message.Content, nil
}

func drain(r io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(r, 4096))
}
