package analysis

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"log/slog"
	"time"

	"NewsPulse/internal/domain"
	"NewsPulse/internal/ports"
)

const cacheKeyBodyPrefix = 200

// ChatClient is the throttled provider client the orchestrator sends through.
type ChatClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Model() string
}

// Cache memoizes finished results by content key.
type Cache interface {
	Get(key string) (domain.AnalysisResult, bool)
	Put(key string, result domain.AnalysisResult)
}

// Orchestrator drives one analysis call through throttle, send, retry and
// fallback. Its contract is total: Analyze always returns a complete result,
// whatever the provider does.
type Orchestrator struct {
	chat   ChatClient
	cache  Cache
	budget int
	logger *slog.Logger

	// sleep and now are injectable for tests with a fake clock.
	sleep func(ctx context.Context, d time.Duration)
	now   func() time.Time
}

var _ ports.Analyzer = (*Orchestrator)(nil)

// NewOrchestrator wires the provider client; budget <= 0 selects the default
// of five attempts.
func NewOrchestrator(chat ChatClient, cache Cache, budget int, logger *slog.Logger) *Orchestrator {
	if budget <= 0 {
		budget = 5
	}
	return &Orchestrator{
		chat:   chat,
		cache:  cache,
		budget: budget,
		logger: logger,
		sleep:  sleepContext,
		now:    time.Now,
	}
}

// Analyze returns a well-formed AnalysisResult for the article. A cache hit
// skips throttle and send entirely; otherwise up to budget attempts run, each
// failure class waiting out its own cooldown, and exhaustion degrades to the
// deterministic fallback.
func (o *Orchestrator) Analyze(ctx context.Context, title, body string, snippets []domain.Snippet) domain.AnalysisResult {
	key := cacheKey(title, body)
	if o.cache != nil {
		if result, ok := o.cache.Get(key); ok {
			o.debug("analysis cache hit", "title", title)
			return result
		}
	}

	userPrompt := buildUserPrompt(title, body, snippets)

	for attempt := 1; attempt <= o.budget; attempt++ {
		raw, err := o.chat.Complete(ctx, systemPrompt, userPrompt)
		if err == nil {
			result, ok := extractResult(raw)
			if ok {
				o.stamp(&result, o.chat.Model())
				o.memoize(key, result)
				return result
			}
			// Success status but unusable body: no HTTP retry will help.
			o.warn("analysis response unparseable", "title", title, "attempt", attempt)
			break
		}

		class := classify(err)
		if class == classMalformed {
			o.warn("analysis response malformed", "title", title, "attempt", attempt, "error", err)
			break
		}

		delay := backoffDelay(class, attempt)
		o.warn("provider call failed",
			"title", title,
			"attempt", attempt,
			"class", class.String(),
			"cooldown", delay,
			"error", err)

		if attempt == o.budget {
			break
		}
		o.sleep(ctx, delay)
	}

	result := fallbackResult(title, body)
	o.stamp(&result, domain.FallbackModel)
	o.memoize(key, result)
	return result
}

func (o *Orchestrator) stamp(result *domain.AnalysisResult, model string) {
	result.GeneratedAt = o.now().UTC()
	result.AIModel = model
	result.Version = domain.SchemaVersion
}

func (o *Orchestrator) memoize(key string, result domain.AnalysisResult) {
	if o.cache != nil {
		o.cache.Put(key, result)
	}
}

// cacheKey hashes the title plus a fixed body prefix so re-ingested articles
// with refreshed trailing content still hit.
func cacheKey(title, body string) string {
	if len(body) > cacheKeyBodyPrefix {
		body = body[:cacheKeyBodyPrefix]
	}
	sum := sha1.Sum([]byte(title + "\x00" + body))
	return hex.EncodeToString(sum[:])
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func (o *Orchestrator) debug(msg string, args ...any) {
	if o.logger != nil {
		o.logger.Debug(msg, args...)
	}
}

func (o *Orchestrator) warn(msg string, args ...any) {
	if o.logger != nil {
		o.logger.Warn(msg, args...)
	}
}
