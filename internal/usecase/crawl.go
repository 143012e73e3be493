package usecase

import (
	"context"
	"log/slog"
	"time"

	"NewsPulse/internal/domain"
	"NewsPulse/internal/sources"
)

// Crawler polls every registered source on a fixed interval and feeds each
// summary through the ingestor, strictly sequentially within one poll.
type Crawler struct {
	registry *sources.Registry
	ingestor *Ingestor
	perPoll  int
	logger   *slog.Logger
}

// NewCrawler wires the source registry to the ingest coordinator.
func NewCrawler(registry *sources.Registry, ingestor *Ingestor, perPoll int, logger *slog.Logger) *Crawler {
	if perPoll <= 0 {
		perPoll = 20
	}
	return &Crawler{registry: registry, ingestor: ingestor, perPoll: perPoll, logger: logger}
}

// PollOnce runs one pass over every source. Store errors are logged per item
// and do not stop the pass; the affected items simply stay unresolved.
func (c *Crawler) PollOnce(ctx context.Context) {
	for _, adapter := range c.registry.All() {
		summaries, err := adapter.FetchSummaries(ctx, c.perPoll)
		if err != nil {
			c.logger.Warn("source listing failed", "source", adapter.Name(), "error", err)
			continue
		}

		var saved, skipped int
		for _, summary := range summaries {
			outcome, err := c.ingestor.Ingest(ctx, adapter, summary)
			if err != nil {
				c.logger.Error("ingest failed", "source", adapter.Name(), "id", summary.ID, "error", err)
				continue
			}
			switch outcome {
			case domain.AlreadyExists:
				skipped++
			default:
				saved++
			}
		}
		c.logger.Info("source poll done",
			"source", adapter.Name(),
			"listed", len(summaries),
			"saved", saved,
			"skipped", skipped)
	}
}

// Run polls on the interval until the context ends. The first poll happens
// immediately.
func (c *Crawler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.PollOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.PollOnce(ctx)
		}
	}
}
