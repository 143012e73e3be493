package usecase

import (
	"context"
	"log/slog"
	"time"

	"NewsPulse/internal/ports"
)

// ReprocessorConfig tunes the batch retry loop; this is the only externally
// tunable surface over the pipeline's timing.
type ReprocessorConfig struct {
	BatchSize       int
	MaxBatches      int
	PerItemDelay    time.Duration
	InterBatchDelay time.Duration
	SourceFilter    string
}

// Reprocessor periodically re-scans the store for unresolved rows and runs
// them through the same enrichment path used at ingest time. Idempotence
// comes from the store query predicate: processed rows are never returned,
// so no scheduler-side bookkeeping exists.
type Reprocessor struct {
	store    ports.ArticleStore
	ingestor *Ingestor
	cfg      ReprocessorConfig
	logger   *slog.Logger

	sleep func(ctx context.Context, d time.Duration)
}

// NewReprocessor applies defaults for unset config fields.
func NewReprocessor(store ports.ArticleStore, ingestor *Ingestor, cfg ReprocessorConfig, logger *slog.Logger) *Reprocessor {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.MaxBatches <= 0 {
		cfg.MaxBatches = 5
	}
	return &Reprocessor{
		store:    store,
		ingestor: ingestor,
		cfg:      cfg,
		logger:   logger,
		sleep:    sleepContext,
	}
}

// RunCycle processes at most BatchSize*MaxBatches rows and returns how many
// were enriched. The per-item delay paces provider calls even when the
// orchestrator's own throttle would allow faster ones; the inter-batch delay
// spaces whole batches. An empty scan ends the cycle early.
func (r *Reprocessor) RunCycle(ctx context.Context) (int, error) {
	enriched := 0

	for batch := 0; batch < r.cfg.MaxBatches; batch++ {
		rows, err := r.store.Unresolved(ctx, r.cfg.BatchSize, r.cfg.SourceFilter)
		if err != nil {
			return enriched, err
		}
		if len(rows) == 0 {
			break
		}

		r.logger.Info("reprocess batch", "batch", batch+1, "rows", len(rows))

		for i, row := range rows {
			if ctx.Err() != nil {
				return enriched, ctx.Err()
			}

			if err := r.ingestor.Enrich(ctx, row); err != nil {
				// Store failure: the row stays unresolved for a later cycle.
				r.logger.Error("reprocess item failed", "source", row.Source, "id", row.ID, "error", err)
			} else {
				enriched++
			}

			if i < len(rows)-1 {
				r.sleep(ctx, r.cfg.PerItemDelay)
			}
		}

		if len(rows) < r.cfg.BatchSize {
			break
		}
		if batch < r.cfg.MaxBatches-1 {
			r.sleep(ctx, r.cfg.InterBatchDelay)
		}
	}

	return enriched, nil
}

// Run executes cycles on the interval until the context ends. The first
// cycle starts immediately.
func (r *Reprocessor) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.cycle(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.cycle(ctx)
		}
	}
}

func (r *Reprocessor) cycle(ctx context.Context) {
	n, err := r.RunCycle(ctx)
	if err != nil {
		r.logger.Error("reprocess cycle aborted", "enriched", n, "error", err)
		return
	}
	r.logger.Info("reprocess cycle done", "enriched", n)
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
