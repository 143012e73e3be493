package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"NewsPulse/internal/analysis"
	"NewsPulse/internal/config"
	"NewsPulse/internal/infrastructure/deepseek"
	"NewsPulse/internal/infrastructure/rss"
	"NewsPulse/internal/infrastructure/search"
	"NewsPulse/internal/infrastructure/storage"
	"NewsPulse/internal/logging"
	"NewsPulse/internal/sources"
	"NewsPulse/internal/usecase"
)

// Application wires configs to the pipeline workers and their lifecycle.
type Application struct {
	cfg         config.Config
	logger      *slog.Logger
	crawler     *usecase.Crawler
	reprocessor *usecase.Reprocessor
}

// New builds a runnable application around an open database handle.
func New(cfg config.Config, baseLogger *slog.Logger, db *sql.DB) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	if err := storage.EnsureSchema(context.Background(), db); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	store := storage.NewPostgresStore(db)

	var searcher *search.Augmenter
	if cfg.Search.APIKey != "" {
		searchClient := search.NewClient(cfg.Search.Endpoint, cfg.Search.APIKey, nil)
		searcher = search.NewAugmenter(searchClient, cfg.Search.Timeout(),
			baseLogger.With("component", "search"))
	}

	providerClient := deepseek.NewClient(deepseek.Config{
		Endpoint:    cfg.Provider.Endpoint,
		Model:       cfg.Provider.Model,
		APIKey:      cfg.Provider.APIKey,
		MaxTokens:   cfg.Provider.MaxTokens,
		Temperature: cfg.Provider.Temperature,
		TopP:        cfg.Provider.TopP,
		MinInterval: cfg.Provider.MinInterval(),
		CacheTTL:    cfg.Provider.CacheTTL(),
		CacheSize:   cfg.Provider.CacheSize,
	}, nil)

	orchestrator := analysis.NewOrchestrator(
		providerClient,
		providerClient.Cache(),
		cfg.Provider.RetryBudget,
		baseLogger.With("component", "analysis"),
	)

	ingestorDeps := usecase.IngestorDeps{
		Store:       store,
		Analyzer:    orchestrator,
		MaxSnippets: cfg.Search.MaxSnippets,
		Logger:      baseLogger.With("component", "ingest"),
	}
	if searcher != nil {
		ingestorDeps.Searcher = searcher
	}
	ingestor := usecase.NewIngestor(ingestorDeps)

	registry := sources.NewRegistry()
	for _, src := range cfg.Sources {
		registry.Register(rss.NewFeedAdapter(src))
	}

	crawler := usecase.NewCrawler(registry, ingestor,
		cfg.Scheduler.CrawlSummariesPerPoll,
		baseLogger.With("component", "crawler"))

	reprocessor := usecase.NewReprocessor(store, ingestor, usecase.ReprocessorConfig{
		BatchSize:       cfg.Scheduler.BatchSize,
		MaxBatches:      cfg.Scheduler.MaxBatches,
		PerItemDelay:    cfg.Scheduler.PerItemDelay(),
		InterBatchDelay: cfg.Scheduler.InterBatchDelay(),
		SourceFilter:    cfg.Scheduler.SourceFilter,
	}, baseLogger.With("component", "reprocessor"))

	return &Application{
		cfg:         cfg,
		logger:      baseLogger,
		crawler:     crawler,
		reprocessor: reprocessor,
	}, nil
}

// Run executes one crawl+reprocess pass in run-once mode, or keeps both
// worker loops going until the context ends.
func (a *Application) Run(ctx context.Context) error {
	if a.cfg.Scheduler.RunOnce {
		a.crawler.PollOnce(ctx)
		n, err := a.reprocessor.RunCycle(ctx)
		if err != nil {
			return fmt.Errorf("reprocess cycle: %w", err)
		}
		a.logger.Info("single run done", "enriched", n)
		return nil
	}

	interval := a.cfg.Scheduler.Interval()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		a.crawler.Run(ctx, interval)
	}()
	go func() {
		defer wg.Done()
		a.reprocessor.Run(ctx, interval)
	}()
	wg.Wait()

	return ctx.Err()
}
