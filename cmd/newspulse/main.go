package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"NewsPulse/internal/app"
	"NewsPulse/internal/config"
	"NewsPulse/internal/logging"
)

func main() {
	// Missing .env is fine; real deployments use plain environment variables.
	_ = godotenv.Load()

	once := flag.Bool("once", false, "run one crawl+reprocess pass and exit")
	interval := flag.Int("interval", 0, "cycle interval in minutes (overrides config)")
	batchSize := flag.Int("batch-size", 0, "unresolved rows per batch (overrides config)")
	maxBatches := flag.Int("max-batches", 0, "max batches per cycle (overrides config)")
	source := flag.String("source", "", "restrict reprocessing to one source")
	flag.Parse()

	cfg := config.Load()
	if *once {
		cfg.Scheduler.RunOnce = true
	}
	if *interval > 0 {
		cfg.Scheduler.IntervalMinutes = *interval
	}
	if *batchSize > 0 {
		cfg.Scheduler.BatchSize = *batchSize
	}
	if *maxBatches > 0 {
		cfg.Scheduler.MaxBatches = *maxBatches
	}
	if *source != "" {
		cfg.Scheduler.SourceFilter = *source
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(cfg, logger, db)
	if err != nil {
		logger.Error("application init failed", "error", err)
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
