package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/David-Botos/catalog-cleaner/pkg/config"
	"github.com/David-Botos/catalog-cleaner/pkg/job"
	"github.com/David-Botos/catalog-cleaner/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return 1
	}

	log, flush, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		return 1
	}
	defer flush()

	log.Info("Configuration loaded",
		zap.String("input", cfg.InputPath),
		zap.String("output", cfg.OutputPath),
		zap.String("format", cfg.OutputFormat),
		zap.String("catalog_driver", string(cfg.Catalog.Driver)),
		zap.Bool("audit", cfg.AuditEnabled),
		zap.Int("workers", cfg.WorkerPoolSize))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner, err := job.NewRunner(cfg, log)
	if err != nil {
		log.Error("Failed to create runner", zap.Error(err))
		return 1
	}

	if _, err := runner.Run(ctx); err != nil {
		category := job.CategorizeError(err)
		if errors.Is(err, context.Canceled) {
			log.Warn("Run interrupted")
		}
		return category.ExitCode()
	}

	return 0
}
