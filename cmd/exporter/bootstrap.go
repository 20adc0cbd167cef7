package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"moomoo-exporter/internal/export"
	"moomoo-exporter/internal/exportlog"
	"moomoo-exporter/internal/gateway/opend"
	"moomoo-exporter/internal/interfaces"
	"moomoo-exporter/internal/logger"
	"moomoo-exporter/internal/store"
	"moomoo-exporter/internal/trace"
)

// initializeSystem loads .env and initializes logger and tracer
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

func loadConfig(ctx context.Context) (*store.Config, error) {
	path := os.Getenv("MOOMOO_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	if cfg.Mode == "DRY_RUN" {
		logger.Warn(ctx, "Running in DRY_RUN mode - no snapshot files will be written")
	}
	if cfg.DataSource == opend.DataSourceStatic {
		logger.Warn(ctx, "Using STATIC gateway data for testing")
	}
	return cfg, nil
}

// compressOldJournals gzips old export journals if retention is configured
func compressOldJournals(ctx context.Context) {
	if v := os.Getenv("EXPORTER_LOG_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		if err := exportlog.CompressOlder(n); err != nil {
			logger.Warn(ctx, "Failed to compress old journals", "error", err)
		}
	}
}

func initializeManager(cfg *store.Config) *opend.Manager {
	return opend.NewManager(opend.Params{
		Host:          cfg.Host,
		Port:          cfg.Port,
		ProbeTimeout:  cfg.ProbeTimeout(),
		RetryInterval: cfg.RetryInterval(),
		Market:        cfg.Market,
		SecurityFirm:  cfg.SecurityFirm,
		DataSource:    cfg.DataSource,
	})
}

func initializeExporter(cfg *store.Config, session interfaces.TradeSession) interfaces.Exporter {
	return export.New(cfg, session)
}
