package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"moomoo-exporter/internal/export/exportobs"
	"moomoo-exporter/internal/gateway/gatewayobs"
	"moomoo-exporter/internal/gateway/opend"
	"moomoo-exporter/internal/logger"
	"moomoo-exporter/internal/trace"
)

func main() {
	if err := run(); err != nil {
		// The deferred session release inside run has already fired.
		ctx := context.Background()
		if errors.Is(err, opend.ErrServiceUnavailable) {
			logger.Error(ctx, "Moomoo OpenD is not running. Launch OpenD, log in, and try again.", "error", err)
		} else {
			logger.ErrorWithErr(ctx, "Export aborted", err)
		}
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := initializeSystem(); err != nil {
		return err
	}
	defer func() { _ = trace.Shutdown(context.Background()) }()

	// SIGINT/SIGTERM cancel the run; deferred cleanup still executes.
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		logger.Warn(ctx, "Interrupt received - shutting down")
		cancel()
	}()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	compressOldJournals(ctx)

	mgr := initializeManager(cfg)

	logger.Info(ctx, "Acquiring trade session from Moomoo OpenD",
		"host", cfg.Host,
		"port", cfg.Port,
		"market", cfg.Market,
		"security_firm", cfg.SecurityFirm,
	)
	session, err := mgr.AcquireTradeSession(ctx)
	if err != nil {
		return err
	}
	wrapped := gatewayobs.Wrap(session)
	// Release on every exit path: success, transport failure, interrupt.
	defer wrapped.Close(context.Background())
	logger.Info(ctx, "Trade session acquired")

	exporter := exportobs.Wrap(initializeExporter(cfg, wrapped))
	result, err := exporter.Run(ctx)
	if err != nil {
		return err
	}

	logger.Info(ctx, "Done",
		"accounts", result.Seen,
		"files", len(result.Files),
		"output_dir", cfg.OutputDir,
	)
	return nil
}
