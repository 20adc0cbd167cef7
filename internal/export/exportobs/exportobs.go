package exportobs

import (
	"context"
	"time"

	"moomoo-exporter/internal/interfaces"
	"moomoo-exporter/internal/logger"
	"moomoo-exporter/internal/trace"
	"moomoo-exporter/internal/types"
)

type observableExporter struct {
	exporter interfaces.Exporter
}

var _ interfaces.Exporter = (*observableExporter)(nil)

func Wrap(exp interfaces.Exporter) interfaces.Exporter {
	return &observableExporter{
		exporter: exp,
	}
}

func (oe *observableExporter) Run(ctx context.Context) (*types.RunResult, error) {
	ctx, span := trace.StartSpan(ctx, "exporter.Run")
	defer span.End()

	start := time.Now()

	logger.InfoSkip(ctx, 1, "Starting export run")

	result, err := oe.exporter.Run(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Export run failed", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Export run completed",
		"seen", result.Seen,
		"exported", result.Exported,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}
