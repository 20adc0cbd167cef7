package interfaces

import (
	"context"

	"moomoo-exporter/internal/types"
)

type Exporter interface {
	Run(ctx context.Context) (*types.RunResult, error)
}
