package interfaces

import (
	"context"

	"moomoo-exporter/internal/types"
)

// TradeSession is a live, exclusively-owned connection context for
// account queries. The orchestrator owns it for the full run; callees
// receive it by reference and must not close it. A nil transport error
// with a non-OK ret code means the query degraded, not that it failed.
type TradeSession interface {
	AccountList(ctx context.Context) (types.AccountListResult, error)
	PositionList(ctx context.Context, accID types.AccountID, refreshCache bool) (types.PositionListResult, error)
	AccountInfo(ctx context.Context, accID types.AccountID, currency string, refreshCache bool) (types.AccountInfoResult, error)
	Close(ctx context.Context)
}

// QuoteSession is a market-data connection context. It is acquired
// without a readiness gate and is not used by the export pipeline.
type QuoteSession interface {
	Close(ctx context.Context)
}
