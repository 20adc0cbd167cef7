package gatewayobs

import (
	"context"

	"moomoo-exporter/internal/interfaces"
	"moomoo-exporter/internal/logger"
	"moomoo-exporter/internal/trace"
	"moomoo-exporter/internal/types"
)

// observableSession wraps a TradeSession with logging and tracing
type observableSession struct {
	session interfaces.TradeSession
}

// Compile-time interface check
var _ interfaces.TradeSession = (*observableSession)(nil)

// Wrap wraps a trade session with observability middleware
func Wrap(session interfaces.TradeSession) interfaces.TradeSession {
	return &observableSession{
		session: session,
	}
}

func (obs *observableSession) AccountList(ctx context.Context) (types.AccountListResult, error) {
	ctx, span := trace.StartSpan(ctx, "gateway.AccountList")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Listing accounts")

	res, err := obs.session.AccountList(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Account listing transport failure", err)
		return res, err
	}

	logger.DebugSkip(ctx, 1, "Account listing returned",
		"ret", int(res.Ret),
		"count", len(res.Accounts),
	)
	return res, nil
}

func (obs *observableSession) PositionList(ctx context.Context, accID types.AccountID, refreshCache bool) (types.PositionListResult, error) {
	ctx, span := trace.StartSpan(ctx, "gateway.PositionList")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Querying positions", "account", accID.Last4(), "refresh_cache", refreshCache)

	res, err := obs.session.PositionList(ctx, accID, refreshCache)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Position query transport failure", err, "account", accID.Last4())
		return res, err
	}

	logger.DebugSkip(ctx, 1, "Position query returned",
		"account", accID.Last4(),
		"ret", int(res.Ret),
		"count", len(res.Positions),
	)
	return res, nil
}

func (obs *observableSession) AccountInfo(ctx context.Context, accID types.AccountID, currency string, refreshCache bool) (types.AccountInfoResult, error) {
	ctx, span := trace.StartSpan(ctx, "gateway.AccountInfo")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Querying account summary", "account", accID.Last4(), "currency", currency)

	res, err := obs.session.AccountInfo(ctx, accID, currency, refreshCache)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Account summary transport failure", err, "account", accID.Last4())
		return res, err
	}

	logger.DebugSkip(ctx, 1, "Account summary returned",
		"account", accID.Last4(),
		"ret", int(res.Ret),
	)
	return res, nil
}

func (obs *observableSession) Close(ctx context.Context) {
	ctx, span := trace.StartSpan(ctx, "gateway.Close")
	defer span.End()

	obs.session.Close(ctx)
	logger.InfoSkip(ctx, 1, "Trade session closed")
}
