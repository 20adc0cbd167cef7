// Package export walks the user's real trading accounts and writes one
// timestamped snapshot file per active account.
package export

import (
	"context"
	"fmt"
	"time"

	"moomoo-exporter/internal/exportlog"
	"moomoo-exporter/internal/interfaces"
	"moomoo-exporter/internal/logger"
	"moomoo-exporter/internal/store"
	"moomoo-exporter/internal/trace"
	"moomoo-exporter/internal/types"
)

// Exporter drives one export pass over an already-acquired trade
// session. It never closes the session; the caller owns it.
type Exporter struct {
	cfg     *store.Config
	session interfaces.TradeSession
	writer  *SnapshotWriter
	now     func() time.Time
}

var _ interfaces.Exporter = (*Exporter)(nil)

func New(cfg *store.Config, session interfaces.TradeSession) *Exporter {
	return &Exporter{
		cfg:     cfg,
		session: session,
		writer:  NewSnapshotWriter(cfg.OutputDir),
		now:     time.Now,
	}
}

// Run enumerates real accounts and exports each one in gateway order.
// Per-account problems (degraded queries, write failures) are logged
// and the loop advances; an error return means a transport failure and
// aborts the run. The run's timestamp is fixed once, up front.
func (e *Exporter) Run(ctx context.Context) (*types.RunResult, error) {
	ctx, span := trace.StartSpan(ctx, "export.Run")
	defer span.End()

	res := &types.RunResult{Timestamp: e.now().Format(TimestampLayout)}

	ids, err := e.listRealAccounts(ctx)
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		res.Seen++
		if err := e.exportAccount(ctx, id, res); err != nil {
			return nil, err
		}
	}

	logger.Info(ctx, "Export run complete",
		"seen", res.Seen,
		"exported", res.Exported,
		"skipped", res.Skipped,
		"failed", res.Failed,
	)
	return res, nil
}

// listRealAccounts filters the gateway's account listing down to REAL
// trading accounts, preserving listing order. A degraded listing is
// non-fatal and yields no accounts.
func (e *Exporter) listRealAccounts(ctx context.Context) ([]types.AccountID, error) {
	res, err := e.session.AccountList(ctx)
	if err != nil {
		return nil, fmt.Errorf("account listing: %w", err)
	}
	if !res.OK() {
		logger.Warn(ctx, "Account listing degraded - nothing to export", "diagnostic", res.Diagnostic)
		return nil, nil
	}

	ids := make([]types.AccountID, 0, len(res.Accounts))
	for _, rec := range res.Accounts {
		if rec.TrdEnv == types.TrdEnvReal {
			ids = append(ids, rec.AccID)
		}
	}
	logger.Info(ctx, "Real accounts enumerated", "count", len(ids))
	return ids, nil
}

// exportAccount fetches, filters and writes one account. A non-nil
// return is always a transport failure; everything else is absorbed
// here so the caller can move on to the next account.
func (e *Exporter) exportAccount(ctx context.Context, id types.AccountID, res *types.RunResult) error {
	ctx, span := trace.StartSpan(ctx, "export.Account")
	defer span.End()

	logger.Info(ctx, "Querying account", "account", id.Last4())

	positions, err := e.fetchPositions(ctx, id)
	if err != nil {
		return err
	}

	account, ok, err := e.fetchAccount(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		// Without a summary the activity threshold cannot be
		// evaluated; never decide against stale or absent data.
		logger.Skip(ctx, id.Last4(), "account summary unavailable")
		res.Skipped++
		e.journal(exportlog.Entry{Account: id.Last4(), Outcome: "SKIPPED", Reason: "summary unavailable"})
		return nil
	}

	if !isActive(account, e.cfg.Threshold()) {
		logger.Skip(ctx, id.Last4(), "inactive account",
			"total_assets", account.TotalAssets.String(),
			"threshold", e.cfg.Threshold().String(),
		)
		res.Skipped++
		e.journal(exportlog.Entry{Account: id.Last4(), Outcome: "SKIPPED", Reason: "inactive", TotalAssets: account.TotalAssets.String()})
		return nil
	}

	snap := types.NewSnapshot(res.Timestamp, account, positions)

	if e.cfg.Mode == "DRY_RUN" {
		logger.Info(ctx, "DRY_RUN - snapshot not written",
			"account", id.Last4(),
			"total_assets", account.TotalAssets.String(),
			"positions", len(snap.Positions),
		)
		res.Exported++
		return nil
	}

	path, err := e.writer.Write(snap)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to write snapshot", err, "account", id.Last4())
		res.Failed++
		e.journal(exportlog.Entry{Account: id.Last4(), Outcome: "FAILED", Reason: err.Error()})
		return nil
	}

	res.Exported++
	res.Files = append(res.Files, path)
	logger.Export(ctx, id.Last4(), path, account.TotalAssets.String(), "positions", len(snap.Positions))
	e.journal(exportlog.Entry{
		Account:     id.Last4(),
		Outcome:     "EXPORTED",
		Path:        path,
		TotalAssets: account.TotalAssets.String(),
		Positions:   len(snap.Positions),
	})
	return nil
}

// fetchPositions queries positions with a forced cache refresh. A
// degraded query is treated as "no positions" rather than failing the
// account.
func (e *Exporter) fetchPositions(ctx context.Context, id types.AccountID) ([]types.Position, error) {
	res, err := e.session.PositionList(ctx, id, true)
	if err != nil {
		return nil, fmt.Errorf("position query for account %s: %w", id.Last4(), err)
	}
	if !res.OK() {
		logger.Warn(ctx, "Position query degraded - treating as no positions",
			"account", id.Last4(),
			"diagnostic", res.Diagnostic,
		)
		return nil, nil
	}
	logger.Info(ctx, "Positions found", "account", id.Last4(), "count", len(res.Positions))
	return res.Positions, nil
}

// fetchAccount queries the account summary in the configured reporting
// currency. ok is false when the query degraded.
func (e *Exporter) fetchAccount(ctx context.Context, id types.AccountID) (types.Account, bool, error) {
	res, err := e.session.AccountInfo(ctx, id, e.cfg.Currency, true)
	if err != nil {
		return types.Account{}, false, fmt.Errorf("account summary query for account %s: %w", id.Last4(), err)
	}
	if !res.OK() {
		logger.Warn(ctx, "Account summary query degraded",
			"account", id.Last4(),
			"diagnostic", res.Diagnostic,
		)
		return types.Account{}, false, nil
	}
	logger.Info(ctx, "Total assets value",
		"account", id.Last4(),
		"total_assets", res.Account.TotalAssets.String(),
		"currency", res.Account.Currency,
	)
	return res.Account, true, nil
}

func (e *Exporter) journal(entry exportlog.Entry) {
	if err := exportlog.Append(entry); err != nil {
		logger.Warn(context.Background(), "Failed to append export journal entry", "error", err)
	}
}
