// Package opend connects to a locally running Moomoo OpenD gateway.
// The gateway is a vendor-controlled process that must already be
// logged in; this package only probes its port, opens sessions scoped
// to a market and security firm, and issues read-only queries.
package opend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"moomoo-exporter/internal/interfaces"
	"moomoo-exporter/internal/logger"
)

// Gateway session scope constants.
const (
	MarketUS         = "US"
	SecurityFirmFutu = "FUTUSG"

	DataSourceStatic = "STATIC"
	DataSourceLive   = "LIVE"
)

// ErrServiceUnavailable means the gateway did not accept a connection
// within the probe budget. Fatal: no session is opened.
var ErrServiceUnavailable = errors.New("opend gateway is not reachable")

type Params struct {
	Host          string
	Port          int
	ProbeTimeout  time.Duration
	RetryInterval time.Duration

	Market       string
	SecurityFirm string

	DataSource string // STATIC or LIVE
}

// Manager acquires gateway sessions. Trade sessions are gated on the
// readiness probe; quote sessions are not.
type Manager struct {
	p Params
}

func NewManager(p Params) *Manager {
	return &Manager{p: p}
}

// AcquireTradeSession probes the gateway once (with the configured
// budget) and opens a trade session scoped to the configured market
// and security firm. The caller owns the session and must close it on
// every exit path.
func (m *Manager) AcquireTradeSession(ctx context.Context) (interfaces.TradeSession, error) {
	if !IsReady(ctx, m.p.Host, m.p.Port, m.p.ProbeTimeout, m.p.RetryInterval) {
		return nil, fmt.Errorf("%w: no listener on %s:%d within %s",
			ErrServiceUnavailable, m.p.Host, m.p.Port, m.p.ProbeTimeout)
	}

	if m.p.DataSource == DataSourceLive {
		return dialTradeSession(ctx, m.p)
	}

	logger.Warn(ctx, "Using STATIC gateway data - queries return canned records")
	return newStaticTradeSession(), nil
}

// AcquireQuoteSession opens a market-data session. No readiness gate:
// quote consumers tolerate a gateway that comes up late.
func (m *Manager) AcquireQuoteSession(ctx context.Context) (interfaces.QuoteSession, error) {
	if m.p.DataSource == DataSourceLive {
		return dialQuoteSession(ctx, m.p)
	}
	return &staticQuoteSession{}, nil
}
