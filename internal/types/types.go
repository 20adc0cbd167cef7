package types

import "github.com/shopspring/decimal"

func init() {
	// Snapshot consumers parse money fields as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Trading environment tags reported by the gateway's account listing.
const (
	TrdEnvReal     = "REAL"
	TrdEnvSimulate = "SIMULATE"
)

// AccountID is an opaque brokerage account identifier. It is immutable
// once enumerated and only its last four digits ever appear in logs.
type AccountID string

func (id AccountID) Last4() string {
	s := string(id)
	if len(s) <= 4 {
		return s
	}
	return s[len(s)-4:]
}

// AccountRecord is one row of the gateway's account listing.
type AccountRecord struct {
	AccID  AccountID `json:"acc_id"`
	TrdEnv string    `json:"trd_env"`
}

// Account is the per-account summary in the configured reporting
// currency. Field names match the gateway's accinfo columns.
type Account struct {
	AccID       AccountID       `json:"acc_id"`
	Currency    string          `json:"currency"`
	TotalAssets decimal.Decimal `json:"total_assets"`
	Cash        decimal.Decimal `json:"cash"`
	MarketValue decimal.Decimal `json:"market_val"`
	Power       decimal.Decimal `json:"power"`
}

// Position is one held instrument.
type Position struct {
	Code         string          `json:"code"`
	Name         string          `json:"stock_name"`
	Qty          decimal.Decimal `json:"qty"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	NominalPrice decimal.Decimal `json:"nominal_price"`
	MarketValue  decimal.Decimal `json:"market_val"`
	PLVal        decimal.Decimal `json:"pl_val"`
	PLRatio      decimal.Decimal `json:"pl_ratio"`
	Currency     string          `json:"currency"`
}

// Snapshot is one export unit: an account summary plus its positions,
// stamped once at construction. It is never mutated after NewSnapshot.
type Snapshot struct {
	Timestamp string     `json:"timestamp"`
	Account   Account    `json:"account"`
	Positions []Position `json:"positions"`
}

// NewSnapshot builds a snapshot sharing one timestamp across the
// account and its positions. Positions serialize as [] rather than
// null when the account holds nothing.
func NewSnapshot(timestamp string, account Account, positions []Position) Snapshot {
	if positions == nil {
		positions = []Position{}
	}
	return Snapshot{Timestamp: timestamp, Account: account, Positions: positions}
}

// RetCode is the application-level status of a gateway query. A non-OK
// code with a nil transport error means the query degraded: the call
// completed but the gateway reported failure.
type RetCode int

const (
	RetOK    RetCode = 0
	RetError RetCode = -1
)

// AccountListResult is the tagged outcome of the account listing, so
// callers can tell "zero accounts" apart from "listing degraded".
type AccountListResult struct {
	Ret        RetCode
	Diagnostic string
	Accounts   []AccountRecord
}

func (r AccountListResult) OK() bool { return r.Ret == RetOK }

// PositionListResult is the tagged outcome of a position query.
type PositionListResult struct {
	Ret        RetCode
	Diagnostic string
	Positions  []Position
}

func (r PositionListResult) OK() bool { return r.Ret == RetOK }

// AccountInfoResult is the tagged outcome of an account-summary query.
// Account is only meaningful when OK.
type AccountInfoResult struct {
	Ret        RetCode
	Diagnostic string
	Account    Account
}

func (r AccountInfoResult) OK() bool { return r.Ret == RetOK }

// RunResult summarizes one export pass for the operator console and
// for tests.
type RunResult struct {
	Timestamp string   `json:"timestamp"`
	Seen      int      `json:"seen"`
	Exported  int      `json:"exported"`
	Skipped   int      `json:"skipped"`
	Failed    int      `json:"failed"`
	Files     []string `json:"files,omitempty"`
}
