package opend

import (
	"context"

	"github.com/shopspring/decimal"

	"moomoo-exporter/internal/interfaces"
	"moomoo-exporter/internal/types"
)

// staticTradeSession serves canned records for dry runs and tests, so
// the pipeline can be exercised without a logged-in gateway.
type staticTradeSession struct{}

var _ interfaces.TradeSession = (*staticTradeSession)(nil)

func newStaticTradeSession() *staticTradeSession {
	return &staticTradeSession{}
}

func (s *staticTradeSession) AccountList(ctx context.Context) (types.AccountListResult, error) {
	return types.AccountListResult{
		Ret: types.RetOK,
		Accounts: []types.AccountRecord{
			{AccID: "281756459141", TrdEnv: types.TrdEnvReal},
			{AccID: "281756459277", TrdEnv: types.TrdEnvReal},
			{AccID: "715623901", TrdEnv: types.TrdEnvSimulate},
		},
	}, nil
}

func (s *staticTradeSession) PositionList(ctx context.Context, accID types.AccountID, refreshCache bool) (types.PositionListResult, error) {
	if accID != "281756459141" {
		// Funded static account holds everything; the other is idle.
		return types.PositionListResult{Ret: types.RetOK}, nil
	}
	return types.PositionListResult{
		Ret: types.RetOK,
		Positions: []types.Position{
			{
				Code:         "US.AAPL",
				Name:         "Apple Inc",
				Qty:          dec("12"),
				CostPrice:    dec("171.20"),
				NominalPrice: dec("228.50"),
				MarketValue:  dec("2742.00"),
				PLVal:        dec("687.60"),
				PLRatio:      dec("0.3347"),
				Currency:     "USD",
			},
			{
				Code:         "US.VOO",
				Name:         "Vanguard S&P 500 ETF",
				Qty:          dec("8"),
				CostPrice:    dec("412.05"),
				NominalPrice: dec("520.16"),
				MarketValue:  dec("4161.28"),
				PLVal:        dec("864.88"),
				PLRatio:      dec("0.2624"),
				Currency:     "USD",
			},
		},
	}, nil
}

func (s *staticTradeSession) AccountInfo(ctx context.Context, accID types.AccountID, currency string, refreshCache bool) (types.AccountInfoResult, error) {
	acct := types.Account{
		AccID:    accID,
		Currency: currency,
	}
	if accID == "281756459141" {
		acct.TotalAssets = dec("7903.28")
		acct.Cash = dec("1000.00")
		acct.MarketValue = dec("6903.28")
		acct.Power = dec("2000.00")
	} else {
		acct.TotalAssets = dec("0")
		acct.Cash = dec("0")
		acct.MarketValue = dec("0")
		acct.Power = dec("0")
	}
	return types.AccountInfoResult{Ret: types.RetOK, Account: acct}, nil
}

func (s *staticTradeSession) Close(ctx context.Context) {}

type staticQuoteSession struct{}

var _ interfaces.QuoteSession = (*staticQuoteSession)(nil)

func (s *staticQuoteSession) Close(ctx context.Context) {}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
