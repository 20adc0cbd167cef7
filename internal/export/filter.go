package export

import (
	"github.com/shopspring/decimal"

	"moomoo-exporter/internal/types"
)

// isActive reports whether an account clears the activity threshold.
// Accounts at or below the threshold hold no meaningful assets and are
// not worth exporting.
func isActive(account types.Account, threshold decimal.Decimal) bool {
	return account.TotalAssets.GreaterThan(threshold)
}
