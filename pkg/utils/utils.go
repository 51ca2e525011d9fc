package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CompletionTolerance is the outstanding amount at or below which a disbursed
// account counts as fully repaid. It absorbs rounding left by partial payments.
var CompletionTolerance = decimal.RequireFromString("0.01")

// Outstanding returns disbursed - repaid, clamped at zero so overpayments never
// produce a negative balance.
func Outstanding(disbursed, repaid decimal.Decimal) decimal.Decimal {
	outstanding := disbursed.Sub(repaid)
	if outstanding.IsNegative() {
		return decimal.Zero
	}
	return outstanding
}

// Percentage returns round(part / total * 100) as an integer, or 0 when total is 0.
func Percentage(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(0).
		IntPart())
}

// NormalizeContact trims a contact value; blank values become nil.
func NormalizeContact(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
