// Package money holds integer minor-unit arithmetic shared by the pricing engine.
//
// Amounts are int64 minor currency units (cents, kobo). Percentages are decimals
// such as 7.5 for 7.5%. Rounding is half-up and happens exactly once per call.
package money

import "github.com/shopspring/decimal"

var half = decimal.New(5, -1)

// RoundHalfUp rounds d to a whole minor unit, ties towards positive infinity.
func RoundHalfUp(d decimal.Decimal) int64 {
	return d.Add(half).Floor().IntPart()
}

// PercentOf returns pct percent of amount without rounding.
func PercentOf(amount int64, pct decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(amount).Mul(pct).Shift(-2)
}

// Percent returns pct percent of amount rounded half-up.
func Percent(amount int64, pct decimal.Decimal) int64 {
	return RoundHalfUp(PercentOf(amount, pct))
}

// Sum adds amounts exactly.
func Sum(amounts ...int64) int64 {
	var total int64
	for _, amount := range amounts {
		total += amount
	}

	return total
}

// ClampPercent bounds pct to [0, 100].
func ClampPercent(pct decimal.Decimal) decimal.Decimal {
	hundred := decimal.NewFromInt(100)

	if pct.IsNegative() {
		return decimal.Zero
	}

	if pct.GreaterThan(hundred) {
		return hundred
	}

	return pct
}
