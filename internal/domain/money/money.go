// Package money holds the fixed-precision arithmetic helpers shared by the
// pricing engine. Internal computation keeps full decimal precision; rounding
// happens only when an amount is displayed or frozen into a snapshot.
package money

import "github.com/shopspring/decimal"

// Epsilon below which a residual amount is treated as zero for display.
var Epsilon = decimal.New(1, -3) // 0.001

// Round rounds to 2 fractional digits, half away from zero.
func Round(x decimal.Decimal) decimal.Decimal {
	return x.Round(2)
}

// PercentOf returns base * pct / 100. pct is deliberately not clamped to
// [0,100]: negative or >100 values propagate into the derived amounts.
func PercentOf(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).Div(decimal.NewFromInt(100))
}

// Negligible reports whether |x| <= Epsilon.
func Negligible(x decimal.Decimal) bool {
	return x.Abs().Cmp(Epsilon) <= 0
}
