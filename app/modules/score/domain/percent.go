// Package scoredomain holds the pure scoring rules: percent loss, the percent cap, the points
// ladder and the suspicion check. Nothing here touches storage.
package scoredomain

import "github.com/shopspring/decimal"

// PercentPlaces is the precision every stored percentage is rounded to.
const PercentPlaces = 3

var hundred = decimal.NewFromInt(100)

// PercentLoss returns the weight lost between start and end as a percentage of start.
// A non-positive start yields 0, and a gain floors at 0. Rounding is half away from zero.
func PercentLoss(startKg, endKg decimal.Decimal) decimal.Decimal {
	if !startKg.IsPositive() {
		return decimal.Zero
	}
	pct := startKg.Sub(endKg).Mul(hundred).Div(startKg)
	if pct.IsNegative() {
		return decimal.Zero
	}
	return pct.Round(PercentPlaces)
}

// ApplyCap clamps percentReal into [0, percentCap].
func ApplyCap(percentReal, percentCap decimal.Decimal) decimal.Decimal {
	capped := percentReal
	if capped.IsNegative() {
		capped = decimal.Zero
	}
	if capped.GreaterThan(percentCap) {
		capped = percentCap
	}
	return capped.Round(PercentPlaces)
}
