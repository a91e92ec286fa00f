package scoredomain

import "github.com/shopspring/decimal"

// MaxPercentCap is the highest percent cap a game may configure.
var MaxPercentCap = decimal.NewFromInt(5)

// MaxWeightKg is the heaviest weigh-in accepted.
var MaxWeightKg = decimal.NewFromInt(500)

// suspicionFactor scales the cap into the implausible-loss threshold.
var suspicionFactor = decimal.RequireFromString("1.5")

// Conditions are the measurement rules a weigh-in attests to.
type Conditions struct {
	Morning     bool `json:"morning"`
	AfterToilet bool `json:"afterToilet"`
	NoClothes   bool `json:"noClothes"`
}

// AllMet reports whether every measurement rule was followed.
func (c Conditions) AllMet() bool {
	return c.Morning && c.AfterToilet && c.NoClothes
}

// IsSuspicious flags a loss beyond 1.5x the cap or any unmet condition.
func IsSuspicious(percentReal, percentCap decimal.Decimal, c Conditions) bool {
	return percentReal.GreaterThan(percentCap.Mul(suspicionFactor)) || !c.AllMet()
}

// ValidateWeight accepts weights in (0, 500] kg.
func ValidateWeight(kg decimal.Decimal) error {
	if !kg.IsPositive() || kg.GreaterThan(MaxWeightKg) {
		return ErrInvalidWeight
	}
	return nil
}

// ValidatePercentCap accepts caps in (0, 5].
func ValidatePercentCap(percentCap decimal.Decimal) error {
	if !percentCap.IsPositive() || percentCap.GreaterThan(MaxPercentCap) {
		return ErrInvalidPercentCap
	}
	return nil
}
