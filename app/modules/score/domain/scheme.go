package scoredomain

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// PointsStep awards Points once the capped percentage reaches Threshold.
type PointsStep struct {
	Threshold decimal.Decimal `json:"threshold"`
	Points    int             `json:"points"`
}

// PointsScheme is a threshold ladder. Steps may arrive in any order.
type PointsScheme []PointsStep

// DefaultPointsScheme is applied to games created without an explicit ladder.
func DefaultPointsScheme() PointsScheme {
	return PointsScheme{
		{Threshold: decimal.RequireFromString("2.5"), Points: 10},
		{Threshold: decimal.RequireFromString("1.5"), Points: 7},
		{Threshold: decimal.RequireFromString("0.5"), Points: 4},
		{Threshold: decimal.Zero, Points: 1},
	}
}

// NewPointsScheme validates steps and returns them as a scheme.
func NewPointsScheme(steps ...PointsStep) (PointsScheme, error) {
	s := PointsScheme(slices.Clone(steps))
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the scheme has steps and none award negative points.
func (s PointsScheme) Validate() error {
	if len(s) == 0 {
		return ErrEmptyScheme
	}
	for i, step := range s {
		if step.Points < 0 {
			return fmt.Errorf("step %d (threshold %s): %w", i, step.Threshold, ErrNegativePoints)
		}
	}
	return nil
}

// Ordered returns the steps by threshold descending. The sort is stable, so among equal
// thresholds the first-listed step stays first.
func (s PointsScheme) Ordered() PointsScheme {
	ordered := slices.Clone(s)
	slices.SortStableFunc(ordered, func(a, b PointsStep) int {
		return b.Threshold.Cmp(a.Threshold)
	})
	return ordered
}

// PointsFor returns the points of the highest step whose threshold is at most
// percentCapped, or 0 when percentCapped is below every threshold.
func (s PointsScheme) PointsFor(percentCapped decimal.Decimal) int {
	for _, step := range s.Ordered() {
		if step.Threshold.LessThanOrEqual(percentCapped) {
			return step.Points
		}
	}
	return 0
}
