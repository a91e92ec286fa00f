package scoredomain

import "errors"

var (
	// ErrInvariantViolation marks configuration or data that can never be scored.
	ErrInvariantViolation = errors.New("scoring invariant violated")

	ErrEmptyScheme       = errors.New("points scheme must have at least one step")
	ErrNegativePoints    = errors.New("points scheme step awards negative points")
	ErrInvalidPercentCap = errors.New("percent cap must be greater than 0 and at most 5")
	ErrInvalidWeight     = errors.New("weight must be greater than 0 kg and at most 500 kg")
)
