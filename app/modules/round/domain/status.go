package rounddomain

import (
	"errors"
	"fmt"
)

// Status is the lifecycle state of a round. It only moves forward.
type Status string

const (
	StatusUpcoming Status = "UPCOMING"
	StatusActive   Status = "ACTIVE"
	StatusClosed   Status = "CLOSED"
)

// ErrInvalidTransition is returned for a backward or unknown status change.
var ErrInvalidTransition = errors.New("invalid round status transition")

func (s Status) IsValid() bool {
	switch s {
	case StatusUpcoming, StatusActive, StatusClosed:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

func (s Status) order() int {
	switch s {
	case StatusUpcoming:
		return 0
	case StatusActive:
		return 1
	case StatusClosed:
		return 2
	}
	return -1
}

// CanTransitionTo reports whether s may move to next. CLOSED is terminal.
func (s Status) CanTransitionTo(next Status) bool {
	if !s.IsValid() || !next.IsValid() {
		return false
	}
	return next.order() > s.order()
}

// ValidateTransition wraps ErrInvalidTransition with both states.
func (s Status) ValidateTransition(next Status) error {
	if !s.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, next)
	}
	return nil
}
