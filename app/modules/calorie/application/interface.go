package calorieservice

import (
	"context"
	"time"
)

// Service is a user's personal calorie log. It is not scoped to a game; the
// leaderboard only shows whether a day was tracked, and only to users who opted in.
type Service interface {
	// SetDay replaces the goal, total and tracked flag of a day.
	SetDay(ctx context.Context, req DayRequest) (DayResult, error)
	// AddEntry logs a food item and adds its kcal to the day, marking it tracked.
	AddEntry(ctx context.Context, req EntryRequest) (EntryResult, error)
	// GetDay returns the day, if any, with its entries.
	GetDay(ctx context.Context, userID string, day time.Time) (DayLogResult, error)
	// SetPrivacy chooses whether the tracked checkmark shows on leaderboards.
	SetPrivacy(ctx context.Context, userID, mode string) (PrivacyResult, error)
}
