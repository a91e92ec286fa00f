package caloriedb

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Repository stores calorie days, entries and privacy settings.
//
// Error semantics:
//   - ErrNotFound: Record does not exist (GetDay)
//   - Other errors: Infrastructure failures (DB connection, query errors)
type Repository interface {
	// UpsertDay replaces goal, total and tracked flag of the day.
	UpsertDay(ctx context.Context, db bun.IDB, day *Day) error
	// AddToDay adds kcal to the day's total and marks it tracked. A missing day is
	// created with defaultGoal.
	AddToDay(ctx context.Context, db bun.IDB, userID string, day time.Time, kcal, defaultGoal int) (*Day, error)
	GetDay(ctx context.Context, db bun.IDB, userID string, day time.Time) (*Day, error)

	InsertEntry(ctx context.Context, db bun.IDB, entry *Entry) error
	// ListEntries returns the entries of the day, newest first.
	ListEntries(ctx context.Context, db bun.IDB, userID string, day time.Time) ([]Entry, error)

	UpsertSettings(ctx context.Context, db bun.IDB, settings *Settings) error

	// PublicTracking maps each of userIDs with a public checkmark to whether they
	// tracked day. Private users are left out.
	PublicTracking(ctx context.Context, db bun.IDB, userIDs []string, day time.Time) (map[string]bool, error)
}
