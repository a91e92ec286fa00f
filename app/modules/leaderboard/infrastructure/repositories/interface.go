package leaderboarddb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository reads and writes the fasting day stats behind the leaderboard streak
// and the sessions that feed them.
type Repository interface {
	// ListDayStats returns the stats of every member of the game for day.
	ListDayStats(ctx context.Context, db bun.IDB, gameID uuid.UUID, day time.Time) ([]FastingDayStat, error)
	GetDayStat(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string, day time.Time) (*FastingDayStat, error)
	UpsertDayStat(ctx context.Context, db bun.IDB, stat *FastingDayStat) error

	// StartSession inserts session unless the member already has an open one in the
	// game. It reports whether the row was inserted.
	StartSession(ctx context.Context, db bun.IDB, session *FastingSession) (bool, error)
	// ActiveSession returns the open session. forUpdate locks it until the surrounding
	// transaction ends.
	ActiveSession(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string, forUpdate bool) (*FastingSession, error)
	LastFinishedSession(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string) (*FastingSession, error)
	FinishSession(ctx context.Context, db bun.IDB, sessionID uuid.UUID, endedAt time.Time, durationMinutes, streakDay int) error
}
