package leaderboarddb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// FastingDayStat is one member's fasting progress for a calendar day (UTC). Rows are
// written by the fasting tracker; the leaderboard only reads the streak and progress.
type FastingDayStat struct {
	bun.BaseModel `bun:"table:fasting_day_stats,alias:fds"`

	GameID         uuid.UUID `bun:"game_id,pk,type:uuid"`
	UserID         string    `bun:"user_id,pk"`
	Day            time.Time `bun:"day,pk,type:date"`
	FastingMinutes int       `bun:"fasting_minutes,notnull"`
	TargetMinutes  int       `bun:"target_minutes,notnull"`
	Streak         int       `bun:"streak,notnull"`
	UpdatedAt      time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// FastingSession is one fast of a member. At most one session per member and game
// has no end time.
type FastingSession struct {
	bun.BaseModel `bun:"table:fasting_sessions,alias:fs"`

	ID              uuid.UUID  `bun:"id,pk,type:uuid"`
	GameID          uuid.UUID  `bun:"game_id,type:uuid,notnull"`
	UserID          string     `bun:"user_id,notnull"`
	StartedAt       time.Time  `bun:"started_at,notnull"`
	TargetMinutes   int        `bun:"target_minutes,notnull"`
	EndedAt         *time.Time `bun:"ended_at"`
	DurationMinutes int        `bun:"duration_minutes,notnull"`
	StreakDay       int        `bun:"streak_day,notnull"`
	CreatedAt       time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
