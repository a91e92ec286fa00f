package leaderboardservice

import (
	"context"
	"time"

	gamedb "github.com/Black-And-White-Club/weighin-league/app/modules/game/infrastructure/repositories"
	leaderboarddb "github.com/Black-And-White-Club/weighin-league/app/modules/leaderboard/infrastructure/repositories"
	rounddb "github.com/Black-And-White-Club/weighin-league/app/modules/round/infrastructure/repositories"
	weighindb "github.com/Black-And-White-Club/weighin-league/app/modules/weighin/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Service serves cumulative standings and member progress charts.
type Service interface {
	GetLeaderboard(ctx context.Context, gameID uuid.UUID, viewerID string) (LeaderboardResult, error)
	// RenderWeightChart draws the viewer's own weigh-ins across the rounds of a game.
	RenderWeightChart(ctx context.Context, gameID uuid.UUID, viewerID string) (ChartResult, error)
	// RecordFastingDay stores a member's fasting minutes for a day and extends or resets the streak.
	RecordFastingDay(ctx context.Context, req FastingDayRequest) (FastingDayResult, error)

	// StartFast opens a fasting session. A member has at most one open session per game.
	StartFast(ctx context.Context, req StartFastRequest) (FastingSessionResult, error)
	// FinishFast closes the open session, adds its minutes to the day it ended on and
	// recomputes that day's streak.
	FinishFast(ctx context.Context, gameID uuid.UUID, userID string) (FinishFastResult, error)
	// FastingToday reports today's progress including a running session.
	FastingToday(ctx context.Context, gameID uuid.UUID, userID string) (FastingTodayResult, error)

	// InvalidateGame drops the cached leaderboard of a game.
	InvalidateGame(ctx context.Context, gameID uuid.UUID) error
	// InvalidateMemberGames drops the cached leaderboard of every game of a user.
	InvalidateMemberGames(ctx context.Context, userID string) error
}

type MemberReader interface {
	GetMember(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string) (*gamedb.Member, error)
	ListActiveMembers(ctx context.Context, db bun.IDB, gameID uuid.UUID) ([]gamedb.Member, error)
	ListGamesForUser(ctx context.Context, db bun.IDB, userID string) ([]gamedb.Game, error)
}

type ResultReader interface {
	ListResultsByGame(ctx context.Context, db bun.IDB, gameID uuid.UUID) ([]rounddb.Result, error)
	LatestRound(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*rounddb.Round, error)
}

type WeighInReader interface {
	FirstSubmissions(ctx context.Context, db bun.IDB, gameID uuid.UUID) (map[string]time.Time, error)
	ListByGameUser(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string) ([]weighindb.WeighIn, error)
}

// StreakSource reports and records the fasting streak of each member per day and
// the sessions that feed it.
type StreakSource interface {
	ListDayStats(ctx context.Context, db bun.IDB, gameID uuid.UUID, day time.Time) ([]leaderboarddb.FastingDayStat, error)
	GetDayStat(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string, day time.Time) (*leaderboarddb.FastingDayStat, error)
	UpsertDayStat(ctx context.Context, db bun.IDB, stat *leaderboarddb.FastingDayStat) error

	StartSession(ctx context.Context, db bun.IDB, session *leaderboarddb.FastingSession) (bool, error)
	ActiveSession(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string, forUpdate bool) (*leaderboarddb.FastingSession, error)
	LastFinishedSession(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string) (*leaderboarddb.FastingSession, error)
	FinishSession(ctx context.Context, db bun.IDB, sessionID uuid.UUID, endedAt time.Time, durationMinutes, streakDay int) error
}

// CalorieReader reports, for users who chose to show it, whether they tracked
// calories on day. Users who keep calories private are absent from the map.
type CalorieReader interface {
	PublicTracking(ctx context.Context, db bun.IDB, userIDs []string, day time.Time) (map[string]bool, error)
}

// Cache holds serialized leaderboards keyed by game. Every Invalidate advances the
// game's generation, and Set refuses data built at an older generation.
type Cache interface {
	Get(ctx context.Context, gameID uuid.UUID) ([]byte, bool, error)
	Generation(ctx context.Context, gameID uuid.UUID) (int64, error)
	Set(ctx context.Context, gameID uuid.UUID, gen int64, data []byte) (bool, error)
	Invalidate(ctx context.Context, gameID uuid.UUID) error
}
