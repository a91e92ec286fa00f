package leaderboardservice

import (
	"context"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/Black-And-White-Club/weighin-league/app/observability/metrics"
	"github.com/Black-And-White-Club/weighin-league/app/shared/operation"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// LeaderboardService implements the Service interface.
type LeaderboardService struct {
	members  MemberReader
	results  ResultReader
	weighIns WeighInReader
	streaks  StreakSource
	calories CalorieReader
	cache    Cache
	palette  ChartPalette
	runner   *operation.Runner
	logger   *slog.Logger
	metrics  metrics.Recorder
	now      func() time.Time
}

func NewLeaderboardService(
	members MemberReader,
	results ResultReader,
	weighIns WeighInReader,
	streaks StreakSource,
	calories CalorieReader,
	cache Cache,
	logger *slog.Logger,
	recorder metrics.Recorder,
	tracer trace.Tracer,
	db *bun.DB,
) *LeaderboardService {
	runner := operation.NewRunner("leaderboard", logger, recorder, tracer, db)
	return &LeaderboardService{
		members:  members,
		results:  results,
		weighIns: weighIns,
		streaks:  streaks,
		calories: calories,
		cache:    cache,
		palette:  DefaultPalette,
		runner:   runner,
		logger:   runner.Logger,
		metrics:  runner.Metrics,
		now:      time.Now,
	}
}

func (s *LeaderboardService) InvalidateGame(ctx context.Context, gameID uuid.UUID) error {
	if err := s.cache.Invalidate(ctx, gameID); err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "Leaderboard cache invalidated", attr.StringUUID("game_id", gameID.String()))
	return nil
}

// InvalidateMemberGames is used when a change of one user, such as their calorie
// log, shows on the leaderboard of every game they play.
func (s *LeaderboardService) InvalidateMemberGames(ctx context.Context, userID string) error {
	games, err := s.members.ListGamesForUser(ctx, nil, userID)
	if err != nil {
		return err
	}
	for _, g := range games {
		if err := s.InvalidateGame(ctx, g.ID); err != nil {
			return err
		}
	}
	return nil
}
