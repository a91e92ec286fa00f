package roundservice

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	gamedb "github.com/Black-And-White-Club/weighin-league/app/modules/game/infrastructure/repositories"
	rounddb "github.com/Black-And-White-Club/weighin-league/app/modules/round/infrastructure/repositories"
	roundtime "github.com/Black-And-White-Club/weighin-league/app/modules/round/time_utils"
	"github.com/Black-And-White-Club/weighin-league/app/observability/metrics"
	"github.com/Black-And-White-Club/weighin-league/app/shared/operation"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// RoundService implements the Service interface.
type RoundService struct {
	repo       rounddb.Repository
	games      GameReader
	weighIns   WeighInStore
	scheduler  Scheduler
	exporters  map[string]Exporter
	timeParser *roundtime.Parser
	runner     *operation.Runner
	logger     *slog.Logger
	metrics    metrics.Recorder
	now        func() time.Time
}

// NewRoundService wires the service. scheduler may be nil, in which case rounds are
// only advanced by the sweeper.
func NewRoundService(
	repo rounddb.Repository,
	games GameReader,
	weighIns WeighInStore,
	scheduler Scheduler,
	logger *slog.Logger,
	recorder metrics.Recorder,
	tracer trace.Tracer,
	db *bun.DB,
	exporters ...Exporter,
) *RoundService {
	runner := operation.NewRunner("round", logger, recorder, tracer, db)
	byExt := make(map[string]Exporter, len(exporters))
	for _, e := range exporters {
		byExt[e.Extension()] = e
	}
	return &RoundService{
		repo:       repo,
		games:      games,
		weighIns:   weighIns,
		scheduler:  scheduler,
		exporters:  byExt,
		timeParser: roundtime.NewParser(),
		runner:     runner,
		logger:     runner.Logger,
		metrics:    runner.Metrics,
		now:        time.Now,
	}
}

// GetRound is visible to members of the round's game only.
func (s *RoundService) GetRound(ctx context.Context, roundID uuid.UUID, viewerID string) (RoundResult, error) {
	return operation.WithTelemetry(s.runner, ctx, "GetRound", roundID.String(), func(ctx context.Context) (RoundResult, error) {
		round, err := s.repo.GetRound(ctx, nil, roundID)
		if err != nil {
			if errors.Is(err, rounddb.ErrNotFound) {
				return results.FailureResult[*RoundView, error](ErrRoundNotFound), nil
			}
			return RoundResult{}, err
		}
		if ok, err := s.isMember(ctx, round.GameID, viewerID); err != nil || !ok {
			if err != nil {
				return RoundResult{}, err
			}
			return results.FailureResult[*RoundView, error](ErrNotMember), nil
		}
		view := toRoundView(round)
		return results.SuccessResult[*RoundView, error](&view), nil
	})
}

func (s *RoundService) ListRounds(ctx context.Context, gameID uuid.UUID, viewerID string) (RoundListResult, error) {
	return operation.WithTelemetry(s.runner, ctx, "ListRounds", gameID.String(), func(ctx context.Context) (RoundListResult, error) {
		if ok, err := s.isMember(ctx, gameID, viewerID); err != nil || !ok {
			if err != nil {
				return RoundListResult{}, err
			}
			return results.FailureResult[[]RoundView, error](ErrNotMember), nil
		}
		rounds, err := s.repo.ListRoundsByGame(ctx, nil, gameID)
		if err != nil {
			return RoundListResult{}, err
		}
		views := make([]RoundView, 0, len(rounds))
		for i := range rounds {
			views = append(views, toRoundView(&rounds[i]))
		}
		return results.SuccessResult[[]RoundView, error](views), nil
	})
}

// isMember reports whether userID has a membership row in the game, active or not.
func (s *RoundService) isMember(ctx context.Context, gameID uuid.UUID, userID string) (bool, error) {
	if _, err := s.games.GetMember(ctx, nil, gameID, userID); err != nil {
		if errors.Is(err, gamedb.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
