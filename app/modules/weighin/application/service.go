package weighinservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	gamedb "github.com/Black-And-White-Club/weighin-league/app/modules/game/infrastructure/repositories"
	rounddomain "github.com/Black-And-White-Club/weighin-league/app/modules/round/domain"
	rounddb "github.com/Black-And-White-Club/weighin-league/app/modules/round/infrastructure/repositories"
	scoredomain "github.com/Black-And-White-Club/weighin-league/app/modules/score/domain"
	weighindb "github.com/Black-And-White-Club/weighin-league/app/modules/weighin/infrastructure/repositories"
	"github.com/Black-And-White-Club/weighin-league/app/observability/metrics"
	"github.com/Black-And-White-Club/weighin-league/app/shared/operation"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// WeighInService implements the Service interface.
type WeighInService struct {
	repo    weighindb.Repository
	members MemberReader
	rounds  RoundReader
	runner  *operation.Runner
	logger  *slog.Logger
	now     func() time.Time
}

func NewWeighInService(
	repo weighindb.Repository,
	members MemberReader,
	rounds RoundReader,
	logger *slog.Logger,
	recorder metrics.Recorder,
	tracer trace.Tracer,
	db *bun.DB,
) *WeighInService {
	runner := operation.NewRunner("weighin", logger, recorder, tracer, db)
	return &WeighInService{
		repo:    repo,
		members: members,
		rounds:  rounds,
		runner:  runner,
		logger:  runner.Logger,
		now:     time.Now,
	}
}

func (s *WeighInService) SubmitWeighIn(ctx context.Context, req SubmitRequest) (SubmitResult, error) {
	return operation.Run(s.runner, ctx, "SubmitWeighIn", req.UserID, func(ctx context.Context, db bun.IDB) (SubmitResult, error) {
		return s.submitLogic(ctx, db, req)
	})
}

func (s *WeighInService) submitLogic(ctx context.Context, db bun.IDB, req SubmitRequest) (SubmitResult, error) {
	fail := func(err error) (SubmitResult, error) {
		return results.FailureResult[*WeighInView, error](err), nil
	}

	if err := scoredomain.ValidateWeight(req.WeightKg); err != nil {
		return fail(err)
	}

	member, err := s.members.GetMember(ctx, db, req.GameID, req.UserID)
	if err != nil {
		if errors.Is(err, gamedb.ErrNotFound) {
			return fail(ErrNotMember)
		}
		return SubmitResult{}, err
	}
	if !member.IsActive {
		return fail(ErrNotMember)
	}

	round, err := s.rounds.GetRoundForShare(ctx, db, req.RoundID)
	if err != nil {
		if errors.Is(err, rounddb.ErrNotFound) {
			return fail(ErrRoundNotFound)
		}
		return SubmitResult{}, err
	}
	if round.GameID != req.GameID {
		return fail(ErrRoundNotFound)
	}

	now := s.now().UTC()
	if round.Status == rounddomain.StatusClosed {
		return fail(ErrRoundClosed)
	}
	if now.After(round.EndAt) {
		return fail(ErrDeadlinePassed)
	}

	suspicious := !req.Conditions.AllMet()
	weighIn := &weighindb.WeighIn{
		ID:          uuid.New(),
		GameID:      req.GameID,
		RoundID:     req.RoundID,
		UserID:      req.UserID,
		WeightKg:    req.WeightKg,
		Morning:     req.Conditions.Morning,
		AfterToilet: req.Conditions.AfterToilet,
		NoClothes:   req.Conditions.NoClothes,
		Suspicious:  suspicious,
		TakenAt:     now,
		UpdatedAt:   now,
	}

	inserted, err := s.repo.InsertWeighIn(ctx, db, weighIn)
	if err != nil {
		return SubmitResult{}, err
	}
	if inserted {
		return results.SuccessResult[*WeighInView, error](toView(weighIn, true)), nil
	}

	return s.editLogic(ctx, db, req, now, suspicious)
}

func (s *WeighInService) editLogic(ctx context.Context, db bun.IDB, req SubmitRequest, now time.Time, suspicious bool) (SubmitResult, error) {
	existing, err := s.repo.GetWeighIn(ctx, db, req.UserID, req.RoundID)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("failed to load existing weigh-in: %w", err)
	}
	if existing.Locked {
		return results.FailureResult[*WeighInView, error](ErrWeighInLocked), nil
	}
	if existing.EditedCount >= 1 {
		return results.FailureResult[*WeighInView, error](ErrEditLimitReached), nil
	}

	updated, err := s.repo.ApplyEdit(ctx, db, weighindb.Edit{
		ID:          existing.ID,
		WeightKg:    req.WeightKg,
		Morning:     req.Conditions.Morning,
		AfterToilet: req.Conditions.AfterToilet,
		NoClothes:   req.Conditions.NoClothes,
		Suspicious:  suspicious,
		EditedAt:    now,
	})
	if err != nil {
		if errors.Is(err, weighindb.ErrNoRowsAffected) {
			s.logger.WarnContext(ctx, "Weigh-in edit lost compare-and-swap",
				attr.ExtractCorrelationID(ctx),
				attr.String("user_id", req.UserID),
				attr.StringUUID("round_id", req.RoundID.String()),
			)
			return results.FailureResult[*WeighInView, error](ErrEditConflict), nil
		}
		return SubmitResult{}, err
	}

	if err := s.repo.InsertEditLog(ctx, db, &weighindb.EditLog{
		ID:               uuid.New(),
		WeighInID:        updated.ID,
		UserID:           req.UserID,
		PreviousWeightKg: existing.WeightKg,
		NewWeightKg:      updated.WeightKg,
		EditedAt:         now,
	}); err != nil {
		return SubmitResult{}, err
	}

	return results.SuccessResult[*WeighInView, error](toView(updated, false)), nil
}

func (s *WeighInService) ListMyWeighIns(ctx context.Context, gameID uuid.UUID, userID string) (ListResult, error) {
	return operation.WithTelemetry(s.runner, ctx, "ListMyWeighIns", userID, func(ctx context.Context) (ListResult, error) {
		if _, err := s.members.GetMember(ctx, nil, gameID, userID); err != nil {
			if errors.Is(err, gamedb.ErrNotFound) {
				return results.FailureResult[[]WeighInView, error](ErrNotMember), nil
			}
			return ListResult{}, err
		}

		weighIns, err := s.repo.ListByGameUser(ctx, nil, gameID, userID)
		if err != nil {
			return ListResult{}, err
		}
		views := make([]WeighInView, 0, len(weighIns))
		for i := range weighIns {
			views = append(views, *toView(&weighIns[i], false))
		}
		return results.SuccessResult[[]WeighInView, error](views), nil
	})
}
