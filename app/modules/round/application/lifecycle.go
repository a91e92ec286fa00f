package roundservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	gamedb "github.com/Black-And-White-Club/weighin-league/app/modules/game/infrastructure/repositories"
	rounddomain "github.com/Black-And-White-Club/weighin-league/app/modules/round/domain"
	rounddb "github.com/Black-And-White-Club/weighin-league/app/modules/round/infrastructure/repositories"
	"github.com/Black-And-White-Club/weighin-league/app/shared/operation"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func (s *RoundService) CreateRound(ctx context.Context, req CreateRoundRequest) (RoundResult, error) {
	result, err := operation.Run(s.runner, ctx, "CreateRound", req.GameID.String(), func(ctx context.Context, db bun.IDB) (RoundResult, error) {
		return s.createRoundLogic(ctx, db, req)
	})
	if err != nil || result.IsFailure() || s.scheduler == nil {
		return result, err
	}

	// Scheduling happens after commit. A failed schedule is recovered by the sweeper.
	round := *result.Success
	if err := s.scheduler.ScheduleRound(ctx, round.ID, round.StartAt, round.EndAt); err != nil {
		s.logger.WarnContext(ctx, "Failed to schedule round jobs",
			attr.ExtractCorrelationID(ctx),
			attr.StringUUID("round_id", round.ID.String()),
			attr.Error(err),
		)
	}
	return result, nil
}

func (s *RoundService) createRoundLogic(ctx context.Context, db bun.IDB, req CreateRoundRequest) (RoundResult, error) {
	fail := func(err error) (RoundResult, error) {
		return results.FailureResult[*RoundView, error](err), nil
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return fail(ErrInvalidTitle)
	}

	status := req.Status
	if status == "" {
		status = rounddomain.StatusUpcoming
	}
	if status != rounddomain.StatusUpcoming && status != rounddomain.StatusActive {
		return fail(ErrInvalidStatus)
	}

	loc, err := s.timeParser.Location(req.Timezone)
	if err != nil {
		return fail(err)
	}
	now := s.now().UTC()
	startAt, err := s.timeParser.Parse(req.StartAt, now, loc)
	if err != nil {
		return fail(fmt.Errorf("startAt: %w", err))
	}
	endAt, err := s.timeParser.Parse(req.EndAt, now, loc)
	if err != nil {
		return fail(fmt.Errorf("endAt: %w", err))
	}
	if !endAt.After(startAt) {
		return fail(ErrInvalidWindow)
	}

	if _, err := s.games.GetGame(ctx, db, req.GameID); err != nil {
		if errors.Is(err, gamedb.ErrNotFound) {
			return fail(ErrGameNotFound)
		}
		return RoundResult{}, err
	}

	round := &rounddb.Round{
		ID:        uuid.New(),
		GameID:    req.GameID,
		Title:     title,
		StartAt:   startAt,
		EndAt:     endAt,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateRound(ctx, db, round); err != nil {
		return RoundResult{}, err
	}

	view := toRoundView(round)
	return results.SuccessResult[*RoundView, error](&view), nil
}

func (s *RoundService) ActivateRound(ctx context.Context, roundID uuid.UUID) (TransitionResult, error) {
	return operation.Run(s.runner, ctx, "ActivateRound", roundID.String(), func(ctx context.Context, db bun.IDB) (TransitionResult, error) {
		return s.transitionLogic(ctx, db, roundID, rounddomain.StatusActive)
	})
}

func (s *RoundService) CloseRound(ctx context.Context, roundID uuid.UUID) (TransitionResult, error) {
	return operation.Run(s.runner, ctx, "CloseRound", roundID.String(), func(ctx context.Context, db bun.IDB) (TransitionResult, error) {
		return s.transitionLogic(ctx, db, roundID, rounddomain.StatusClosed)
	})
}

func (s *RoundService) transitionLogic(ctx context.Context, db bun.IDB, roundID uuid.UUID, target rounddomain.Status) (TransitionResult, error) {
	round, err := s.repo.GetRoundForUpdate(ctx, db, roundID)
	if err != nil {
		if errors.Is(err, rounddb.ErrNotFound) {
			return results.FailureResult[*TransitionView, error](ErrRoundNotFound), nil
		}
		return TransitionResult{}, err
	}

	if round.Status == target {
		return results.SuccessResult[*TransitionView, error](&TransitionView{Round: toRoundView(round)}), nil
	}
	if err := round.Status.ValidateTransition(target); err != nil {
		return results.FailureResult[*TransitionView, error](err), nil
	}

	changed, err := s.repo.UpdateStatus(ctx, db, roundID, target, round.Status)
	if err != nil {
		return TransitionResult{}, err
	}
	if changed {
		round.Status = target
	}
	return results.SuccessResult[*TransitionView, error](&TransitionView{
		Round:   toRoundView(round),
		Changed: changed,
	}), nil
}

func (s *RoundService) SweepOverdueRounds(ctx context.Context, now time.Time) (SweepResult, error) {
	return operation.Run(s.runner, ctx, "SweepOverdueRounds", now.UTC().Format(time.RFC3339), func(ctx context.Context, db bun.IDB) (SweepResult, error) {
		view := &SweepView{}

		startable, err := s.repo.ListStartable(ctx, db, now)
		if err != nil {
			return SweepResult{}, err
		}
		for i := range startable {
			changed, err := s.repo.UpdateStatus(ctx, db, startable[i].ID, rounddomain.StatusActive, rounddomain.StatusUpcoming)
			if err != nil {
				return SweepResult{}, err
			}
			if changed {
				startable[i].Status = rounddomain.StatusActive
				view.Activated = append(view.Activated, toRoundView(&startable[i]))
			}
		}

		unsettled, err := s.repo.ListUnsettled(ctx, db)
		if err != nil {
			return SweepResult{}, err
		}
		for i := range unsettled {
			view.Unsettled = append(view.Unsettled, toRoundView(&unsettled[i]))
		}

		overdue, err := s.repo.ListOverdue(ctx, db, now)
		if err != nil {
			return SweepResult{}, err
		}
		for i := range overdue {
			changed, err := s.repo.UpdateStatus(ctx, db, overdue[i].ID, rounddomain.StatusClosed,
				rounddomain.StatusUpcoming, rounddomain.StatusActive)
			if err != nil {
				return SweepResult{}, err
			}
			if changed {
				overdue[i].Status = rounddomain.StatusClosed
				view.Closed = append(view.Closed, toRoundView(&overdue[i]))
			}
		}

		if n := len(view.Activated) + len(view.Closed) + len(view.Unsettled); n > 0 {
			s.logger.InfoContext(ctx, "Swept rounds",
				attr.Int("activated", len(view.Activated)),
				attr.Int("closed", len(view.Closed)),
				attr.Int("unsettled", len(view.Unsettled)),
			)
		}
		return results.SuccessResult[*SweepView, error](view), nil
	})
}
