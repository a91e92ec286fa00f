package roundservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	gamedb "github.com/Black-And-White-Club/weighin-league/app/modules/game/infrastructure/repositories"
	rounddomain "github.com/Black-And-White-Club/weighin-league/app/modules/round/domain"
	rounddb "github.com/Black-And-White-Club/weighin-league/app/modules/round/infrastructure/repositories"
	scoredomain "github.com/Black-And-White-Club/weighin-league/app/modules/score/domain"
	"github.com/Black-And-White-Club/weighin-league/app/shared/operation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

func (s *RoundService) SettleRound(ctx context.Context, roundID uuid.UUID) (SettlementResult, error) {
	return s.settle(ctx, "SettleRound", roundID, false)
}

func (s *RoundService) RecomputeRound(ctx context.Context, roundID uuid.UUID) (SettlementResult, error) {
	return s.settle(ctx, "RecomputeRound", roundID, true)
}

func (s *RoundService) settle(ctx context.Context, opName string, roundID uuid.UUID, requireRound bool) (SettlementResult, error) {
	result, err := operation.Run(s.runner, ctx, opName, roundID.String(), func(ctx context.Context, db bun.IDB) (SettlementResult, error) {
		return s.settleLogic(ctx, db, roundID, requireRound)
	})
	if err == nil && result.IsSuccess() && !(*result.Success).Skipped {
		view := *result.Success
		s.metrics.RecordSettlement(ctx, view.Results, view.Suspicious)
	}
	if errors.Is(err, scoredomain.ErrInvariantViolation) {
		s.recordFailure(ctx, roundID, err)
	}
	return result, err
}

// recordFailure runs outside the rolled back settlement transaction. Retrying a round
// the scoring rules reject cannot succeed, so the sweeper skips it once recorded.
func (s *RoundService) recordFailure(ctx context.Context, roundID uuid.UUID, cause error) {
	if err := s.repo.MarkSettlementFailed(ctx, nil, roundID, cause.Error(), s.now().UTC()); err != nil {
		s.logger.WarnContext(ctx, "Failed to record settlement failure",
			attr.ExtractCorrelationID(ctx),
			attr.StringUUID("round_id", roundID.String()),
			attr.Error(err),
		)
	}
}

// settleLogic runs inside one transaction. The round row is locked first so two
// settlements of the same round serialize.
func (s *RoundService) settleLogic(ctx context.Context, db bun.IDB, roundID uuid.UUID, requireRound bool) (SettlementResult, error) {
	skipped := func(reason string) (SettlementResult, error) {
		s.logger.InfoContext(ctx, "Settlement skipped",
			attr.ExtractCorrelationID(ctx),
			attr.StringUUID("round_id", roundID.String()),
			attr.String("reason", reason),
		)
		return results.SuccessResult[*SettlementView, error](&SettlementView{RoundID: roundID, Skipped: true}), nil
	}

	round, err := s.repo.GetRoundForUpdate(ctx, db, roundID)
	if err != nil {
		if errors.Is(err, rounddb.ErrNotFound) {
			if requireRound {
				return results.FailureResult[*SettlementView, error](ErrRoundNotFound), nil
			}
			return skipped("round not found")
		}
		return SettlementResult{}, err
	}
	if round.Status != rounddomain.StatusClosed {
		return results.FailureResult[*SettlementView, error](ErrRoundNotClosed), nil
	}

	game, err := s.games.GetGame(ctx, db, round.GameID)
	if err != nil {
		if errors.Is(err, gamedb.ErrNotFound) {
			return skipped("game not found")
		}
		return SettlementResult{}, err
	}

	members, err := s.games.ListActiveMembers(ctx, db, round.GameID)
	if err != nil {
		return SettlementResult{}, err
	}
	active := make(map[string]struct{}, len(members))
	for _, m := range members {
		active[m.UserID] = struct{}{}
	}

	weighIns, err := s.weighIns.ListByRound(ctx, db, round.ID)
	if err != nil {
		return SettlementResult{}, err
	}

	previous, err := s.previousWeights(ctx, db, round)
	if err != nil {
		return SettlementResult{}, err
	}

	entries := make([]rounddomain.Entry, 0, len(weighIns))
	for _, w := range weighIns {
		if _, ok := active[w.UserID]; !ok {
			continue
		}
		entries = append(entries, rounddomain.Entry{
			UserID:        w.UserID,
			StartWeightKg: rounddomain.Baseline(previous, w.UserID, w.WeightKg),
			EndWeightKg:   w.WeightKg,
			Conditions:    w.Conditions(),
			SubmittedAt:   w.TakenAt,
		})
	}

	outcomes, err := rounddomain.ComputeOutcomes(rounddomain.Terms{
		PercentCap: game.PercentCap,
		Scheme:     game.PointsScheme,
	}, entries)
	if err != nil {
		return SettlementResult{}, fmt.Errorf("round %s: %w", round.ID, err)
	}

	now := s.now().UTC()
	rows := make([]rounddb.Result, 0, len(outcomes))
	suspicious := 0
	for _, o := range outcomes {
		if o.Suspicious {
			suspicious++
		}
		rows = append(rows, rounddb.Result{
			ID:            uuid.New(),
			RoundID:       round.ID,
			GameID:        round.GameID,
			UserID:        o.UserID,
			StartWeightKg: o.StartWeightKg,
			EndWeightKg:   o.EndWeightKg,
			PercentReal:   o.PercentReal,
			PercentCapped: o.PercentCapped,
			PointsAwarded: o.PointsAwarded,
			Rank:          o.Rank,
			Suspicious:    o.Suspicious,
			CreatedAt:     now,
		})
	}

	if err := s.repo.ReplaceResults(ctx, db, round.ID, rows); err != nil {
		return SettlementResult{}, err
	}
	locked, err := s.weighIns.LockRound(ctx, db, round.ID)
	if err != nil {
		return SettlementResult{}, err
	}
	if err := s.repo.MarkSettled(ctx, db, round.ID, now); err != nil {
		return SettlementResult{}, err
	}

	s.logger.InfoContext(ctx, "Round settled",
		attr.ExtractCorrelationID(ctx),
		attr.StringUUID("round_id", round.ID.String()),
		attr.StringUUID("game_id", round.GameID.String()),
		attr.Int("results", len(rows)),
		attr.Int("suspicious", suspicious),
		attr.Int("locked", locked),
	)

	return results.SuccessResult[*SettlementView, error](&SettlementView{
		RoundID:    round.ID,
		GameID:     round.GameID,
		Results:    len(rows),
		Suspicious: suspicious,
		Locked:     locked,
		SettledAt:  now,
	}), nil
}

// previousWeights maps each member to their weigh-in in the round of the same game
// that ended most recently before this one started.
func (s *RoundService) previousWeights(ctx context.Context, db bun.IDB, round *rounddb.Round) (map[string]decimal.Decimal, error) {
	prev, err := s.repo.FindPreviousRound(ctx, db, round.GameID, round.StartAt)
	if err != nil {
		if errors.Is(err, rounddb.ErrNotFound) {
			return map[string]decimal.Decimal{}, nil
		}
		return nil, err
	}

	weighIns, err := s.weighIns.ListByRound(ctx, db, prev.ID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]decimal.Decimal, len(weighIns))
	for _, w := range weighIns {
		out[w.UserID] = w.WeightKg
	}
	return out, nil
}
