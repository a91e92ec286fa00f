package leaderboardservice

import (
	"context"
	"errors"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	gamedb "github.com/Black-And-White-Club/weighin-league/app/modules/game/infrastructure/repositories"
	leaderboarddb "github.com/Black-And-White-Club/weighin-league/app/modules/leaderboard/infrastructure/repositories"
	"github.com/Black-And-White-Club/weighin-league/app/shared/operation"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const minutesPerDay = 24 * 60

// RecordFastingDay upserts the day's stat. A day that meets its target continues the
// streak of the previous day; a day below target resets it to zero.
func (s *LeaderboardService) RecordFastingDay(ctx context.Context, req FastingDayRequest) (FastingDayResult, error) {
	res, err := operation.Run(s.runner, ctx, "RecordFastingDay", req.UserID, func(ctx context.Context, db bun.IDB) (FastingDayResult, error) {
		if req.FastingMinutes < 0 || req.FastingMinutes > minutesPerDay || req.TargetMinutes <= 0 {
			return results.FailureResult[*leaderboarddb.FastingDayStat, error](ErrInvalidFasting), nil
		}

		member, err := s.members.GetMember(ctx, db, req.GameID, req.UserID)
		if err != nil {
			if errors.Is(err, gamedb.ErrNotFound) {
				return results.FailureResult[*leaderboarddb.FastingDayStat, error](ErrNotMember), nil
			}
			return FastingDayResult{}, err
		}
		if !member.IsActive {
			return results.FailureResult[*leaderboarddb.FastingDayStat, error](ErrNotMember), nil
		}

		day := req.Day
		if day.IsZero() {
			day = s.now()
		}
		day = leaderboarddb.DayOf(day)

		streak := 0
		if req.FastingMinutes >= req.TargetMinutes {
			prev, err := s.streaks.GetDayStat(ctx, db, req.GameID, req.UserID, day.AddDate(0, 0, -1))
			switch {
			case err == nil:
				streak = prev.Streak + 1
			case errors.Is(err, leaderboarddb.ErrNotFound):
				streak = 1
			default:
				return FastingDayResult{}, err
			}
		}

		stat := &leaderboarddb.FastingDayStat{
			GameID:         req.GameID,
			UserID:         req.UserID,
			Day:            day,
			FastingMinutes: req.FastingMinutes,
			TargetMinutes:  req.TargetMinutes,
			Streak:         streak,
		}
		if err := s.streaks.UpsertDayStat(ctx, db, stat); err != nil {
			return FastingDayResult{}, err
		}
		return results.SuccessResult[*leaderboarddb.FastingDayStat, error](stat), nil
	})
	if err == nil && res.IsSuccess() && (*res.Success).Day.Equal(leaderboarddb.DayOf(s.now())) {
		s.invalidateCommitted(ctx, req.GameID)
	}
	return res, err
}

// invalidateCommitted runs after the transaction commits, so a rebuild that sees the
// new generation also sees the new rows.
func (s *LeaderboardService) invalidateCommitted(ctx context.Context, gameID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, gameID); err != nil {
		s.logger.WarnContext(ctx, "Leaderboard cache invalidation failed", attr.StringUUID("game_id", gameID.String()), attr.Error(err))
	}
}
