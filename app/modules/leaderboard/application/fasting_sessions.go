package leaderboardservice

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	gamedb "github.com/Black-And-White-Club/weighin-league/app/modules/game/infrastructure/repositories"
	leaderboarddb "github.com/Black-And-White-Club/weighin-league/app/modules/leaderboard/infrastructure/repositories"
	"github.com/Black-And-White-Club/weighin-league/app/shared/operation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

const (
	minTargetHours       = 4
	maxTargetHours       = 36
	defaultTargetMinutes = 16 * 60
)

func (s *LeaderboardService) StartFast(ctx context.Context, req StartFastRequest) (FastingSessionResult, error) {
	return operation.Run(s.runner, ctx, "StartFast", req.UserID, func(ctx context.Context, db bun.IDB) (FastingSessionResult, error) {
		fail := func(err error) (FastingSessionResult, error) {
			return results.FailureResult[*FastingSessionView, error](err), nil
		}
		if math.IsNaN(req.TargetHours) || req.TargetHours < minTargetHours || req.TargetHours > maxTargetHours {
			return fail(ErrInvalidTarget)
		}
		if err := s.requireActiveMember(ctx, db, req.GameID, req.UserID); err != nil {
			if errors.Is(err, ErrNotMember) {
				return fail(err)
			}
			return FastingSessionResult{}, err
		}

		session := &leaderboarddb.FastingSession{
			ID:            uuid.New(),
			GameID:        req.GameID,
			UserID:        req.UserID,
			StartedAt:     s.now().UTC(),
			TargetMinutes: int(math.Round(req.TargetHours * 60)),
		}
		started, err := s.streaks.StartSession(ctx, db, session)
		if err != nil {
			return FastingSessionResult{}, err
		}
		if !started {
			return fail(ErrFastActive)
		}
		return results.SuccessResult[*FastingSessionView, error](&FastingSessionView{
			ID:            session.ID,
			GameID:        session.GameID,
			UserID:        session.UserID,
			Status:        StatusFasting,
			StartedAt:     session.StartedAt,
			TargetMinutes: session.TargetMinutes,
		}), nil
	})
}

// FinishFast credits the whole session to the day it ended on. The day's target
// becomes the session's target, so completion and streak are recomputed from the
// accumulated minutes.
func (s *LeaderboardService) FinishFast(ctx context.Context, gameID uuid.UUID, userID string) (FinishFastResult, error) {
	res, err := operation.Run(s.runner, ctx, "FinishFast", userID, func(ctx context.Context, db bun.IDB) (FinishFastResult, error) {
		fail := func(err error) (FinishFastResult, error) {
			return results.FailureResult[*FinishFastView, error](err), nil
		}
		if err := s.requireActiveMember(ctx, db, gameID, userID); err != nil {
			if errors.Is(err, ErrNotMember) {
				return fail(err)
			}
			return FinishFastResult{}, err
		}

		session, err := s.streaks.ActiveSession(ctx, db, gameID, userID, true)
		if err != nil {
			if errors.Is(err, leaderboarddb.ErrSessionNotFound) {
				return fail(ErrNoActiveFast)
			}
			return FinishFastResult{}, err
		}

		endedAt := s.now().UTC()
		duration := minutesBetween(session.StartedAt, endedAt)
		day := leaderboarddb.DayOf(endedAt)

		accumulated := duration
		current, err := s.streaks.GetDayStat(ctx, db, gameID, userID, day)
		switch {
		case err == nil:
			accumulated += current.FastingMinutes
		case !errors.Is(err, leaderboarddb.ErrNotFound):
			return FinishFastResult{}, err
		}

		streak := 0
		if accumulated >= session.TargetMinutes {
			prev, err := s.streaks.GetDayStat(ctx, db, gameID, userID, day.AddDate(0, 0, -1))
			switch {
			case err == nil:
				streak = prev.Streak + 1
			case errors.Is(err, leaderboarddb.ErrNotFound):
				streak = 1
			default:
				return FinishFastResult{}, err
			}
		}

		if err := s.streaks.UpsertDayStat(ctx, db, &leaderboarddb.FastingDayStat{
			GameID:         gameID,
			UserID:         userID,
			Day:            day,
			FastingMinutes: accumulated,
			TargetMinutes:  session.TargetMinutes,
			Streak:         streak,
		}); err != nil {
			return FinishFastResult{}, err
		}
		if err := s.streaks.FinishSession(ctx, db, session.ID, endedAt, duration, streak); err != nil {
			return FinishFastResult{}, err
		}

		return results.SuccessResult[*FinishFastView, error](&FinishFastView{
			ID:              session.ID,
			Status:          StatusEating,
			DurationMinutes: duration,
			DayMinutes:      accumulated,
			TargetMinutes:   session.TargetMinutes,
			Streak:          streak,
		}), nil
	})
	if err == nil && res.IsSuccess() {
		s.invalidateCommitted(ctx, gameID)
	}
	return res, err
}

func (s *LeaderboardService) FastingToday(ctx context.Context, gameID uuid.UUID, userID string) (FastingTodayResult, error) {
	return operation.WithTelemetry(s.runner, ctx, "FastingToday", userID, func(ctx context.Context) (FastingTodayResult, error) {
		if _, err := s.members.GetMember(ctx, nil, gameID, userID); err != nil {
			if errors.Is(err, gamedb.ErrNotFound) {
				return results.FailureResult[*FastingTodayView, error](ErrNotMember), nil
			}
			return FastingTodayResult{}, err
		}

		now := s.now().UTC()
		view := &FastingTodayView{Status: StatusEating}

		active, err := s.streaks.ActiveSession(ctx, nil, gameID, userID, false)
		if err != nil && !errors.Is(err, leaderboarddb.ErrSessionNotFound) {
			return FastingTodayResult{}, err
		}
		last, err := s.streaks.LastFinishedSession(ctx, nil, gameID, userID)
		if err != nil && !errors.Is(err, leaderboarddb.ErrSessionNotFound) {
			return FastingTodayResult{}, err
		}
		stat, err := s.streaks.GetDayStat(ctx, nil, gameID, userID, now)
		if err != nil && !errors.Is(err, leaderboarddb.ErrNotFound) {
			return FastingTodayResult{}, err
		}

		total, target := 0, defaultTargetMinutes
		if active != nil {
			view.Status = StatusFasting
			started := active.StartedAt
			view.ActiveStartedAt = &started
			total = minutesBetween(active.StartedAt, now)
			target = active.TargetMinutes
		}
		if last != nil {
			view.LastDurationMinutes = last.DurationMinutes
			view.Streak = last.StreakDay
		}
		if stat != nil {
			total += stat.FastingMinutes
			target = stat.TargetMinutes
			view.Streak = stat.Streak
		}

		view.TargetHours = hours(target).Round(1)
		view.TodayProgressHours = hours(total).Round(2)
		return results.SuccessResult[*FastingTodayView, error](view), nil
	})
}

func (s *LeaderboardService) requireActiveMember(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string) error {
	member, err := s.members.GetMember(ctx, db, gameID, userID)
	if err != nil {
		if errors.Is(err, gamedb.ErrNotFound) {
			return ErrNotMember
		}
		return err
	}
	if !member.IsActive {
		return ErrNotMember
	}
	return nil
}

// minutesBetween counts whole minutes and never goes negative.
func minutesBetween(from, to time.Time) int {
	if !to.After(from) {
		return 0
	}
	return int(to.Sub(from) / time.Minute)
}

func hours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60))
}
