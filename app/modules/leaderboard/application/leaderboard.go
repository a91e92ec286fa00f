package leaderboardservice

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	gamedb "github.com/Black-And-White-Club/weighin-league/app/modules/game/infrastructure/repositories"
	leaderboarddomain "github.com/Black-And-White-Club/weighin-league/app/modules/leaderboard/domain"
	rounddb "github.com/Black-And-White-Club/weighin-league/app/modules/round/infrastructure/repositories"
	"github.com/Black-And-White-Club/weighin-league/app/shared/operation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GetLeaderboard returns the cumulative standings of the active members of a game.
// Any member, active or not, may read them.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, gameID uuid.UUID, viewerID string) (LeaderboardResult, error) {
	return operation.WithTelemetry(s.runner, ctx, "GetLeaderboard", gameID.String(), func(ctx context.Context) (LeaderboardResult, error) {
		if _, err := s.members.GetMember(ctx, nil, gameID, viewerID); err != nil {
			if errors.Is(err, gamedb.ErrNotFound) {
				return results.FailureResult[*LeaderboardView, error](ErrNotMember), nil
			}
			return LeaderboardResult{}, err
		}

		if view, ok := s.cached(ctx, gameID); ok {
			return results.SuccessResult[*LeaderboardView, error](view), nil
		}

		gen, genErr := s.cache.Generation(ctx, gameID)
		if genErr != nil {
			s.logger.WarnContext(ctx, "Leaderboard cache generation unavailable", attr.StringUUID("game_id", gameID.String()), attr.Error(genErr))
		}

		view, err := s.build(ctx, gameID)
		if err != nil {
			return LeaderboardResult{}, err
		}
		if genErr == nil {
			s.store(ctx, view, gen)
		}
		return results.SuccessResult[*LeaderboardView, error](view), nil
	})
}

// cached treats every cache problem as a miss; the database stays the source of truth.
func (s *LeaderboardService) cached(ctx context.Context, gameID uuid.UUID) (*LeaderboardView, bool) {
	data, ok, err := s.cache.Get(ctx, gameID)
	if err != nil {
		s.logger.WarnContext(ctx, "Leaderboard cache read failed", attr.StringUUID("game_id", gameID.String()), attr.Error(err))
		ok = false
	}
	if ok {
		view := new(LeaderboardView)
		if err := json.Unmarshal(data, view); err == nil {
			s.metrics.RecordCacheLookup(ctx, true)
			return view, true
		}
		s.logger.WarnContext(ctx, "Discarding undecodable cached leaderboard", attr.StringUUID("game_id", gameID.String()))
	}
	s.metrics.RecordCacheLookup(ctx, false)
	return nil, false
}

// store drops the view when the game was invalidated while it was being built.
func (s *LeaderboardService) store(ctx context.Context, view *LeaderboardView, gen int64) {
	data, err := json.Marshal(view)
	if err != nil {
		s.logger.WarnContext(ctx, "Leaderboard cache write failed", attr.StringUUID("game_id", view.GameID.String()), attr.Error(err))
		return
	}
	stored, err := s.cache.Set(ctx, view.GameID, gen, data)
	if err != nil {
		s.logger.WarnContext(ctx, "Leaderboard cache write failed", attr.StringUUID("game_id", view.GameID.String()), attr.Error(err))
		return
	}
	if !stored {
		s.logger.DebugContext(ctx, "Discarded leaderboard built before invalidation",
			attr.StringUUID("game_id", view.GameID.String()),
			attr.Int64("generation", gen),
		)
	}
}

func (s *LeaderboardService) build(ctx context.Context, gameID uuid.UUID) (*LeaderboardView, error) {
	now := s.now().UTC()

	members, err := s.members.ListActiveMembers(ctx, nil, gameID)
	if err != nil {
		return nil, err
	}
	rows, err := s.results.ListResultsByGame(ctx, nil, gameID)
	if err != nil {
		return nil, err
	}
	firsts, err := s.weighIns.FirstSubmissions(ctx, nil, gameID)
	if err != nil {
		return nil, err
	}
	stats, err := s.streaks.ListDayStats(ctx, nil, gameID, now)
	if err != nil {
		return nil, err
	}
	userIDs := make([]string, 0, len(members))
	for _, m := range members {
		userIDs = append(userIDs, m.UserID)
	}
	tracked, err := s.calories.PublicTracking(ctx, nil, userIDs, now)
	if err != nil {
		return nil, err
	}

	view := &LeaderboardView{GameID: gameID, GeneratedAt: now}

	latestByUser := map[string]rounddb.Result{}
	latest, err := s.results.LatestRound(ctx, nil, gameID)
	switch {
	case err == nil:
		view.LatestRoundID = &latest.ID
		for _, r := range rows {
			if r.RoundID == latest.ID {
				latestByUser[r.UserID] = r
			}
		}
	case !errors.Is(err, rounddb.ErrNotFound):
		return nil, err
	}

	type totals struct {
		points  int
		percent decimal.Decimal
	}
	sums := make(map[string]totals, len(members))
	for _, r := range rows {
		t := sums[r.UserID]
		t.points += r.PointsAwarded
		t.percent = t.percent.Add(r.PercentCapped)
		sums[r.UserID] = t
	}

	statByUser := make(map[string]int, len(stats))
	for i, st := range stats {
		statByUser[st.UserID] = i
	}

	standings := make([]leaderboarddomain.Standing, 0, len(members))
	for _, m := range members {
		t := sums[m.UserID]
		st := leaderboarddomain.Standing{
			UserID:             m.UserID,
			TotalPoints:        t.points,
			TotalPercentCapped: t.percent,
			FirstSubmission:    firsts[m.UserID],
		}
		if i, ok := statByUser[m.UserID]; ok {
			st.Streak = stats[i].Streak
		}
		standings = append(standings, st)
	}

	ranked := leaderboarddomain.Order(standings)
	view.Rows = make([]Row, 0, len(ranked))
	for _, r := range ranked {
		row := Row{
			Rank:               r.Rank,
			UserID:             r.UserID,
			TotalPoints:        r.TotalPoints,
			TotalPercentCapped: r.TotalPercentCapped,
			TotalScore:         r.TotalScore(),
			Streak:             r.Streak,
		}
		if res, ok := latestByUser[r.UserID]; ok {
			row.RoundPoints = res.PointsAwarded
			row.RoundPercentCapped = res.PercentCapped
		}
		if i, ok := statByUser[r.UserID]; ok {
			row.FastingMinutes = stats[i].FastingMinutes
			row.TargetMinutes = stats[i].TargetMinutes
		}
		if t, ok := tracked[r.UserID]; ok {
			row.CalorieTracked = &t
		}
		if !r.FirstSubmission.IsZero() {
			first := r.FirstSubmission
			row.FirstSubmission = &first
		}
		view.Rows = append(view.Rows, row)
	}
	return view, nil
}
