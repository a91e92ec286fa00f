package leaderboardhandlers

import (
	"context"

	leaderboardservice "github.com/Black-And-White-Club/weighin-league/app/modules/leaderboard/application"
	"github.com/google/uuid"
)

type FakeService struct {
	trace []string

	GetLeaderboardFunc    func(ctx context.Context, gameID uuid.UUID, viewerID string) (leaderboardservice.LeaderboardResult, error)
	RenderWeightChartFunc func(ctx context.Context, gameID uuid.UUID, viewerID string) (leaderboardservice.ChartResult, error)
	RecordFastingDayFunc  func(ctx context.Context, req leaderboardservice.FastingDayRequest) (leaderboardservice.FastingDayResult, error)
	InvalidateGameFunc    func(ctx context.Context, gameID uuid.UUID) error
	StartFastFunc         func(ctx context.Context, req leaderboardservice.StartFastRequest) (leaderboardservice.FastingSessionResult, error)
	FinishFastFunc        func(ctx context.Context, gameID uuid.UUID, userID string) (leaderboardservice.FinishFastResult, error)
	FastingTodayFunc      func(ctx context.Context, gameID uuid.UUID, userID string) (leaderboardservice.FastingTodayResult, error)
	InvalidateMemberFunc  func(ctx context.Context, userID string) error
}

func (f *FakeService) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeService) Trace() []string { return append([]string(nil), f.trace...) }

func (f *FakeService) GetLeaderboard(ctx context.Context, gameID uuid.UUID, viewerID string) (leaderboardservice.LeaderboardResult, error) {
	f.record("GetLeaderboard")
	if f.GetLeaderboardFunc != nil {
		return f.GetLeaderboardFunc(ctx, gameID, viewerID)
	}
	return leaderboardservice.LeaderboardResult{}, nil
}

func (f *FakeService) RenderWeightChart(ctx context.Context, gameID uuid.UUID, viewerID string) (leaderboardservice.ChartResult, error) {
	f.record("RenderWeightChart")
	if f.RenderWeightChartFunc != nil {
		return f.RenderWeightChartFunc(ctx, gameID, viewerID)
	}
	return leaderboardservice.ChartResult{}, nil
}

func (f *FakeService) RecordFastingDay(ctx context.Context, req leaderboardservice.FastingDayRequest) (leaderboardservice.FastingDayResult, error) {
	f.record("RecordFastingDay")
	if f.RecordFastingDayFunc != nil {
		return f.RecordFastingDayFunc(ctx, req)
	}
	return leaderboardservice.FastingDayResult{}, nil
}

func (f *FakeService) InvalidateGame(ctx context.Context, gameID uuid.UUID) error {
	f.record("InvalidateGame")
	if f.InvalidateGameFunc != nil {
		return f.InvalidateGameFunc(ctx, gameID)
	}
	return nil
}

func (f *FakeService) StartFast(ctx context.Context, req leaderboardservice.StartFastRequest) (leaderboardservice.FastingSessionResult, error) {
	f.record("StartFast")
	if f.StartFastFunc != nil {
		return f.StartFastFunc(ctx, req)
	}
	return leaderboardservice.FastingSessionResult{}, nil
}

func (f *FakeService) FinishFast(ctx context.Context, gameID uuid.UUID, userID string) (leaderboardservice.FinishFastResult, error) {
	f.record("FinishFast")
	if f.FinishFastFunc != nil {
		return f.FinishFastFunc(ctx, gameID, userID)
	}
	return leaderboardservice.FinishFastResult{}, nil
}

func (f *FakeService) FastingToday(ctx context.Context, gameID uuid.UUID, userID string) (leaderboardservice.FastingTodayResult, error) {
	f.record("FastingToday")
	if f.FastingTodayFunc != nil {
		return f.FastingTodayFunc(ctx, gameID, userID)
	}
	return leaderboardservice.FastingTodayResult{}, nil
}

func (f *FakeService) InvalidateMemberGames(ctx context.Context, userID string) error {
	f.record("InvalidateMemberGames")
	if f.InvalidateMemberFunc != nil {
		return f.InvalidateMemberFunc(ctx, userID)
	}
	return nil
}

var _ leaderboardservice.Service = (*FakeService)(nil)
