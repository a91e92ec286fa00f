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

// ------------------------
// Fake Member Reader
// ------------------------

type FakeMemberReader struct {
	GetMemberFunc         func(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string) (*gamedb.Member, error)
	ListActiveMembersFunc func(ctx context.Context, db bun.IDB, gameID uuid.UUID) ([]gamedb.Member, error)
	ListGamesForUserFunc  func(ctx context.Context, db bun.IDB, userID string) ([]gamedb.Game, error)
}

func (f *FakeMemberReader) GetMember(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string) (*gamedb.Member, error) {
	if f.GetMemberFunc != nil {
		return f.GetMemberFunc(ctx, db, gameID, userID)
	}
	return &gamedb.Member{GameID: gameID, UserID: userID, IsActive: true}, nil
}

func (f *FakeMemberReader) ListActiveMembers(ctx context.Context, db bun.IDB, gameID uuid.UUID) ([]gamedb.Member, error) {
	if f.ListActiveMembersFunc != nil {
		return f.ListActiveMembersFunc(ctx, db, gameID)
	}
	return nil, nil
}

func (f *FakeMemberReader) ListGamesForUser(ctx context.Context, db bun.IDB, userID string) ([]gamedb.Game, error) {
	if f.ListGamesForUserFunc != nil {
		return f.ListGamesForUserFunc(ctx, db, userID)
	}
	return nil, nil
}

var _ MemberReader = (*FakeMemberReader)(nil)

// ------------------------
// Fake Result Reader
// ------------------------

type FakeResultReader struct {
	trace []string

	ListResultsByGameFunc func(ctx context.Context, db bun.IDB, gameID uuid.UUID) ([]rounddb.Result, error)
	LatestRoundFunc       func(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*rounddb.Round, error)
}

func (f *FakeResultReader) Trace() []string { return append([]string(nil), f.trace...) }

func (f *FakeResultReader) ListResultsByGame(ctx context.Context, db bun.IDB, gameID uuid.UUID) ([]rounddb.Result, error) {
	f.trace = append(f.trace, "ListResultsByGame")
	if f.ListResultsByGameFunc != nil {
		return f.ListResultsByGameFunc(ctx, db, gameID)
	}
	return nil, nil
}

func (f *FakeResultReader) LatestRound(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*rounddb.Round, error) {
	f.trace = append(f.trace, "LatestRound")
	if f.LatestRoundFunc != nil {
		return f.LatestRoundFunc(ctx, db, gameID)
	}
	return nil, rounddb.ErrNotFound
}

var _ ResultReader = (*FakeResultReader)(nil)

// ------------------------
// Fake WeighIn Reader
// ------------------------

type FakeWeighInReader struct {
	FirstSubmissionsFunc func(ctx context.Context, db bun.IDB, gameID uuid.UUID) (map[string]time.Time, error)
	ListByGameUserFunc   func(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string) ([]weighindb.WeighIn, error)
}

func (f *FakeWeighInReader) FirstSubmissions(ctx context.Context, db bun.IDB, gameID uuid.UUID) (map[string]time.Time, error) {
	if f.FirstSubmissionsFunc != nil {
		return f.FirstSubmissionsFunc(ctx, db, gameID)
	}
	return map[string]time.Time{}, nil
}

func (f *FakeWeighInReader) ListByGameUser(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string) ([]weighindb.WeighIn, error) {
	if f.ListByGameUserFunc != nil {
		return f.ListByGameUserFunc(ctx, db, gameID, userID)
	}
	return nil, nil
}

var _ WeighInReader = (*FakeWeighInReader)(nil)

// ------------------------
// Fake Streak Source
// ------------------------

type FakeStreakSource struct {
	ListDayStatsFunc  func(ctx context.Context, db bun.IDB, gameID uuid.UUID, day time.Time) ([]leaderboarddb.FastingDayStat, error)
	GetDayStatFunc    func(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string, day time.Time) (*leaderboarddb.FastingDayStat, error)
	UpsertDayStatFunc func(ctx context.Context, db bun.IDB, stat *leaderboarddb.FastingDayStat) error
	StartSessionFunc  func(ctx context.Context, db bun.IDB, session *leaderboarddb.FastingSession) (bool, error)

	Upserted []leaderboarddb.FastingDayStat
	// Sessions backs the session methods in memory.
	Sessions []leaderboarddb.FastingSession
}

func (f *FakeStreakSource) ListDayStats(ctx context.Context, db bun.IDB, gameID uuid.UUID, day time.Time) ([]leaderboarddb.FastingDayStat, error) {
	if f.ListDayStatsFunc != nil {
		return f.ListDayStatsFunc(ctx, db, gameID, day)
	}
	return nil, nil
}

func (f *FakeStreakSource) GetDayStat(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string, day time.Time) (*leaderboarddb.FastingDayStat, error) {
	if f.GetDayStatFunc != nil {
		return f.GetDayStatFunc(ctx, db, gameID, userID, day)
	}
	return nil, leaderboarddb.ErrNotFound
}

func (f *FakeStreakSource) UpsertDayStat(ctx context.Context, db bun.IDB, stat *leaderboarddb.FastingDayStat) error {
	if f.UpsertDayStatFunc != nil {
		return f.UpsertDayStatFunc(ctx, db, stat)
	}
	f.Upserted = append(f.Upserted, *stat)
	return nil
}

func (f *FakeStreakSource) StartSession(ctx context.Context, db bun.IDB, session *leaderboarddb.FastingSession) (bool, error) {
	if f.StartSessionFunc != nil {
		return f.StartSessionFunc(ctx, db, session)
	}
	if _, err := f.ActiveSession(ctx, db, session.GameID, session.UserID, false); err == nil {
		return false, nil
	}
	f.Sessions = append(f.Sessions, *session)
	return true, nil
}

func (f *FakeStreakSource) ActiveSession(_ context.Context, _ bun.IDB, gameID uuid.UUID, userID string, _ bool) (*leaderboarddb.FastingSession, error) {
	for i := range f.Sessions {
		s := f.Sessions[i]
		if s.GameID == gameID && s.UserID == userID && s.EndedAt == nil {
			return &s, nil
		}
	}
	return nil, leaderboarddb.ErrSessionNotFound
}

func (f *FakeStreakSource) LastFinishedSession(_ context.Context, _ bun.IDB, gameID uuid.UUID, userID string) (*leaderboarddb.FastingSession, error) {
	var last *leaderboarddb.FastingSession
	for i := range f.Sessions {
		s := f.Sessions[i]
		if s.GameID != gameID || s.UserID != userID || s.EndedAt == nil {
			continue
		}
		if last == nil || s.EndedAt.After(*last.EndedAt) {
			last = &s
		}
	}
	if last == nil {
		return nil, leaderboarddb.ErrSessionNotFound
	}
	return last, nil
}

func (f *FakeStreakSource) FinishSession(_ context.Context, _ bun.IDB, sessionID uuid.UUID, endedAt time.Time, durationMinutes, streakDay int) error {
	for i := range f.Sessions {
		if f.Sessions[i].ID == sessionID && f.Sessions[i].EndedAt == nil {
			f.Sessions[i].EndedAt = &endedAt
			f.Sessions[i].DurationMinutes = durationMinutes
			f.Sessions[i].StreakDay = streakDay
			return nil
		}
	}
	return leaderboarddb.ErrSessionNotFound
}

var _ StreakSource = (*FakeStreakSource)(nil)

// ------------------------
// Fake Calorie Reader
// ------------------------

type FakeCalorieReader struct {
	Tracked map[string]bool
	Err     error
	Asked   []string
}

func (f *FakeCalorieReader) PublicTracking(_ context.Context, _ bun.IDB, userIDs []string, _ time.Time) (map[string]bool, error) {
	f.Asked = append([]string(nil), userIDs...)
	if f.Err != nil {
		return nil, f.Err
	}
	out := map[string]bool{}
	for _, id := range userIDs {
		if t, ok := f.Tracked[id]; ok {
			out[id] = t
		}
	}
	return out, nil
}

var _ CalorieReader = (*FakeCalorieReader)(nil)

// ------------------------
// Fake Cache
// ------------------------

type FakeCache struct {
	Data        map[uuid.UUID][]byte
	Generations map[uuid.UUID]int64
	GetErr      error
	GenErr      error
	SetErr      error
	Invalidated []uuid.UUID

	// OnGeneration runs after a generation is read, standing in for writes that
	// land while a leaderboard is being built.
	OnGeneration func(gameID uuid.UUID)
}

func (f *FakeCache) Get(_ context.Context, gameID uuid.UUID) ([]byte, bool, error) {
	if f.GetErr != nil {
		return nil, false, f.GetErr
	}
	data, ok := f.Data[gameID]
	return data, ok, nil
}

func (f *FakeCache) Generation(_ context.Context, gameID uuid.UUID) (int64, error) {
	if f.GenErr != nil {
		return 0, f.GenErr
	}
	gen := f.Generations[gameID]
	if f.OnGeneration != nil {
		f.OnGeneration(gameID)
	}
	return gen, nil
}

func (f *FakeCache) Set(_ context.Context, gameID uuid.UUID, gen int64, data []byte) (bool, error) {
	if f.SetErr != nil {
		return false, f.SetErr
	}
	if f.Generations[gameID] != gen {
		return false, nil
	}
	if f.Data == nil {
		f.Data = map[uuid.UUID][]byte{}
	}
	f.Data[gameID] = data
	return true, nil
}

func (f *FakeCache) Invalidate(_ context.Context, gameID uuid.UUID) error {
	f.Invalidated = append(f.Invalidated, gameID)
	if f.Generations == nil {
		f.Generations = map[uuid.UUID]int64{}
	}
	f.Generations[gameID]++
	delete(f.Data, gameID)
	return nil
}

var _ Cache = (*FakeCache)(nil)
