package roundservice

import (
	"context"
	"time"

	gamedb "github.com/Black-And-White-Club/weighin-league/app/modules/game/infrastructure/repositories"
	rounddomain "github.com/Black-And-White-Club/weighin-league/app/modules/round/domain"
	rounddb "github.com/Black-And-White-Club/weighin-league/app/modules/round/infrastructure/repositories"
	weighindb "github.com/Black-And-White-Club/weighin-league/app/modules/weighin/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Round Repo
// ------------------------

type FakeRoundRepo struct {
	trace []string

	CreateRoundFunc       func(ctx context.Context, db bun.IDB, round *rounddb.Round) error
	GetRoundFunc          func(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*rounddb.Round, error)
	GetRoundForUpdateFunc func(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*rounddb.Round, error)
	GetRoundForShareFunc  func(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*rounddb.Round, error)
	UpdateStatusFunc      func(ctx context.Context, db bun.IDB, roundID uuid.UUID, status rounddomain.Status, from ...rounddomain.Status) (bool, error)
	FindPreviousRoundFunc func(ctx context.Context, db bun.IDB, gameID uuid.UUID, before time.Time) (*rounddb.Round, error)
	LatestRoundFunc       func(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*rounddb.Round, error)
	ListRoundsByGameFunc  func(ctx context.Context, db bun.IDB, gameID uuid.UUID) ([]rounddb.Round, error)
	ListOverdueFunc       func(ctx context.Context, db bun.IDB, now time.Time) ([]rounddb.Round, error)
	ListStartableFunc     func(ctx context.Context, db bun.IDB, now time.Time) ([]rounddb.Round, error)
	ListUnsettledFunc     func(ctx context.Context, db bun.IDB) ([]rounddb.Round, error)
	ReplaceResultsFunc    func(ctx context.Context, db bun.IDB, roundID uuid.UUID, results []rounddb.Result) error
	MarkSettledFunc       func(ctx context.Context, db bun.IDB, roundID uuid.UUID, at time.Time) error
	MarkFailedFunc        func(ctx context.Context, db bun.IDB, roundID uuid.UUID, reason string, at time.Time) error
	ListResultsFunc       func(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]rounddb.Result, error)
	ListResultsByGameFunc func(ctx context.Context, db bun.IDB, gameID uuid.UUID) ([]rounddb.Result, error)
}

func NewFakeRoundRepo() *FakeRoundRepo {
	return &FakeRoundRepo{trace: []string{}}
}

func (f *FakeRoundRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeRoundRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeRoundRepo) CreateRound(ctx context.Context, db bun.IDB, round *rounddb.Round) error {
	f.record("CreateRound")
	if f.CreateRoundFunc != nil {
		return f.CreateRoundFunc(ctx, db, round)
	}
	return nil
}

func (f *FakeRoundRepo) GetRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*rounddb.Round, error) {
	f.record("GetRound")
	if f.GetRoundFunc != nil {
		return f.GetRoundFunc(ctx, db, roundID)
	}
	return nil, rounddb.ErrNotFound
}

func (f *FakeRoundRepo) GetRoundForUpdate(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*rounddb.Round, error) {
	f.record("GetRoundForUpdate")
	if f.GetRoundForUpdateFunc != nil {
		return f.GetRoundForUpdateFunc(ctx, db, roundID)
	}
	return nil, rounddb.ErrNotFound
}

func (f *FakeRoundRepo) GetRoundForShare(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*rounddb.Round, error) {
	f.record("GetRoundForShare")
	if f.GetRoundForShareFunc != nil {
		return f.GetRoundForShareFunc(ctx, db, roundID)
	}
	return nil, rounddb.ErrNotFound
}

func (f *FakeRoundRepo) UpdateStatus(ctx context.Context, db bun.IDB, roundID uuid.UUID, status rounddomain.Status, from ...rounddomain.Status) (bool, error) {
	f.record("UpdateStatus")
	if f.UpdateStatusFunc != nil {
		return f.UpdateStatusFunc(ctx, db, roundID, status, from...)
	}
	return true, nil
}

func (f *FakeRoundRepo) FindPreviousRound(ctx context.Context, db bun.IDB, gameID uuid.UUID, before time.Time) (*rounddb.Round, error) {
	f.record("FindPreviousRound")
	if f.FindPreviousRoundFunc != nil {
		return f.FindPreviousRoundFunc(ctx, db, gameID, before)
	}
	return nil, rounddb.ErrNotFound
}

func (f *FakeRoundRepo) LatestRound(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*rounddb.Round, error) {
	f.record("LatestRound")
	if f.LatestRoundFunc != nil {
		return f.LatestRoundFunc(ctx, db, gameID)
	}
	return nil, rounddb.ErrNotFound
}

func (f *FakeRoundRepo) ListRoundsByGame(ctx context.Context, db bun.IDB, gameID uuid.UUID) ([]rounddb.Round, error) {
	f.record("ListRoundsByGame")
	if f.ListRoundsByGameFunc != nil {
		return f.ListRoundsByGameFunc(ctx, db, gameID)
	}
	return nil, nil
}

func (f *FakeRoundRepo) ListOverdue(ctx context.Context, db bun.IDB, now time.Time) ([]rounddb.Round, error) {
	f.record("ListOverdue")
	if f.ListOverdueFunc != nil {
		return f.ListOverdueFunc(ctx, db, now)
	}
	return nil, nil
}

func (f *FakeRoundRepo) ListStartable(ctx context.Context, db bun.IDB, now time.Time) ([]rounddb.Round, error) {
	f.record("ListStartable")
	if f.ListStartableFunc != nil {
		return f.ListStartableFunc(ctx, db, now)
	}
	return nil, nil
}

func (f *FakeRoundRepo) ListUnsettled(ctx context.Context, db bun.IDB) ([]rounddb.Round, error) {
	f.record("ListUnsettled")
	if f.ListUnsettledFunc != nil {
		return f.ListUnsettledFunc(ctx, db)
	}
	return nil, nil
}

func (f *FakeRoundRepo) ReplaceResults(ctx context.Context, db bun.IDB, roundID uuid.UUID, results []rounddb.Result) error {
	f.record("ReplaceResults")
	if f.ReplaceResultsFunc != nil {
		return f.ReplaceResultsFunc(ctx, db, roundID, results)
	}
	return nil
}

func (f *FakeRoundRepo) MarkSettled(ctx context.Context, db bun.IDB, roundID uuid.UUID, at time.Time) error {
	f.record("MarkSettled")
	if f.MarkSettledFunc != nil {
		return f.MarkSettledFunc(ctx, db, roundID, at)
	}
	return nil
}

func (f *FakeRoundRepo) MarkSettlementFailed(ctx context.Context, db bun.IDB, roundID uuid.UUID, reason string, at time.Time) error {
	f.record("MarkSettlementFailed")
	if f.MarkFailedFunc != nil {
		return f.MarkFailedFunc(ctx, db, roundID, reason, at)
	}
	return nil
}

func (f *FakeRoundRepo) ListResults(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]rounddb.Result, error) {
	f.record("ListResults")
	if f.ListResultsFunc != nil {
		return f.ListResultsFunc(ctx, db, roundID)
	}
	return nil, nil
}

func (f *FakeRoundRepo) ListResultsByGame(ctx context.Context, db bun.IDB, gameID uuid.UUID) ([]rounddb.Result, error) {
	f.record("ListResultsByGame")
	if f.ListResultsByGameFunc != nil {
		return f.ListResultsByGameFunc(ctx, db, gameID)
	}
	return nil, nil
}

var _ rounddb.Repository = (*FakeRoundRepo)(nil)

// ------------------------
// Fake collaborators
// ------------------------

type FakeGameReader struct {
	GetGameFunc           func(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*gamedb.Game, error)
	GetMemberFunc         func(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string) (*gamedb.Member, error)
	ListActiveMembersFunc func(ctx context.Context, db bun.IDB, gameID uuid.UUID) ([]gamedb.Member, error)
}

func (f *FakeGameReader) GetGame(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*gamedb.Game, error) {
	if f.GetGameFunc != nil {
		return f.GetGameFunc(ctx, db, gameID)
	}
	return nil, gamedb.ErrNotFound
}

func (f *FakeGameReader) GetMember(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string) (*gamedb.Member, error) {
	if f.GetMemberFunc != nil {
		return f.GetMemberFunc(ctx, db, gameID, userID)
	}
	return &gamedb.Member{GameID: gameID, UserID: userID, IsActive: true}, nil
}

func (f *FakeGameReader) ListActiveMembers(ctx context.Context, db bun.IDB, gameID uuid.UUID) ([]gamedb.Member, error) {
	if f.ListActiveMembersFunc != nil {
		return f.ListActiveMembersFunc(ctx, db, gameID)
	}
	return nil, nil
}

type FakeWeighInStore struct {
	trace []string

	ListByRoundFunc func(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]weighindb.WeighIn, error)
	LockRoundFunc   func(ctx context.Context, db bun.IDB, roundID uuid.UUID) (int, error)
}

func (f *FakeWeighInStore) ListByRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]weighindb.WeighIn, error) {
	f.trace = append(f.trace, "ListByRound")
	if f.ListByRoundFunc != nil {
		return f.ListByRoundFunc(ctx, db, roundID)
	}
	return nil, nil
}

func (f *FakeWeighInStore) LockRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) (int, error) {
	f.trace = append(f.trace, "LockRound")
	if f.LockRoundFunc != nil {
		return f.LockRoundFunc(ctx, db, roundID)
	}
	return 0, nil
}

type FakeScheduler struct {
	Err       error
	Scheduled []uuid.UUID
}

func (f *FakeScheduler) ScheduleRound(ctx context.Context, roundID uuid.UUID, startAt, endAt time.Time) error {
	f.Scheduled = append(f.Scheduled, roundID)
	return f.Err
}

type FakeExporter struct {
	ext  string
	Rows []ResultRow
}

func (f *FakeExporter) Export(round RoundView, rows []ResultRow) ([]byte, error) {
	f.Rows = rows
	return []byte(round.Title), nil
}

func (f *FakeExporter) ContentType() string { return "text/plain" }

func (f *FakeExporter) Extension() string { return f.ext }

var (
	_ GameReader   = (*FakeGameReader)(nil)
	_ WeighInStore = (*FakeWeighInStore)(nil)
	_ Scheduler    = (*FakeScheduler)(nil)
	_ Exporter     = (*FakeExporter)(nil)
)
