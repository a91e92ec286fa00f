package weighinservice

import (
	"context"
	"time"

	gamedb "github.com/Black-And-White-Club/weighin-league/app/modules/game/infrastructure/repositories"
	rounddb "github.com/Black-And-White-Club/weighin-league/app/modules/round/infrastructure/repositories"
	weighindb "github.com/Black-And-White-Club/weighin-league/app/modules/weighin/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake WeighIn Repo
// ------------------------

type FakeWeighInRepo struct {
	trace []string

	InsertWeighInFunc    func(ctx context.Context, db bun.IDB, w *weighindb.WeighIn) (bool, error)
	GetWeighInFunc       func(ctx context.Context, db bun.IDB, userID string, roundID uuid.UUID) (*weighindb.WeighIn, error)
	ApplyEditFunc        func(ctx context.Context, db bun.IDB, edit weighindb.Edit) (*weighindb.WeighIn, error)
	InsertEditLogFunc    func(ctx context.Context, db bun.IDB, entry *weighindb.EditLog) error
	ListByRoundFunc      func(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]weighindb.WeighIn, error)
	LockRoundFunc        func(ctx context.Context, db bun.IDB, roundID uuid.UUID) (int, error)
	ListByGameUserFunc   func(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string) ([]weighindb.WeighIn, error)
	FirstSubmissionsFunc func(ctx context.Context, db bun.IDB, gameID uuid.UUID) (map[string]time.Time, error)
}

func NewFakeWeighInRepo() *FakeWeighInRepo {
	return &FakeWeighInRepo{trace: []string{}}
}

func (f *FakeWeighInRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeWeighInRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeWeighInRepo) InsertWeighIn(ctx context.Context, db bun.IDB, w *weighindb.WeighIn) (bool, error) {
	f.record("InsertWeighIn")
	if f.InsertWeighInFunc != nil {
		return f.InsertWeighInFunc(ctx, db, w)
	}
	return true, nil
}

func (f *FakeWeighInRepo) GetWeighIn(ctx context.Context, db bun.IDB, userID string, roundID uuid.UUID) (*weighindb.WeighIn, error) {
	f.record("GetWeighIn")
	if f.GetWeighInFunc != nil {
		return f.GetWeighInFunc(ctx, db, userID, roundID)
	}
	return nil, weighindb.ErrNotFound
}

func (f *FakeWeighInRepo) ApplyEdit(ctx context.Context, db bun.IDB, edit weighindb.Edit) (*weighindb.WeighIn, error) {
	f.record("ApplyEdit")
	if f.ApplyEditFunc != nil {
		return f.ApplyEditFunc(ctx, db, edit)
	}
	return nil, weighindb.ErrNoRowsAffected
}

func (f *FakeWeighInRepo) InsertEditLog(ctx context.Context, db bun.IDB, entry *weighindb.EditLog) error {
	f.record("InsertEditLog")
	if f.InsertEditLogFunc != nil {
		return f.InsertEditLogFunc(ctx, db, entry)
	}
	return nil
}

func (f *FakeWeighInRepo) ListByRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]weighindb.WeighIn, error) {
	f.record("ListByRound")
	if f.ListByRoundFunc != nil {
		return f.ListByRoundFunc(ctx, db, roundID)
	}
	return nil, nil
}

func (f *FakeWeighInRepo) LockRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) (int, error) {
	f.record("LockRound")
	if f.LockRoundFunc != nil {
		return f.LockRoundFunc(ctx, db, roundID)
	}
	return 0, nil
}

func (f *FakeWeighInRepo) ListByGameUser(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string) ([]weighindb.WeighIn, error) {
	f.record("ListByGameUser")
	if f.ListByGameUserFunc != nil {
		return f.ListByGameUserFunc(ctx, db, gameID, userID)
	}
	return nil, nil
}

func (f *FakeWeighInRepo) FirstSubmissions(ctx context.Context, db bun.IDB, gameID uuid.UUID) (map[string]time.Time, error) {
	f.record("FirstSubmissions")
	if f.FirstSubmissionsFunc != nil {
		return f.FirstSubmissionsFunc(ctx, db, gameID)
	}
	return map[string]time.Time{}, nil
}

var _ weighindb.Repository = (*FakeWeighInRepo)(nil)

// ------------------------
// Fake readers
// ------------------------

type FakeMemberReader struct {
	GetMemberFunc func(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string) (*gamedb.Member, error)
}

func (f *FakeMemberReader) GetMember(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string) (*gamedb.Member, error) {
	if f.GetMemberFunc != nil {
		return f.GetMemberFunc(ctx, db, gameID, userID)
	}
	return &gamedb.Member{GameID: gameID, UserID: userID, IsActive: true}, nil
}

type FakeRoundReader struct {
	GetRoundForShareFunc func(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*rounddb.Round, error)
}

func (f *FakeRoundReader) GetRoundForShare(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*rounddb.Round, error) {
	if f.GetRoundForShareFunc != nil {
		return f.GetRoundForShareFunc(ctx, db, roundID)
	}
	return nil, rounddb.ErrNotFound
}

var (
	_ MemberReader = (*FakeMemberReader)(nil)
	_ RoundReader  = (*FakeRoundReader)(nil)
)
