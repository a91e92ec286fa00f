package gameservice

import (
	"context"

	gamedb "github.com/Black-And-White-Club/weighin-league/app/modules/game/infrastructure/repositories"
	scoredomain "github.com/Black-And-White-Club/weighin-league/app/modules/score/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Game Repo
// ------------------------

type FakeGameRepo struct {
	trace []string

	GetGameFunc           func(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*gamedb.Game, error)
	CreateGameFunc        func(ctx context.Context, db bun.IDB, game *gamedb.Game) error
	UpdateSettingsFunc    func(ctx context.Context, db bun.IDB, gameID uuid.UUID, percentCap decimal.Decimal, scheme scoredomain.PointsScheme) (*gamedb.Game, error)
	UpsertMemberFunc      func(ctx context.Context, db bun.IDB, member *gamedb.Member) error
	DeactivateMemberFunc  func(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string) error
	GetMemberFunc         func(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string) (*gamedb.Member, error)
	ListActiveMembersFunc func(ctx context.Context, db bun.IDB, gameID uuid.UUID) ([]gamedb.Member, error)
	ListGamesForUserFunc  func(ctx context.Context, db bun.IDB, userID string) ([]gamedb.Game, error)
}

func NewFakeGameRepo() *FakeGameRepo {
	return &FakeGameRepo{trace: []string{}}
}

func (f *FakeGameRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeGameRepo) GetGame(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*gamedb.Game, error) {
	f.record("GetGame")
	if f.GetGameFunc != nil {
		return f.GetGameFunc(ctx, db, gameID)
	}
	return nil, gamedb.ErrNotFound
}

func (f *FakeGameRepo) CreateGame(ctx context.Context, db bun.IDB, game *gamedb.Game) error {
	f.record("CreateGame")
	if f.CreateGameFunc != nil {
		return f.CreateGameFunc(ctx, db, game)
	}
	return nil
}

func (f *FakeGameRepo) UpdateSettings(ctx context.Context, db bun.IDB, gameID uuid.UUID, percentCap decimal.Decimal, scheme scoredomain.PointsScheme) (*gamedb.Game, error) {
	f.record("UpdateSettings")
	if f.UpdateSettingsFunc != nil {
		return f.UpdateSettingsFunc(ctx, db, gameID, percentCap, scheme)
	}
	return &gamedb.Game{ID: gameID, PercentCap: percentCap, PointsScheme: scheme}, nil
}

func (f *FakeGameRepo) UpsertMember(ctx context.Context, db bun.IDB, member *gamedb.Member) error {
	f.record("UpsertMember")
	if f.UpsertMemberFunc != nil {
		return f.UpsertMemberFunc(ctx, db, member)
	}
	return nil
}

func (f *FakeGameRepo) DeactivateMember(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string) error {
	f.record("DeactivateMember")
	if f.DeactivateMemberFunc != nil {
		return f.DeactivateMemberFunc(ctx, db, gameID, userID)
	}
	return nil
}

func (f *FakeGameRepo) GetMember(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string) (*gamedb.Member, error) {
	f.record("GetMember")
	if f.GetMemberFunc != nil {
		return f.GetMemberFunc(ctx, db, gameID, userID)
	}
	return nil, gamedb.ErrNotFound
}

func (f *FakeGameRepo) ListActiveMembers(ctx context.Context, db bun.IDB, gameID uuid.UUID) ([]gamedb.Member, error) {
	f.record("ListActiveMembers")
	if f.ListActiveMembersFunc != nil {
		return f.ListActiveMembersFunc(ctx, db, gameID)
	}
	return nil, nil
}

func (f *FakeGameRepo) ListGamesForUser(ctx context.Context, db bun.IDB, userID string) ([]gamedb.Game, error) {
	f.record("ListGamesForUser")
	if f.ListGamesForUserFunc != nil {
		return f.ListGamesForUserFunc(ctx, db, userID)
	}
	return nil, nil
}

// --- Accessors for assertions ---

func (f *FakeGameRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ gamedb.Repository = (*FakeGameRepo)(nil)
