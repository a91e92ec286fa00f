package gamedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	scoredomain "github.com/Black-And-White-Club/weighin-league/app/modules/score/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a game or membership is not found.
var ErrNotFound = errors.New("game not found")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new game repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) GetGame(ctx context.Context, db bun.IDB, gameID uuid.UUID) (*Game, error) {
	db = r.resolveDB(db)
	game := new(Game)
	err := db.NewSelect().
		Model(game).
		Where("id = ?", gameID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return game, nil
}

func (r *Impl) CreateGame(ctx context.Context, db bun.IDB, game *Game) error {
	db = r.resolveDB(db)
	if game.ID == uuid.Nil {
		game.ID = uuid.New()
	}
	if _, err := db.NewInsert().Model(game).Returning("*").Exec(ctx); err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	return nil
}

func (r *Impl) UpdateSettings(ctx context.Context, db bun.IDB, gameID uuid.UUID, percentCap decimal.Decimal, scheme scoredomain.PointsScheme) (*Game, error) {
	db = r.resolveDB(db)
	game := &Game{PercentCap: percentCap, PointsScheme: scheme, UpdatedAt: time.Now().UTC()}
	err := db.NewUpdate().
		Model(game).
		Column("percent_cap", "points_scheme", "updated_at").
		Where("id = ?", gameID).
		Returning("*").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update game settings: %w", err)
	}
	return game, nil
}

func (r *Impl) UpsertMember(ctx context.Context, db bun.IDB, member *Member) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(member).
		On("CONFLICT (game_id, user_id) DO UPDATE").
		Set("is_active = EXCLUDED.is_active").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert member: %w", err)
	}
	return nil
}

func (r *Impl) DeactivateMember(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*Member)(nil)).
		Set("is_active = false").
		Where("game_id = ?", gameID).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to deactivate member: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Impl) GetMember(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string) (*Member, error) {
	db = r.resolveDB(db)
	member := new(Member)
	err := db.NewSelect().
		Model(member).
		Where("game_id = ?", gameID).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return member, nil
}

func (r *Impl) ListActiveMembers(ctx context.Context, db bun.IDB, gameID uuid.UUID) ([]Member, error) {
	db = r.resolveDB(db)
	var members []Member
	err := db.NewSelect().
		Model(&members).
		Where("game_id = ?", gameID).
		Where("is_active").
		Order("user_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active members: %w", err)
	}
	return members, nil
}

func (r *Impl) ListGamesForUser(ctx context.Context, db bun.IDB, userID string) ([]Game, error) {
	db = r.resolveDB(db)
	var games []Game
	err := db.NewSelect().
		Model(&games).
		Join("JOIN game_members AS gm ON gm.game_id = g.id").
		Where("gm.user_id = ?", userID).
		Where("gm.is_active").
		Order("g.created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games for user: %w", err)
	}
	return games, nil
}
