package weighindb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	// ErrNotFound is returned when a weigh-in is not found.
	ErrNotFound = errors.New("weigh-in not found")
	// ErrNoRowsAffected is returned when a conditional update matched nothing.
	ErrNoRowsAffected = errors.New("no rows affected")
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new weigh-in repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) InsertWeighIn(ctx context.Context, db bun.IDB, w *WeighIn) (bool, error) {
	db = r.resolveDB(db)
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	result, err := db.NewInsert().
		Model(w).
		On("CONFLICT (user_id, round_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to insert weigh-in: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows == 1, nil
}

func (r *Impl) GetWeighIn(ctx context.Context, db bun.IDB, userID string, roundID uuid.UUID) (*WeighIn, error) {
	db = r.resolveDB(db)
	w := new(WeighIn)
	err := db.NewSelect().
		Model(w).
		Where("user_id = ?", userID).
		Where("round_id = ?", roundID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get weigh-in: %w", err)
	}
	return w, nil
}

func (r *Impl) ApplyEdit(ctx context.Context, db bun.IDB, edit Edit) (*WeighIn, error) {
	db = r.resolveDB(db)
	w := new(WeighIn)
	err := db.NewUpdate().
		Model(w).
		Set("weight_kg = ?", edit.WeightKg).
		Set("morning = ?", edit.Morning).
		Set("after_toilet = ?", edit.AfterToilet).
		Set("no_clothes = ?", edit.NoClothes).
		Set("suspicious = ?", edit.Suspicious).
		Set("edited_count = edited_count + 1").
		Set("updated_at = ?", edit.EditedAt).
		Where("id = ?", edit.ID).
		Where("edited_count = 0").
		Where("NOT locked").
		Returning("*").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoRowsAffected
		}
		return nil, fmt.Errorf("failed to edit weigh-in: %w", err)
	}
	return w, nil
}

func (r *Impl) InsertEditLog(ctx context.Context, db bun.IDB, entry *EditLog) error {
	db = r.resolveDB(db)
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if _, err := db.NewInsert().Model(entry).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert edit log: %w", err)
	}
	return nil
}

func (r *Impl) ListByRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) ([]WeighIn, error) {
	db = r.resolveDB(db)
	var weighIns []WeighIn
	err := db.NewSelect().
		Model(&weighIns).
		Where("round_id = ?", roundID).
		Order("user_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list weigh-ins: %w", err)
	}
	return weighIns, nil
}

func (r *Impl) LockRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) (int, error) {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*WeighIn)(nil)).
		Set("locked = true").
		Where("round_id = ?", roundID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to lock weigh-ins: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(rows), nil
}

func (r *Impl) ListByGameUser(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string) ([]WeighIn, error) {
	db = r.resolveDB(db)
	var weighIns []WeighIn
	err := db.NewSelect().
		Model(&weighIns).
		Where("game_id = ?", gameID).
		Where("user_id = ?", userID).
		Order("taken_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list member weigh-ins: %w", err)
	}
	return weighIns, nil
}

func (r *Impl) FirstSubmissions(ctx context.Context, db bun.IDB, gameID uuid.UUID) (map[string]time.Time, error) {
	db = r.resolveDB(db)
	var rows []struct {
		UserID string    `bun:"user_id"`
		First  time.Time `bun:"first_taken_at"`
	}
	err := db.NewSelect().
		Model((*WeighIn)(nil)).
		Column("user_id").
		ColumnExpr("MIN(taken_at) AS first_taken_at").
		Where("game_id = ?", gameID).
		Group("user_id").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to load first submissions: %w", err)
	}

	first := make(map[string]time.Time, len(rows))
	for _, row := range rows {
		first[row.UserID] = row.First
	}
	return first, nil
}
