package leaderboarddb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when no stat exists for the member and day.
var ErrNotFound = errors.New("fasting day stat not found")

type Impl struct {
	db bun.IDB
}

func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db != nil {
		return db
	}
	return r.db
}

// DayOf truncates t to its UTC calendar day.
func DayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (r *Impl) ListDayStats(ctx context.Context, db bun.IDB, gameID uuid.UUID, day time.Time) ([]FastingDayStat, error) {
	db = r.resolveDB(db)
	var stats []FastingDayStat
	err := db.NewSelect().
		Model(&stats).
		Where("game_id = ?", gameID).
		Where("day = ?", DayOf(day)).
		Order("user_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list fasting day stats: %w", err)
	}
	return stats, nil
}

func (r *Impl) GetDayStat(ctx context.Context, db bun.IDB, gameID uuid.UUID, userID string, day time.Time) (*FastingDayStat, error) {
	db = r.resolveDB(db)
	stat := new(FastingDayStat)
	err := db.NewSelect().
		Model(stat).
		Where("game_id = ?", gameID).
		Where("user_id = ?", userID).
		Where("day = ?", DayOf(day)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get fasting day stat: %w", err)
	}
	return stat, nil
}

func (r *Impl) UpsertDayStat(ctx context.Context, db bun.IDB, stat *FastingDayStat) error {
	db = r.resolveDB(db)
	stat.Day = DayOf(stat.Day)
	stat.UpdatedAt = time.Now().UTC()
	_, err := db.NewInsert().
		Model(stat).
		On("CONFLICT (game_id, user_id, day) DO UPDATE").
		Set("fasting_minutes = EXCLUDED.fasting_minutes").
		Set("target_minutes = EXCLUDED.target_minutes").
		Set("streak = EXCLUDED.streak").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert fasting day stat: %w", err)
	}
	return nil
}
