package caloriedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when the user logged nothing for the day.
var ErrNotFound = errors.New("calorie day not found")

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

func (r *Impl) UpsertDay(ctx context.Context, db bun.IDB, day *Day) error {
	db = r.resolveDB(db)
	day.Day = DayOf(day.Day)
	day.UpdatedAt = time.Now().UTC()
	_, err := db.NewInsert().
		Model(day).
		On("CONFLICT (user_id, day) DO UPDATE").
		Set("goal_kcal = EXCLUDED.goal_kcal").
		Set("total_kcal = EXCLUDED.total_kcal").
		Set("is_tracked = EXCLUDED.is_tracked").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert calorie day: %w", err)
	}
	return nil
}

func (r *Impl) AddToDay(ctx context.Context, db bun.IDB, userID string, day time.Time, kcal, defaultGoal int) (*Day, error) {
	db = r.resolveDB(db)
	row := &Day{
		UserID:    userID,
		Day:       DayOf(day),
		GoalKcal:  defaultGoal,
		TotalKcal: kcal,
		IsTracked: true,
		UpdatedAt: time.Now().UTC(),
	}
	err := db.NewInsert().
		Model(row).
		On("CONFLICT (user_id, day) DO UPDATE").
		Set("total_kcal = cd.total_kcal + EXCLUDED.total_kcal").
		Set("is_tracked = TRUE").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("*").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to add to calorie day: %w", err)
	}
	return row, nil
}

func (r *Impl) GetDay(ctx context.Context, db bun.IDB, userID string, day time.Time) (*Day, error) {
	db = r.resolveDB(db)
	row := new(Day)
	err := db.NewSelect().
		Model(row).
		Where("user_id = ?", userID).
		Where("day = ?", DayOf(day)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get calorie day: %w", err)
	}
	return row, nil
}

func (r *Impl) InsertEntry(ctx context.Context, db bun.IDB, entry *Entry) error {
	db = r.resolveDB(db)
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.Day = DayOf(entry.Day)
	if _, err := db.NewInsert().Model(entry).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert calorie entry: %w", err)
	}
	return nil
}

func (r *Impl) ListEntries(ctx context.Context, db bun.IDB, userID string, day time.Time) ([]Entry, error) {
	db = r.resolveDB(db)
	var entries []Entry
	err := db.NewSelect().
		Model(&entries).
		Where("user_id = ?", userID).
		Where("day = ?", DayOf(day)).
		Order("created_at DESC", "id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list calorie entries: %w", err)
	}
	return entries, nil
}

func (r *Impl) UpsertSettings(ctx context.Context, db bun.IDB, settings *Settings) error {
	db = r.resolveDB(db)
	settings.UpdatedAt = time.Now().UTC()
	_, err := db.NewInsert().
		Model(settings).
		On("CONFLICT (user_id) DO UPDATE").
		Set("privacy_mode = EXCLUDED.privacy_mode").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert calorie settings: %w", err)
	}
	return nil
}

func (r *Impl) PublicTracking(ctx context.Context, db bun.IDB, userIDs []string, day time.Time) (map[string]bool, error) {
	out := make(map[string]bool, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	db = r.resolveDB(db)

	var rows []struct {
		UserID    string `bun:"user_id"`
		IsTracked bool   `bun:"is_tracked"`
	}
	err := db.NewSelect().
		TableExpr("calorie_settings AS cs").
		ColumnExpr("cs.user_id").
		ColumnExpr("COALESCE(cd.is_tracked, FALSE) AS is_tracked").
		Join("LEFT JOIN calorie_days AS cd ON cd.user_id = cs.user_id AND cd.day = ?", DayOf(day)).
		Where("cs.user_id IN (?)", bun.In(userIDs)).
		Where("cs.privacy_mode = ?", PrivacyPublicCheckmark).
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to read public calorie tracking: %w", err)
	}
	for _, row := range rows {
		out[row.UserID] = row.IsTracked
	}
	return out, nil
}
