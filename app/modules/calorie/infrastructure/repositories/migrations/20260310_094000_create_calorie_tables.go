package caloriemigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating calorie_days, calorie_entries and calorie_settings tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS calorie_days (
					user_id TEXT NOT NULL,
					day DATE NOT NULL,
					goal_kcal INTEGER NOT NULL CHECK (goal_kcal > 0),
					total_kcal INTEGER NOT NULL DEFAULT 0 CHECK (total_kcal >= 0),
					is_tracked BOOLEAN NOT NULL DEFAULT FALSE,
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					PRIMARY KEY (user_id, day)
				);
			`); err != nil {
				return fmt.Errorf("failed to create calorie_days table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS calorie_entries (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					user_id TEXT NOT NULL,
					day DATE NOT NULL,
					name VARCHAR(200) NOT NULL,
					kcal INTEGER NOT NULL CHECK (kcal > 0),
					protein NUMERIC(7,2) CHECK (protein >= 0),
					fat NUMERIC(7,2) CHECK (fat >= 0),
					carbs NUMERIC(7,2) CHECK (carbs >= 0),
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE INDEX IF NOT EXISTS idx_calorie_entries_user_day ON calorie_entries(user_id, day);
			`); err != nil {
				return fmt.Errorf("failed to create calorie_entries table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS calorie_settings (
					user_id TEXT PRIMARY KEY,
					privacy_mode VARCHAR(20) NOT NULL DEFAULT 'PRIVATE'
						CHECK (privacy_mode IN ('PRIVATE', 'PUBLIC_CHECKMARK')),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create calorie_settings table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping calorie tables...")

		if _, err := db.ExecContext(ctx, `
			DROP TABLE IF EXISTS calorie_settings;
			DROP TABLE IF EXISTS calorie_entries;
			DROP TABLE IF EXISTS calorie_days;
		`); err != nil {
			return fmt.Errorf("failed to drop calorie tables: %w", err)
		}
		return nil
	})
}
