package leaderboardmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating fasting_day_stats table...")

		_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS fasting_day_stats (
				game_id UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
				user_id TEXT NOT NULL,
				day DATE NOT NULL,
				fasting_minutes INTEGER NOT NULL DEFAULT 0 CHECK (fasting_minutes >= 0),
				target_minutes INTEGER NOT NULL DEFAULT 0 CHECK (target_minutes >= 0),
				streak INTEGER NOT NULL DEFAULT 0 CHECK (streak >= 0),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				PRIMARY KEY (game_id, user_id, day)
			);
			CREATE INDEX IF NOT EXISTS idx_fasting_day_stats_game_day ON fasting_day_stats(game_id, day);
		`)
		if err != nil {
			return fmt.Errorf("failed to create fasting_day_stats table: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping fasting_day_stats table...")

		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS fasting_day_stats;`); err != nil {
			return fmt.Errorf("failed to drop fasting_day_stats table: %w", err)
		}
		return nil
	})
}
