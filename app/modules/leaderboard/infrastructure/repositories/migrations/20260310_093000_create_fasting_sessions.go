package leaderboardmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating fasting_sessions table...")

		_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS fasting_sessions (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				game_id UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
				user_id TEXT NOT NULL,
				started_at TIMESTAMPTZ NOT NULL,
				target_minutes INTEGER NOT NULL CHECK (target_minutes BETWEEN 240 AND 2160),
				ended_at TIMESTAMPTZ,
				duration_minutes INTEGER NOT NULL DEFAULT 0 CHECK (duration_minutes >= 0),
				streak_day INTEGER NOT NULL DEFAULT 0 CHECK (streak_day >= 0),
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				CHECK (ended_at IS NULL OR ended_at >= started_at)
			);
			CREATE UNIQUE INDEX IF NOT EXISTS idx_fasting_sessions_open
				ON fasting_sessions(game_id, user_id) WHERE ended_at IS NULL;
			CREATE INDEX IF NOT EXISTS idx_fasting_sessions_ended
				ON fasting_sessions(game_id, user_id, ended_at DESC);
		`)
		if err != nil {
			return fmt.Errorf("failed to create fasting_sessions table: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping fasting_sessions table...")

		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS fasting_sessions;`); err != nil {
			return fmt.Errorf("failed to drop fasting_sessions table: %w", err)
		}
		return nil
	})
}
