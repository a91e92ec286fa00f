package gamemigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating games and game_members tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS games (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					name VARCHAR(100) NOT NULL,
					percent_cap NUMERIC(6,3) NOT NULL DEFAULT 2.5
						CHECK (percent_cap > 0 AND percent_cap <= 5),
					points_scheme JSONB NOT NULL,
					created_by TEXT NOT NULL,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create games table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS game_members (
					game_id UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
					user_id TEXT NOT NULL,
					is_active BOOLEAN NOT NULL DEFAULT TRUE,
					joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					PRIMARY KEY (game_id, user_id)
				);
				CREATE INDEX IF NOT EXISTS idx_game_members_user_id ON game_members(user_id);
			`); err != nil {
				return fmt.Errorf("failed to create game_members table: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping games and game_members tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS game_members;`); err != nil {
				return fmt.Errorf("failed to drop game_members table: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS games;`); err != nil {
				return fmt.Errorf("failed to drop games table: %w", err)
			}
			return nil
		})
	})
}
