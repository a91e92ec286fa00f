package roundmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating rounds and round_results tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS rounds (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					game_id UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
					title VARCHAR(100) NOT NULL,
					start_at TIMESTAMPTZ NOT NULL,
					end_at TIMESTAMPTZ NOT NULL,
					status VARCHAR(16) NOT NULL DEFAULT 'UPCOMING'
						CHECK (status IN ('UPCOMING', 'ACTIVE', 'CLOSED')),
					settled_at TIMESTAMPTZ,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CHECK (end_at > start_at)
				);
				CREATE INDEX IF NOT EXISTS idx_rounds_game_end_at ON rounds(game_id, end_at DESC);
				CREATE INDEX IF NOT EXISTS idx_rounds_open_end_at ON rounds(end_at) WHERE status <> 'CLOSED';
			`); err != nil {
				return fmt.Errorf("failed to create rounds table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS round_results (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					round_id UUID NOT NULL REFERENCES rounds(id) ON DELETE CASCADE,
					game_id UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
					user_id TEXT NOT NULL,
					start_weight_kg NUMERIC(7,3) NOT NULL,
					end_weight_kg NUMERIC(7,3) NOT NULL,
					percent_real NUMERIC(9,3) NOT NULL,
					percent_capped NUMERIC(9,3) NOT NULL,
					points_awarded INTEGER NOT NULL CHECK (points_awarded >= 0),
					rank INTEGER NOT NULL CHECK (rank >= 1),
					suspicious BOOLEAN NOT NULL DEFAULT FALSE,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					UNIQUE (round_id, user_id),
					UNIQUE (round_id, rank)
				);
				CREATE INDEX IF NOT EXISTS idx_round_results_game_user ON round_results(game_id, user_id);
			`); err != nil {
				return fmt.Errorf("failed to create round_results table: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping rounds and round_results tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS round_results;`); err != nil {
				return fmt.Errorf("failed to drop round_results table: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS rounds;`); err != nil {
				return fmt.Errorf("failed to drop rounds table: %w", err)
			}
			return nil
		})
	})
}
