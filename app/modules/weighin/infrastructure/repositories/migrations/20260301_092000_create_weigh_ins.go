package weighinmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating weigh_ins and weigh_in_edit_log tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS weigh_ins (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					game_id UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
					round_id UUID NOT NULL REFERENCES rounds(id) ON DELETE CASCADE,
					user_id TEXT NOT NULL,
					weight_kg NUMERIC(7,3) NOT NULL CHECK (weight_kg > 0 AND weight_kg <= 500),
					morning BOOLEAN NOT NULL DEFAULT FALSE,
					after_toilet BOOLEAN NOT NULL DEFAULT FALSE,
					no_clothes BOOLEAN NOT NULL DEFAULT FALSE,
					edited_count INTEGER NOT NULL DEFAULT 0 CHECK (edited_count BETWEEN 0 AND 1),
					locked BOOLEAN NOT NULL DEFAULT FALSE,
					suspicious BOOLEAN NOT NULL DEFAULT FALSE,
					taken_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					UNIQUE (user_id, round_id)
				);
				CREATE INDEX IF NOT EXISTS idx_weigh_ins_round_id ON weigh_ins(round_id);
				CREATE INDEX IF NOT EXISTS idx_weigh_ins_game_user ON weigh_ins(game_id, user_id, taken_at);
			`); err != nil {
				return fmt.Errorf("failed to create weigh_ins table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS weigh_in_edit_log (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					weigh_in_id UUID NOT NULL REFERENCES weigh_ins(id) ON DELETE CASCADE,
					user_id TEXT NOT NULL,
					previous_weight_kg NUMERIC(7,3) NOT NULL,
					new_weight_kg NUMERIC(7,3) NOT NULL,
					edited_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE INDEX IF NOT EXISTS idx_weigh_in_edit_log_weigh_in ON weigh_in_edit_log(weigh_in_id);
			`); err != nil {
				return fmt.Errorf("failed to create weigh_in_edit_log table: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping weigh_ins and weigh_in_edit_log tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS weigh_in_edit_log;`); err != nil {
				return fmt.Errorf("failed to drop weigh_in_edit_log table: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS weigh_ins;`); err != nil {
				return fmt.Errorf("failed to drop weigh_ins table: %w", err)
			}
			return nil
		})
	})
}
