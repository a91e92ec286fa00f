package roundmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Adding settlement failure columns to rounds...")

		if _, err := db.ExecContext(ctx, `
			ALTER TABLE rounds ADD COLUMN IF NOT EXISTS settlement_failed_at TIMESTAMPTZ;
			ALTER TABLE rounds ADD COLUMN IF NOT EXISTS settlement_error TEXT;
		`); err != nil {
			return fmt.Errorf("failed to add settlement failure columns: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping settlement failure columns from rounds...")

		if _, err := db.ExecContext(ctx, `
			ALTER TABLE rounds DROP COLUMN IF EXISTS settlement_error;
			ALTER TABLE rounds DROP COLUMN IF EXISTS settlement_failed_at;
		`); err != nil {
			return fmt.Errorf("failed to drop settlement failure columns: %w", err)
		}
		return nil
	})
}
