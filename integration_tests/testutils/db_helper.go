package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	caloriemigrations "github.com/Black-And-White-Club/weighin-league/app/modules/calorie/infrastructure/repositories/migrations"
	gamemigrations "github.com/Black-And-White-Club/weighin-league/app/modules/game/infrastructure/repositories/migrations"
	leaderboardmigrations "github.com/Black-And-White-Club/weighin-league/app/modules/leaderboard/infrastructure/repositories/migrations"
	roundmigrations "github.com/Black-And-White-Club/weighin-league/app/modules/round/infrastructure/repositories/migrations"
	weighinmigrations "github.com/Black-And-White-Club/weighin-league/app/modules/weighin/infrastructure/repositories/migrations"
)

var appTables = []string{
	"calorie_entries",
	"calorie_days",
	"calorie_settings",
	"fasting_sessions",
	"fasting_day_stats",
	"weigh_in_edit_log",
	"weigh_ins",
	"round_results",
	"rounds",
	"game_members",
	"games",
}

// OpenDB connects to dsn and applies every module migration in dependency order.
func OpenDB(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	orderedModules := []struct {
		name       string
		migrations *migrate.Migrations
	}{
		{"game", gamemigrations.Migrations},
		{"round", roundmigrations.Migrations},
		{"weighin", weighinmigrations.Migrations},
		{"leaderboard", leaderboardmigrations.Migrations},
		{"calorie", caloriemigrations.Migrations},
	}

	for _, mod := range orderedModules {
		migrator := migrate.NewMigrator(db, mod.migrations,
			migrate.WithTableName(mod.name+"_bun_migrations"),
			migrate.WithLocksTableName(mod.name+"_bun_migration_locks"),
		)
		if err := migrator.Init(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize %s migrations: %w", mod.name, err)
		}
		group, err := migrator.Migrate(ctx)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run %s migrations: %w", mod.name, err)
		}
		if !group.IsZero() {
			log.Printf("Ran %s migrations group #%d", mod.name, group.ID)
		}
	}
	return db, nil
}

// CleanupDatabase truncates all application tables.
func CleanupDatabase(ctx context.Context, db *bun.DB) error {
	query := fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(appTables, ", "))
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	return nil
}
