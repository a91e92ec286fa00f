package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Black-And-White-Club/weighin-league/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"

	caloriemigrations "github.com/Black-And-White-Club/weighin-league/app/modules/calorie/infrastructure/repositories/migrations"
	gamemigrations "github.com/Black-And-White-Club/weighin-league/app/modules/game/infrastructure/repositories/migrations"
	leaderboardmigrations "github.com/Black-And-White-Club/weighin-league/app/modules/leaderboard/infrastructure/repositories/migrations"
	roundmigrations "github.com/Black-And-White-Club/weighin-league/app/modules/round/infrastructure/repositories/migrations"
	weighinmigrations "github.com/Black-And-White-Club/weighin-league/app/modules/weighin/infrastructure/repositories/migrations"
)

type moduleMigrator struct {
	name     string
	migrator *migrate.Migrator
}

// newMigrators lists the modules in dependency order. Each module keeps its own
// bookkeeping tables so rollbacks stay within the module.
func newMigrators(db *bun.DB) []moduleMigrator {
	sets := []struct {
		name string
		ms   *migrate.Migrations
	}{
		{"game", gamemigrations.Migrations},
		{"round", roundmigrations.Migrations},
		{"weighin", weighinmigrations.Migrations},
		{"leaderboard", leaderboardmigrations.Migrations},
		{"calorie", caloriemigrations.Migrations},
	}

	out := make([]moduleMigrator, 0, len(sets))
	for _, s := range sets {
		out = append(out, moduleMigrator{
			name: s.name,
			migrator: migrate.NewMigrator(db, s.ms,
				migrate.WithTableName(s.name+"_bun_migrations"),
				migrate.WithLocksTableName(s.name+"_bun_migration_locks"),
			),
		})
	}
	return out
}

func main() {
	cliApp := &cli.App{
		Name:  "bun",
		Usage: "weighin-league database tooling",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "path to the configuration file"},
		},
		Commands: []*cli.Command{
			newMultiModuleDBCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openDB(c *cli.Context) (*config.Config, *bun.DB, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	return cfg, bun.NewDB(pgdb, pgdialect.New()), nil
}

// withMigrators opens the database for the duration of fn.
func withMigrators(fn func(c *cli.Context, cfg *config.Config, migrators []moduleMigrator) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, db, err := openDB(c)
		if err != nil {
			return err
		}
		defer db.Close()
		return fn(c, cfg, newMigrators(db))
	}
}

func findMigrator(migrators []moduleMigrator, name string) (*migrate.Migrator, error) {
	for _, m := range migrators {
		if m.name == name {
			return m.migrator, nil
		}
	}
	return nil, fmt.Errorf("invalid module name: %s", name)
}

// migrateQueue installs or upgrades the job queue schema.
func migrateQueue(ctx context.Context, dsn string) error {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("failed to open queue pool: %w", err)
	}
	defer pool.Close()

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("failed to create queue migrator: %w", err)
	}
	res, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{})
	if err != nil {
		return fmt.Errorf("failed to migrate queue schema: %w", err)
	}
	fmt.Printf("Queue schema migrated (%d versions applied)\n", len(res.Versions))
	return nil
}

func newMultiModuleDBCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: withMigrators(func(c *cli.Context, _ *config.Config, migrators []moduleMigrator) error {
					for _, m := range migrators {
						fmt.Printf("Initializing migrations for module: %s\n", m.name)
						if err := m.migrator.Init(c.Context); err != nil {
							return fmt.Errorf("init %s: %w", m.name, err)
						}
					}
					return nil
				}),
			},
			{
				Name:  "migrate",
				Usage: "migrate database",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "skip-queue", Usage: "do not migrate the job queue schema"},
				},
				Action: withMigrators(func(c *cli.Context, cfg *config.Config, migrators []moduleMigrator) error {
					for _, m := range migrators {
						fmt.Printf("Running migrations for module: %s\n", m.name)
						if err := m.migrator.Lock(c.Context); err != nil {
							return err
						}
						group, err := m.migrator.Migrate(c.Context)
						unlockErr := m.migrator.Unlock(c.Context)
						if err != nil {
							return fmt.Errorf("migrate %s: %w", m.name, err)
						}
						if unlockErr != nil {
							return unlockErr
						}
						if group.IsZero() {
							fmt.Printf("No new migrations to run for module: %s\n", m.name)
						} else {
							fmt.Printf("Migrated module: %s to %s\n", m.name, group)
						}
					}
					if c.Bool("skip-queue") {
						return nil
					}
					return migrateQueue(c.Context, cfg.Postgres.DSN)
				}),
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group of every module, newest module first",
				Action: withMigrators(func(c *cli.Context, _ *config.Config, migrators []moduleMigrator) error {
					for i := len(migrators) - 1; i >= 0; i-- {
						m := migrators[i]
						fmt.Printf("Rolling back migrations for module: %s\n", m.name)
						group, err := m.migrator.Rollback(c.Context)
						if err != nil {
							return fmt.Errorf("rollback %s: %w", m.name, err)
						}
						if group.IsZero() {
							fmt.Printf("No groups to roll back for module: %s\n", m.name)
						} else {
							fmt.Printf("Rolled back module: %s to %s\n", m.name, group)
						}
					}
					return nil
				}),
			},
			{
				Name:      "create_go",
				Usage:     "create Go migration",
				ArgsUsage: "<module> <name...>",
				Action: withMigrators(func(c *cli.Context, _ *config.Config, migrators []moduleMigrator) error {
					migrator, err := findMigrator(migrators, c.Args().First())
					if err != nil {
						return err
					}
					name := strings.Join(c.Args().Tail(), "_")
					mf, err := migrator.CreateGoMigration(c.Context, name)
					if err != nil {
						return err
					}
					fmt.Printf("Created migration for module %s: %s (%s)\n", c.Args().First(), mf.Name, mf.Path)
					return nil
				}),
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: withMigrators(func(c *cli.Context, _ *config.Config, migrators []moduleMigrator) error {
					for _, m := range migrators {
						ms, err := m.migrator.MigrationsWithStatus(c.Context)
						if err != nil {
							return err
						}
						fmt.Printf("Migrations for module: %s\n", m.name)
						fmt.Printf("  %s\n", ms)
						fmt.Printf("  Applied: %s\n", ms.Applied())
						fmt.Printf("  Unapplied: %s\n", ms.Unapplied())
					}
					return nil
				}),
			},
		},
	}
}
