package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/platform/postgres"
	"github.com/urfave/cli/v3"
)

func migrateCommand(state *cliState) *cli.Command {
	return &cli.Command{
		Name:      "migrate",
		Usage:     "Run database migrations",
		UsageText: "todo-api migrate [up|down|status|version|reset]",
		Description: `Applies the migrations embedded in the binary using goose.

Examples:
  todo-api migrate            # same as "migrate up"
  todo-api migrate status
  todo-api migrate down`,
		Action: func(ctx context.Context, c *cli.Command) error {
			command, err := parseMigrateArgs(c.Args().Slice())
			if err != nil {
				return err
			}

			db, err := setupAppDatabase(ctx, state.cfg, state.logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := db.Close(); err != nil {
					state.logger.Error("failed to close database", slog.String("error", err.Error()))
				}
			}()

			return runMigrations(ctx, db, command, state.logger)
		},
	}
}

// parseMigrateArgs returns the goose command named by args, defaulting to "up".
func parseMigrateArgs(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "up", nil
	case 1:
		command := strings.ToLower(args[0])
		if !slices.Contains(postgres.MigrationCommands, command) {
			return "", fmt.Errorf("unknown migration command %q (expected one of %s)",
				args[0], strings.Join(postgres.MigrationCommands, ", "))
		}
		return command, nil
	default:
		return "", fmt.Errorf("migrate accepts at most one argument, got %d", len(args))
	}
}

// runMigrations executes a goose command, tagging its log lines with a run ID.
func runMigrations(ctx context.Context, db *sql.DB, command string, log *slog.Logger) error {
	runLog := log.With(
		slog.String("component", "migrations"),
		slog.String("run_id", uuid.NewString()),
		slog.String("command", command))

	start := time.Now()
	runLog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, db, command, runLog); err != nil {
		runLog.Error("migrations failed", slog.String("error", err.Error()))
		return err
	}

	runLog.Info("migrations finished", slog.Duration("duration", time.Since(start)))
	return nil
}
