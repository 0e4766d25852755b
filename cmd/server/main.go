// Package main implements the entry point for the todo API server,
// which stores tasks in PostgreSQL and serves them over a JSON HTTP API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/phrazzld/todo-api/internal/config"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/urfave/cli/v3"
)

// cliState carries what the root command prepares for its subcommands.
type cliState struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
}

func main() {
	if err := newRootCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// newRootCommand builds the CLI: global flags, configuration loading, and
// the serve and migrate subcommands.
func newRootCommand() *cli.Command {
	state := &cliState{}

	return &cli.Command{
		Name:      "todo-api",
		Usage:     "Task tracking API server",
		UsageText: "todo-api [global options] command [command options]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file (defaults to ./config.yaml when present)",
				Sources:     cli.EnvVars("TODO_CONFIG"),
				Destination: &state.configPath,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			cfg, err := config.LoadFile(state.configPath)
			if err != nil {
				return ctx, fmt.Errorf("failed to load configuration: %w", err)
			}

			log, err := logger.Setup(cfg.Server)
			if err != nil {
				return ctx, fmt.Errorf("failed to set up logger: %w", err)
			}

			log.Info("configuration loaded",
				slog.Int("port", cfg.Server.Port),
				slog.String("log_level", cfg.Server.LogLevel),
				slog.Bool("cache_enabled", cfg.Cache.Enabled()),
				slog.Bool("auto_migrate", cfg.Database.AutoMigrate))

			state.cfg = cfg
			state.logger = log
			return ctx, nil
		},
		Commands: []*cli.Command{
			serveCommand(state),
			migrateCommand(state),
		},
	}
}

func serveCommand(state *cliState) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API server",
		Description: `Connects to PostgreSQL, optionally applies pending migrations
(database.auto_migrate), and serves the task API until SIGINT or SIGTERM.`,
		Action: func(ctx context.Context, c *cli.Command) error {
			return runServe(ctx, state.cfg, state.logger)
		},
	}
}

// runServe wires the application and blocks until the server shuts down.
func runServe(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	db, err := setupAppDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}

	if cfg.Database.AutoMigrate {
		if err := runMigrations(ctx, db, "up", log); err != nil {
			_ = db.Close()
			return err
		}
	}

	app, err := newApplication(cfg, log, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.startHTTPServer(ctx, app.setupRouter())
}
