package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/todo-api/internal/config"
	"github.com/phrazzld/todo-api/internal/platform/postgres"
	"github.com/phrazzld/todo-api/internal/platform/rediscache"
	"github.com/phrazzld/todo-api/internal/service"
	"github.com/phrazzld/todo-api/internal/store"
	"github.com/redis/go-redis/v9"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	redis  *redis.Client

	taskStore   store.TaskStore
	taskService service.TaskService
}

// newApplication creates a new application instance with all dependencies initialized.
// The database connection must be established before calling it; db may be nil
// only when the task store is supplied some other way, as in tests.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var taskStore store.TaskStore = postgres.NewPostgresTaskStore(db, logger)

	if cfg.Cache.Enabled() {
		client, err := rediscache.NewClient(cfg.Cache.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis cache: %w", err)
		}
		app.redis = client
		taskStore = rediscache.NewCache(taskStore, client, cfg.Cache.TTL(), logger)
		logger.Info("recent task cache enabled", slog.Duration("ttl", cfg.Cache.TTL()))
	}

	if err := app.setTaskStore(taskStore); err != nil {
		return nil, err
	}
	return app, nil
}

// setTaskStore builds the task service on top of taskStore.
func (app *application) setTaskStore(taskStore store.TaskStore) error {
	taskService, err := service.NewTaskService(
		service.NewTaskRepositoryAdapter(taskStore, app.db),
		app.logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create task service: %w", err)
	}

	app.taskStore = taskStore
	app.taskService = taskService
	return nil
}

// cleanup releases application resources. It is safe to call more than once.
func (app *application) cleanup() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("failed to close redis client", slog.String("error", err.Error()))
		}
		app.redis = nil
	}

	if app.db != nil {
		app.logger.Info("closing database connection")
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", slog.String("error", err.Error()))
		}
		app.db = nil
	}
}
