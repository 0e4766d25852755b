package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/store"
)

// TaskRepository defines the repository interface for the service layer
type TaskRepository interface {
	// Create saves a new task and assigns its ID
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its ID
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// Update persists the mutable fields of an existing task
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task permanently
	Delete(ctx context.Context, id int64) error

	// ListRecentIncomplete returns the newest incomplete tasks
	ListRecentIncomplete(ctx context.Context, limit int) ([]*domain.Task, error)

	// CountIncomplete returns the number of incomplete tasks
	CountIncomplete(ctx context.Context) (int64, error)

	// ListAll returns every task ordered by ID
	ListAll(ctx context.Context) ([]*domain.Task, error)

	// WithTx returns a new repository instance that uses the provided transaction
	WithTx(tx *sql.Tx) TaskRepository

	// DB returns the underlying database connection, or nil when there is none
	DB() *sql.DB
}

// TaskService provides task management operations
type TaskService interface {
	// CreateTask validates and persists a new incomplete task
	CreateTask(ctx context.Context, title string, description *string) (*domain.Task, error)

	// GetTask retrieves a task by its ID
	GetTask(ctx context.Context, id int64) (*domain.Task, error)

	// ListRecentIncomplete returns at most limit incomplete tasks, newest first.
	// The limit is clamped to domain.MaxRecentTasks.
	ListRecentIncomplete(ctx context.Context, limit int) ([]*domain.Task, error)

	// CompleteTask marks a task as completed and returns the updated task.
	// Completing an already completed task succeeds and refreshes UpdatedAt.
	CompleteTask(ctx context.Context, id int64) (*domain.Task, error)

	// DeleteTask permanently removes a task
	DeleteTask(ctx context.Context, id int64) error

	// CountIncomplete returns the number of incomplete tasks
	CountIncomplete(ctx context.Context) (int64, error)

	// ListAll returns every task ordered by ID
	ListAll(ctx context.Context) ([]*domain.Task, error)
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	taskRepo TaskRepository
	logger   *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if the repository is nil.
func NewTaskService(taskRepo TaskRepository, logger *slog.Logger) (TaskService, error) {
	if taskRepo == nil {
		return nil, NewTaskServiceError("new_task_service", "taskRepo cannot be nil", ErrNilDependency)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		taskRepo: taskRepo,
		logger:   logger.With(slog.String("component", "task_service")),
	}, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	title string,
	description *string,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(title, description)
	if err != nil {
		log.Debug("rejected invalid task", slog.String("error", err.Error()))
		return nil, NewTaskServiceError("create_task", "invalid task", err)
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		log.Error("failed to save task", slog.String("error", err.Error()))
		return nil, NewTaskServiceError("create_task", "failed to save task", err)
	}

	log.Info("task created", slog.Int64("task_id", task.ID))
	return task, nil
}

// GetTask implements TaskService.GetTask
func (s *taskServiceImpl) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("task not found", slog.Int64("task_id", id))
			return nil, NewTaskServiceError("get_task", "task not found", store.ErrTaskNotFound)
		}
		log.Error("failed to retrieve task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, NewTaskServiceError("get_task", "failed to retrieve task", err)
	}

	return task, nil
}

// ListRecentIncomplete implements TaskService.ListRecentIncomplete
func (s *taskServiceImpl) ListRecentIncomplete(ctx context.Context, limit int) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	limit = domain.ClampRecentLimit(limit)

	tasks, err := s.taskRepo.ListRecentIncomplete(ctx, limit)
	if err != nil {
		log.Error("failed to list recent incomplete tasks", slog.String("error", err.Error()))
		return nil, NewTaskServiceError("list_recent_incomplete", "failed to list tasks", err)
	}

	if tasks == nil {
		tasks = []*domain.Task{}
	}
	if len(tasks) > limit {
		tasks = tasks[:limit]
	}

	log.Debug("listed recent incomplete tasks", slog.Int("count", len(tasks)))
	return tasks, nil
}

// CompleteTask implements TaskService.CompleteTask.
// The read and the write run in one transaction when the repository has a database.
func (s *taskServiceImpl) CompleteTask(ctx context.Context, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var completed *domain.Task
	err := s.runInTransaction(ctx, func(ctx context.Context, repo TaskRepository) error {
		task, err := repo.GetByID(ctx, id)
		if err != nil {
			if store.IsNotFoundError(err) {
				return NewTaskServiceError("complete_task", "task not found", store.ErrTaskNotFound)
			}
			return NewTaskServiceError("complete_task", "failed to retrieve task", err)
		}

		task.MarkCompleted()

		if err := repo.Update(ctx, task); err != nil {
			if store.IsNotFoundError(err) {
				return NewTaskServiceError("complete_task", "task not found", store.ErrTaskNotFound)
			}
			return NewTaskServiceError("complete_task", "failed to save task", err)
		}

		completed = task
		return nil
	})
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("task to complete not found", slog.Int64("task_id", id))
		} else {
			log.Error("failed to complete task",
				slog.String("error", err.Error()),
				slog.Int64("task_id", id))
		}
		return nil, err
	}

	log.Info("task marked as completed", slog.Int64("task_id", id))
	return completed, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.taskRepo.Delete(ctx, id); err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("task to delete not found", slog.Int64("task_id", id))
			return NewTaskServiceError("delete_task", "task not found", store.ErrTaskNotFound)
		}
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return NewTaskServiceError("delete_task", "failed to delete task", err)
	}

	log.Info("task deleted", slog.Int64("task_id", id))
	return nil
}

// CountIncomplete implements TaskService.CountIncomplete
func (s *taskServiceImpl) CountIncomplete(ctx context.Context) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	count, err := s.taskRepo.CountIncomplete(ctx)
	if err != nil {
		log.Error("failed to count incomplete tasks", slog.String("error", err.Error()))
		return 0, NewTaskServiceError("count_incomplete", "failed to count tasks", err)
	}
	return count, nil
}

// ListAll implements TaskService.ListAll
func (s *taskServiceImpl) ListAll(ctx context.Context) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tasks, err := s.taskRepo.ListAll(ctx)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, NewTaskServiceError("list_all", "failed to list tasks", err)
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return tasks, nil
}

// runInTransaction runs fn against a transactional repository, or against the
// plain repository when no database is available.
func (s *taskServiceImpl) runInTransaction(
	ctx context.Context,
	fn func(ctx context.Context, repo TaskRepository) error,
) error {
	db := s.taskRepo.DB()
	if db == nil {
		return fn(ctx, s.taskRepo)
	}

	return store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, s.taskRepo.WithTx(tx))
	})
}
