package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/todo-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task and assigns its ID.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// Update saves the completion flag and UpdatedAt of an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete permanently removes a task.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id int64) error

	// ListRecentIncomplete returns at most limit incomplete tasks, newest first.
	// Ties on CreatedAt are broken by descending ID.
	// Returns an empty slice if no tasks match.
	ListRecentIncomplete(ctx context.Context, limit int) ([]*domain.Task, error)

	// CountIncomplete returns the number of tasks not yet completed.
	CountIncomplete(ctx context.Context) (int64, error)

	// ListAll returns every task ordered by ID.
	ListAll(ctx context.Context) ([]*domain.Task, error)

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) TaskStore
}
