package testutils

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/store"
	"github.com/stretchr/testify/require"
)

// TaskOption customizes a task built by CreateTestTask.
type TaskOption func(*domain.Task)

// WithDescription sets the task description.
func WithDescription(description string) TaskOption {
	return func(task *domain.Task) {
		task.Description = &description
	}
}

// WithCreatedAt sets both timestamps of the task to ts.
func WithCreatedAt(ts time.Time) TaskOption {
	return func(task *domain.Task) {
		task.CreatedAt = ts.UTC()
		task.UpdatedAt = ts.UTC()
	}
}

// Completed marks the task completed.
func Completed() TaskOption {
	return func(task *domain.Task) {
		task.Completed = true
	}
}

// CreateTestTask builds a valid, unsaved task with a unique title.
func CreateTestTask(t *testing.T, opts ...TaskOption) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(fmt.Sprintf("Test task %s", uuid.NewString()[:8]), nil)
	require.NoError(t, err, "Failed to create test task")

	for _, opt := range opts {
		opt(task)
	}
	return task
}

// MustInsertTask saves a test task through taskStore and returns it with its ID set.
func MustInsertTask(ctx context.Context, t *testing.T, taskStore store.TaskStore, opts ...TaskOption) *domain.Task {
	t.Helper()

	task := CreateTestTask(t, opts...)
	require.NoError(t, taskStore.Create(ctx, task), "Failed to insert test task")
	require.NotZero(t, task.ID, "Inserted task should have an ID")
	return task
}
