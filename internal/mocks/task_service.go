package mocks

import (
	"context"

	"github.com/phrazzld/todo-api/internal/domain"
)

// MockTaskService implements service.TaskService for testing
type MockTaskService struct {
	CreateTaskFn           func(ctx context.Context, title string, description *string) (*domain.Task, error)
	GetTaskFn              func(ctx context.Context, id int64) (*domain.Task, error)
	ListRecentIncompleteFn func(ctx context.Context, limit int) ([]*domain.Task, error)
	CompleteTaskFn         func(ctx context.Context, id int64) (*domain.Task, error)
	DeleteTaskFn           func(ctx context.Context, id int64) error
	CountIncompleteFn      func(ctx context.Context) (int64, error)
	ListAllFn              func(ctx context.Context) ([]*domain.Task, error)

	// Default return values
	Task         *domain.Task
	Tasks        []*domain.Task
	Count        int64
	DefaultError error
}

// CreateTask implements the TaskService.CreateTask method
func (m *MockTaskService) CreateTask(ctx context.Context, title string, description *string) (*domain.Task, error) {
	if m.CreateTaskFn != nil {
		return m.CreateTaskFn(ctx, title, description)
	}
	return m.Task, m.DefaultError
}

// GetTask implements the TaskService.GetTask method
func (m *MockTaskService) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	if m.GetTaskFn != nil {
		return m.GetTaskFn(ctx, id)
	}
	return m.Task, m.DefaultError
}

// ListRecentIncomplete implements the TaskService.ListRecentIncomplete method
func (m *MockTaskService) ListRecentIncomplete(ctx context.Context, limit int) ([]*domain.Task, error) {
	if m.ListRecentIncompleteFn != nil {
		return m.ListRecentIncompleteFn(ctx, limit)
	}
	return m.Tasks, m.DefaultError
}

// CompleteTask implements the TaskService.CompleteTask method
func (m *MockTaskService) CompleteTask(ctx context.Context, id int64) (*domain.Task, error) {
	if m.CompleteTaskFn != nil {
		return m.CompleteTaskFn(ctx, id)
	}
	return m.Task, m.DefaultError
}

// DeleteTask implements the TaskService.DeleteTask method
func (m *MockTaskService) DeleteTask(ctx context.Context, id int64) error {
	if m.DeleteTaskFn != nil {
		return m.DeleteTaskFn(ctx, id)
	}
	return m.DefaultError
}

// CountIncomplete implements the TaskService.CountIncomplete method
func (m *MockTaskService) CountIncomplete(ctx context.Context) (int64, error) {
	if m.CountIncompleteFn != nil {
		return m.CountIncompleteFn(ctx)
	}
	return m.Count, m.DefaultError
}

// ListAll implements the TaskService.ListAll method
func (m *MockTaskService) ListAll(ctx context.Context) ([]*domain.Task, error) {
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx)
	}
	return m.Tasks, m.DefaultError
}
