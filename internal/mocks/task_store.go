package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing.
// Unset function fields fall through to an in-memory store.
type MockTaskStore struct {
	CreateFn               func(ctx context.Context, task *domain.Task) error
	GetByIDFn              func(ctx context.Context, id int64) (*domain.Task, error)
	UpdateFn               func(ctx context.Context, task *domain.Task) error
	DeleteFn               func(ctx context.Context, id int64) error
	ListRecentIncompleteFn func(ctx context.Context, limit int) ([]*domain.Task, error)
	CountIncompleteFn      func(ctx context.Context) (int64, error)
	ListAllFn              func(ctx context.Context) ([]*domain.Task, error)
	WithTxFn               func(tx *sql.Tx) store.TaskStore

	mu     sync.Mutex
	tasks  map[int64]*domain.Task
	nextID int64

	// Calls counts invocations per method name.
	Calls map[string]int
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates an empty in-memory MockTaskStore.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		tasks:  make(map[int64]*domain.Task),
		nextID: 1,
		Calls:  make(map[string]int),
	}
}

func (m *MockTaskStore) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Calls == nil {
		m.Calls = make(map[string]int)
	}
	m.Calls[method]++
}

func (m *MockTaskStore) ensure() {
	if m.tasks == nil {
		m.tasks = make(map[int64]*domain.Task)
	}
	if m.nextID == 0 {
		m.nextID = 1
	}
}

// Create implements store.TaskStore.Create
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	m.record("Create")
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	if err := task.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensure()

	task.ID = m.nextID
	m.nextID++
	m.tasks[task.ID] = copyTask(task)
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (m *MockTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	m.record("GetByID")
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return copyTask(task), nil
}

// Update implements store.TaskStore.Update
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	m.record("Update")
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}
	if err := task.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.tasks[task.ID]
	if !ok {
		return store.ErrTaskNotFound
	}
	stored.Completed = task.Completed
	stored.UpdatedAt = task.UpdatedAt
	return nil
}

// Delete implements store.TaskStore.Delete
func (m *MockTaskStore) Delete(ctx context.Context, id int64) error {
	m.record("Delete")
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

// ListRecentIncomplete implements store.TaskStore.ListRecentIncomplete.
// The default orders by CreatedAt descending, then ID descending.
func (m *MockTaskStore) ListRecentIncomplete(ctx context.Context, limit int) ([]*domain.Task, error) {
	m.record("ListRecentIncomplete")
	if m.ListRecentIncompleteFn != nil {
		return m.ListRecentIncompleteFn(ctx, limit)
	}

	limit = domain.ClampRecentLimit(limit)

	m.mu.Lock()
	defer m.mu.Unlock()

	result := []*domain.Task{}
	for _, task := range m.tasks {
		if !task.Completed {
			result = append(result, copyTask(task))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// CountIncomplete implements store.TaskStore.CountIncomplete
func (m *MockTaskStore) CountIncomplete(ctx context.Context) (int64, error) {
	m.record("CountIncomplete")
	if m.CountIncompleteFn != nil {
		return m.CountIncompleteFn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for _, task := range m.tasks {
		if !task.Completed {
			count++
		}
	}
	return count, nil
}

// ListAll implements store.TaskStore.ListAll
func (m *MockTaskStore) ListAll(ctx context.Context) ([]*domain.Task, error) {
	m.record("ListAll")
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*domain.Task, 0, len(m.tasks))
	for _, task := range m.tasks {
		result = append(result, copyTask(task))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// WithTx implements store.TaskStore.WithTx. The default returns the mock itself.
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	if m.WithTxFn != nil {
		return m.WithTxFn(tx)
	}
	return m
}

// CallCount returns how many times method has been called.
func (m *MockTaskStore) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[method]
}

func copyTask(task *domain.Task) *domain.Task {
	clone := *task
	if task.Description != nil {
		description := *task.Description
		clone.Description = &description
	}
	return &clone
}
