// Package mocks provides centralized mock implementations for testing.
//
// Mocks expose a function field per interface method. When a field is nil
// the mock falls back to a default behaviour: MockTaskStore keeps tasks in
// memory, MockTaskService returns its default values.
//
//	taskStore := mocks.NewMockTaskStore()
//	taskStore.GetByIDFn = func(ctx context.Context, id int64) (*domain.Task, error) {
//	    return nil, store.ErrTaskNotFound
//	}
//
// TestifyMockTaskStore is available for tests that prefer call expectations.
package mocks
