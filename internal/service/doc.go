// Package service contains the application use cases for task management.
//
// TaskService orchestrates domain.Task construction and state transitions
// over a TaskRepository (a store.TaskStore plus its database handle). It
// applies transactional boundaries where an operation reads and then writes,
// and translates store errors into TaskServiceError values that keep the
// underlying sentinel reachable through errors.Is.
//
// The service layer depends on domain entities and the store interfaces, never
// on a specific infrastructure implementation.
package service
