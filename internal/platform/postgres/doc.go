// Package postgres provides the PostgreSQL implementation of the store.TaskStore
// interface, together with the embedded goose migrations that define the tasks
// table. It handles query execution and the mapping between domain.Task and
// database rows; PostgreSQL error codes are translated into store errors.
package postgres
