package rediscache

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/mocks"
	"github.com/phrazzld/todo-api/internal/service"
	"github.com/phrazzld/todo-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// committedView returns a transactional store whose updates only reach base
// once the surrounding transaction commits. onUpdate runs right after each
// uncommitted update, while base still holds the old row.
func committedView(base *mocks.MockTaskStore, onUpdate func()) *mocks.MockTaskStore {
	return &mocks.MockTaskStore{
		GetByIDFn: base.GetByID,
		UpdateFn: func(ctx context.Context, task *domain.Task) error {
			pending := *task
			store.OnCommit(ctx, func(ctx context.Context) {
				_ = base.Update(context.Background(), &pending)
			})
			if onUpdate != nil {
				onUpdate()
			}
			return nil
		},
	}
}

func TestCache_CompleteTaskWithReadBeforeCommit(t *testing.T) {
	ctx := context.Background()
	base := mocks.NewMockTaskStore()
	task := seedTask(t, base, "complete me")
	cache, mr := newTestCache(t, base)

	// A reader running between the update and the commit sees the old row
	// and caches it.
	base.WithTxFn = func(tx *sql.Tx) store.TaskStore {
		return committedView(base, func() {
			tasks, err := cache.ListRecentIncomplete(context.Background(), 5)
			require.NoError(t, err)
			require.Len(t, tasks, 1)
			require.True(t, mr.Exists(cache.recentKey(5)))
		})
	}

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	mock.ExpectBegin()
	mock.ExpectCommit()

	svc, err := service.NewTaskService(service.NewTaskRepositoryAdapter(cache, db), nil)
	require.NoError(t, err)

	completed, err := svc.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, completed.Completed)
	assert.NoError(t, mock.ExpectationsWereMet())

	recent, err := cache.ListRecentIncomplete(ctx, 5)
	require.NoError(t, err)
	for _, r := range recent {
		assert.NotEqual(t, task.ID, r.ID, "completed task must not be listed")
	}
	assert.Empty(t, recent)
}

func TestCache_RolledBackMutationKeepsEntries(t *testing.T) {
	ctx := context.Background()
	base := mocks.NewMockTaskStore()
	task := seedTask(t, base, "stays incomplete")
	cache, mr := newTestCache(t, base)
	base.WithTxFn = func(tx *sql.Tx) store.TaskStore { return committedView(base, nil) }

	_, err := cache.ListRecentIncomplete(ctx, 5)
	require.NoError(t, err)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	mock.ExpectBegin()
	mock.ExpectRollback()

	err = store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		task.MarkCompleted()
		require.NoError(t, cache.WithTx(tx).Update(ctx, task))
		assert.True(t, mr.Exists(cache.recentKey(5)), "eviction waits for commit")
		return errors.New("abort")
	})
	require.Error(t, err)

	assert.True(t, mr.Exists(cache.recentKey(5)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCache_ReadOverlappingEvictionIsNotCached(t *testing.T) {
	ctx := context.Background()
	base := mocks.NewMockTaskStore()
	seedTask(t, base, "old row")
	cache, mr := newTestCache(t, base)

	base.ListRecentIncompleteFn = func(ctx context.Context, limit int) ([]*domain.Task, error) {
		// A writer commits and evicts while this read is in flight.
		cache.evict(ctx)
		return []*domain.Task{{ID: 1, Title: "old row"}}, nil
	}

	tasks, err := cache.ListRecentIncomplete(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, tasks, 1, "the caller still gets its result")
	assert.False(t, mr.Exists(cache.recentKey(5)), "a read that overlapped an eviction must not be cached")

	base.ListRecentIncompleteFn = nil
	_, err = cache.ListRecentIncomplete(ctx, 5)
	require.NoError(t, err)
	assert.True(t, mr.Exists(cache.recentKey(5)), "later reads cache normally")
}
