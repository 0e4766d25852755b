package mocks_test

import (
	"context"
	"testing"
	"time"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/mocks"
	"github.com/phrazzld/todo-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockTaskStore_InMemoryDefaults(t *testing.T) {
	ctx := context.Background()
	taskStore := mocks.NewMockTaskStore()

	base := time.Now().UTC()
	var ids []int64
	for i := 0; i < 3; i++ {
		task, err := domain.NewTask("task", nil)
		require.NoError(t, err)
		task.CreatedAt = base.Add(time.Duration(i) * time.Second)
		task.UpdatedAt = task.CreatedAt
		require.NoError(t, taskStore.Create(ctx, task))
		ids = append(ids, task.ID)
	}
	assert.Equal(t, []int64{1, 2, 3}, ids)

	recent, err := taskStore.ListRecentIncomplete(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, int64(3), recent[0].ID)
	assert.Equal(t, int64(2), recent[1].ID)

	// Returned tasks are copies.
	recent[0].Title = "changed"
	stored, err := taskStore.GetByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "task", stored.Title)

	stored.MarkCompleted()
	require.NoError(t, taskStore.Update(ctx, stored))

	count, err := taskStore.CountIncomplete(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, taskStore.Delete(ctx, 1))
	_, err = taskStore.GetByID(ctx, 1)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	assert.ErrorIs(t, taskStore.Delete(ctx, 1), store.ErrTaskNotFound)

	all, err := taskStore.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(2), all[0].ID)

	// IDs are not reused after deletion.
	task, err := domain.NewTask("another", nil)
	require.NoError(t, err)
	require.NoError(t, taskStore.Create(ctx, task))
	assert.Equal(t, int64(4), task.ID)

	assert.Equal(t, 4, taskStore.CallCount("Create"))
	assert.Equal(t, 2, taskStore.CallCount("Delete"))
}

func TestMockTaskStore_FunctionOverride(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	taskStore.CountIncompleteFn = func(ctx context.Context) (int64, error) {
		return 42, nil
	}

	count, err := taskStore.CountIncomplete(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
	assert.Same(t, taskStore, taskStore.WithTx(nil))
}
