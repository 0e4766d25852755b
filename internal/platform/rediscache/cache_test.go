package rediscache

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/mocks"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, base *mocks.MockTaskStore) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "start miniredis")
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewCache(base, client, time.Minute, nil), mr
}

func seedTask(t *testing.T, s *mocks.MockTaskStore, title string) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(title, nil)
	require.NoError(t, err)
	require.NoError(t, s.Create(context.Background(), task))
	return task
}

func TestCache_ListRecentIncompleteMissThenHit(t *testing.T) {
	ctx := context.Background()
	base := mocks.NewMockTaskStore()
	seedTask(t, base, "Write code")

	cache, mr := newTestCache(t, base)

	tasks, err := cache.ListRecentIncomplete(ctx, 5)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, 1, base.CallCount("ListRecentIncomplete"))

	ttl := mr.TTL(cache.recentKey(5))
	assert.True(t, ttl > 0 && ttl <= time.Minute, "unexpected TTL: %v", ttl)

	cached, err := cache.ListRecentIncomplete(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, base.CallCount("ListRecentIncomplete"), "second call should be served from redis")
	require.Len(t, cached, 1)
	assert.Equal(t, tasks[0].ID, cached[0].ID)
	assert.Equal(t, tasks[0].Title, cached[0].Title)
	assert.True(t, tasks[0].CreatedAt.Equal(cached[0].CreatedAt))
}

func TestCache_LimitIsClampedBeforeKeying(t *testing.T) {
	ctx := context.Background()
	base := mocks.NewMockTaskStore()
	cache, mr := newTestCache(t, base)

	_, err := cache.ListRecentIncomplete(ctx, 0)
	require.NoError(t, err)
	_, err = cache.ListRecentIncomplete(ctx, 50)
	require.NoError(t, err)

	assert.Equal(t, 1, base.CallCount("ListRecentIncomplete"))
	assert.True(t, mr.Exists(cache.recentKey(domain.MaxRecentTasks)))
}

func TestCache_EmptyListIsCachedAsEmptySlice(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestCache(t, mocks.NewMockTaskStore())

	_, err := cache.ListRecentIncomplete(ctx, 5)
	require.NoError(t, err)

	tasks, err := cache.ListRecentIncomplete(ctx, 5)
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestCache_MutationsEvict(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(t *testing.T, c *Cache, existing *domain.Task)
	}{
		{
			name: "create",
			mutate: func(t *testing.T, c *Cache, _ *domain.Task) {
				task, err := domain.NewTask("new", nil)
				require.NoError(t, err)
				require.NoError(t, c.Create(ctx, task))
			},
		},
		{
			name: "update",
			mutate: func(t *testing.T, c *Cache, existing *domain.Task) {
				existing.MarkCompleted()
				require.NoError(t, c.Update(ctx, existing))
			},
		},
		{
			name: "delete",
			mutate: func(t *testing.T, c *Cache, existing *domain.Task) {
				require.NoError(t, c.Delete(ctx, existing.ID))
			},
		},
		{
			name: "update inside transaction",
			mutate: func(t *testing.T, c *Cache, existing *domain.Task) {
				existing.MarkCompleted()
				require.NoError(t, c.WithTx(nil).Update(ctx, existing))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := mocks.NewMockTaskStore()
			existing := seedTask(t, base, "existing")
			cache, mr := newTestCache(t, base)

			for limit := 1; limit <= domain.MaxRecentTasks; limit++ {
				_, err := cache.ListRecentIncomplete(ctx, limit)
				require.NoError(t, err)
				require.True(t, mr.Exists(cache.recentKey(limit)))
			}

			tt.mutate(t, cache, existing)

			for limit := 1; limit <= domain.MaxRecentTasks; limit++ {
				assert.False(t, mr.Exists(cache.recentKey(limit)), "limit %d should be evicted", limit)
			}
		})
	}
}

func TestCache_CompletedTaskLeavesCachedList(t *testing.T) {
	ctx := context.Background()
	base := mocks.NewMockTaskStore()
	task := seedTask(t, base, "finish me")
	cache, _ := newTestCache(t, base)

	tasks, err := cache.ListRecentIncomplete(ctx, 5)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	task.MarkCompleted()
	require.NoError(t, cache.Update(ctx, task))

	tasks, err = cache.ListRecentIncomplete(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestCache_FailedMutationKeepsEntries(t *testing.T) {
	ctx := context.Background()
	base := mocks.NewMockTaskStore()
	cache, mr := newTestCache(t, base)

	_, err := cache.ListRecentIncomplete(ctx, 5)
	require.NoError(t, err)

	base.DeleteFn = func(ctx context.Context, id int64) error {
		return errors.New("boom")
	}
	assert.Error(t, cache.Delete(ctx, 1))
	assert.True(t, mr.Exists(cache.recentKey(5)))
}

func TestCache_MalformedEntryFallsBack(t *testing.T) {
	ctx := context.Background()
	base := mocks.NewMockTaskStore()
	seedTask(t, base, "real")
	cache, mr := newTestCache(t, base)

	require.NoError(t, mr.Set(cache.recentKey(5), "not json"))

	tasks, err := cache.ListRecentIncomplete(ctx, 5)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "real", tasks[0].Title)
	assert.Equal(t, 1, base.CallCount("ListRecentIncomplete"))
}

func TestCache_RedisUnavailableFallsBack(t *testing.T) {
	ctx := context.Background()
	base := mocks.NewMockTaskStore()
	seedTask(t, base, "still served")
	cache, mr := newTestCache(t, base)

	mr.Close()

	tasks, err := cache.ListRecentIncomplete(ctx, 5)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	task, err := domain.NewTask("created while redis is down", nil)
	require.NoError(t, err)
	assert.NoError(t, cache.Create(ctx, task))
}

func TestCache_DisabledWithoutClient(t *testing.T) {
	ctx := context.Background()
	base := mocks.NewMockTaskStore()
	cache := NewCache(base, nil, time.Minute, nil)

	for i := 0; i < 2; i++ {
		_, err := cache.ListRecentIncomplete(ctx, 5)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, base.CallCount("ListRecentIncomplete"))
}

func TestCache_PassThroughReads(t *testing.T) {
	ctx := context.Background()
	base := mocks.NewMockTaskStore()
	task := seedTask(t, base, "pass through")
	cache, _ := newTestCache(t, base)

	got, err := cache.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)

	count, err := cache.CountIncomplete(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	all, err := cache.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestNewClient(t *testing.T) {
	client, err := NewClient("redis://localhost:6379/0")
	require.NoError(t, err)
	assert.NoError(t, client.Close())

	_, err = NewClient("://bad")
	assert.Error(t, err)
}

func TestNewCache_NilBase(t *testing.T) {
	assert.Panics(t, func() {
		NewCache(nil, nil, time.Minute, nil)
	})
}
