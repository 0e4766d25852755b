package rediscache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/store"
	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces every key written by Cache.
const DefaultKeyPrefix = "todo:"

// errStaleGeneration aborts a cache write that raced with an eviction.
var errStaleGeneration = errors.New("cache generation changed during read")

// Cache wraps a TaskStore with Redis-backed caching of the recent incomplete list.
//
// Mutations evict after the enclosing store.RunInTransaction commits, or
// immediately outside one. Every eviction bumps a generation counter, and a
// list read from the backing store is only written to Redis if the counter
// has not moved since the read began, so a read that overlapped a commit
// cannot repopulate the cache with rows the commit changed.
type Cache struct {
	base   store.TaskStore
	redis  *redis.Client
	ttl    time.Duration
	prefix string
	logger *slog.Logger
}

var _ store.TaskStore = (*Cache)(nil)

// NewCache creates a caching TaskStore using the provided Redis client and TTL.
// A nil client or a zero TTL disables caching; calls go straight to base.
func NewCache(base store.TaskStore, client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	if base == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("rediscache.NewCache: base store is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Cache{
		base:   base,
		redis:  client,
		ttl:    ttl,
		prefix: DefaultKeyPrefix,
		logger: logger.With(slog.String("component", "task_cache")),
	}
}

// NewClient parses a redis:// URL and returns a client for it.
func NewClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

// Create implements store.TaskStore.Create.
func (c *Cache) Create(ctx context.Context, task *domain.Task) error {
	if err := c.base.Create(ctx, task); err != nil {
		return err
	}
	store.OnCommit(ctx, c.evict)
	return nil
}

// GetByID implements store.TaskStore.GetByID. Single tasks are not cached.
func (c *Cache) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	return c.base.GetByID(ctx, id)
}

// Update implements store.TaskStore.Update.
func (c *Cache) Update(ctx context.Context, task *domain.Task) error {
	if err := c.base.Update(ctx, task); err != nil {
		return err
	}
	store.OnCommit(ctx, c.evict)
	return nil
}

// Delete implements store.TaskStore.Delete.
func (c *Cache) Delete(ctx context.Context, id int64) error {
	if err := c.base.Delete(ctx, id); err != nil {
		return err
	}
	store.OnCommit(ctx, c.evict)
	return nil
}

// ListRecentIncomplete implements store.TaskStore.ListRecentIncomplete,
// serving from Redis when a fresh entry exists.
func (c *Cache) ListRecentIncomplete(ctx context.Context, limit int) ([]*domain.Task, error) {
	limit = domain.ClampRecentLimit(limit)

	if tasks, ok := c.loadRecent(ctx, limit); ok {
		return tasks, nil
	}

	generation, cacheable := c.generation(ctx)

	tasks, err := c.base.ListRecentIncomplete(ctx, limit)
	if err != nil {
		return nil, err
	}

	if cacheable {
		c.storeRecent(ctx, limit, tasks, generation)
	}
	return tasks, nil
}

// CountIncomplete implements store.TaskStore.CountIncomplete.
func (c *Cache) CountIncomplete(ctx context.Context) (int64, error) {
	return c.base.CountIncomplete(ctx)
}

// ListAll implements store.TaskStore.ListAll.
func (c *Cache) ListAll(ctx context.Context) ([]*domain.Task, error) {
	return c.base.ListAll(ctx)
}

// WithTx implements store.TaskStore.WithTx. The transactional store stays
// wrapped so mutations made inside the transaction evict once it commits.
func (c *Cache) WithTx(tx *sql.Tx) store.TaskStore {
	return &Cache{
		base:   c.base.WithTx(tx),
		redis:  c.redis,
		ttl:    c.ttl,
		prefix: c.prefix,
		logger: c.logger,
	}
}

func (c *Cache) loadRecent(ctx context.Context, limit int) ([]*domain.Task, bool) {
	if c.redis == nil || c.ttl == 0 {
		return nil, false
	}
	log := logger.FromContextOrDefault(ctx, c.logger)

	key := c.recentKey(limit)
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			// On redis errors fall back to the backing store without failing.
			log.Warn("failed to read recent tasks from cache", slog.String("error", err.Error()))
			_ = c.redis.Del(ctx, key).Err()
		}
		return nil, false
	}

	var tasks []*domain.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		log.Warn("discarding malformed cache entry",
			slog.String("key", key),
			slog.String("error", err.Error()))
		_ = c.redis.Del(ctx, key).Err()
		return nil, false
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}

	log.Debug("recent tasks served from cache", slog.Int("limit", limit))
	return tasks, true
}

// generation returns the current eviction counter. The boolean is false when
// caching is disabled or Redis cannot be read, in which case nothing is stored.
func (c *Cache) generation(ctx context.Context) (int64, bool) {
	if c.redis == nil || c.ttl == 0 {
		return 0, false
	}
	gen, err := c.redis.Get(ctx, c.generationKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		logger.FromContextOrDefault(ctx, c.logger).
			Warn("failed to read cache generation", slog.String("error", err.Error()))
		return 0, false
	}
	return gen, true
}

// storeRecent caches tasks for limit unless an eviction happened after
// generation was read.
func (c *Cache) storeRecent(ctx context.Context, limit int, tasks []*domain.Task, generation int64) {
	data, err := json.Marshal(tasks)
	if err != nil {
		return
	}

	genKey := c.generationKey()
	err = c.redis.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.recentKey(limit), data, c.ttl)
			return nil
		})
		return err
	}, genKey)

	log := logger.FromContextOrDefault(ctx, c.logger)
	switch {
	case err == nil:
	case errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
		log.Debug("skipped caching recent tasks after concurrent eviction", slog.Int("limit", limit))
	default:
		log.Warn("failed to cache recent tasks", slog.String("error", err.Error()))
	}
}

// evict bumps the generation and drops the cached list for every possible limit.
func (c *Cache) evict(ctx context.Context) {
	if c.redis == nil {
		return
	}
	keys := make([]string, 0, domain.MaxRecentTasks)
	for limit := 1; limit <= domain.MaxRecentTasks; limit++ {
		keys = append(keys, c.recentKey(limit))
	}
	_, err := c.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.generationKey())
		pipe.Del(ctx, keys...)
		return nil
	})
	if err != nil {
		logger.FromContextOrDefault(ctx, c.logger).
			Warn("failed to evict cached recent tasks", slog.String("error", err.Error()))
	}
}

func (c *Cache) generationKey() string {
	return c.prefix + "tasks:generation"
}

func (c *Cache) recentKey(limit int) string {
	return c.prefix + "tasks:recent:" + strconv.Itoa(limit)
}
