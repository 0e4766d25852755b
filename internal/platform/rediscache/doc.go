// Package rediscache provides a Redis read-through cache for the recent
// incomplete task list.
//
// Cache wraps any store.TaskStore. Only ListRecentIncomplete is cached; every
// successful mutation evicts the cached lists, and Redis failures fall back to
// the wrapped store instead of failing the call.
package rediscache
