// Package activity holds the dashboard's ordered stores: quick-link sites,
// bookmarks and visit history.
//
// Each store keeps the single working copy of its list in memory, loaded once
// from the kv adapter, and writes the whole list back after every mutation.
// A mutation holds the store lock from read to persist, so concurrent
// requests never interleave inside one operation.
//
// When persisting fails the mutation still applies in memory and the method
// returns the new list together with a *domain.StorageError.
package activity

import (
	"context"
	"sync"

	"github.com/MrSnakeDoc/newtab/internal/kv"
	"github.com/MrSnakeDoc/newtab/internal/logger"
)

// collection is the list + lock + persistence plumbing shared by every store.
type collection[T kv.Entity] struct {
	mu     sync.Mutex
	key    string
	store  *kv.Store
	logger logger.Logger
	items  []T
}

func newCollection[T kv.Entity](ctx context.Context, key string, store *kv.Store, log logger.Logger) *collection[T] {
	c := &collection[T]{
		key:    key,
		store:  store,
		logger: log,
	}
	c.items = kv.GetList[T](ctx, store, key)
	return c
}

// snapshotLocked returns a copy safe to hand out. Caller holds mu.
func (c *collection[T]) snapshotLocked() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// persistLocked writes the working copy back. Caller holds mu.
func (c *collection[T]) persistLocked(ctx context.Context) error {
	if err := c.store.Set(ctx, c.key, c.items); err != nil {
		c.logger.Warn("failed to persist, keeping in-memory state",
			logger.String("key", c.key),
			logger.Int("items", len(c.items)),
			logger.Error(err))
		return err
	}
	return nil
}

func (c *collection[T]) list() []T {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.snapshotLocked()
}

// reset empties the working copy and leaves mu held until release runs.
func (c *collection[T]) reset() (release func()) {
	c.mu.Lock()
	c.items = []T{}
	return c.mu.Unlock
}
