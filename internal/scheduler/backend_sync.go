package scheduler

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/newtab/internal/kv"
	"github.com/MrSnakeDoc/newtab/internal/logger"
)

// BackendSyncer copies every key from one storage backend into another,
// e.g. when moving a dashboard from SQLite to Redis.
type BackendSyncer struct {
	src    kv.Backend
	dst    kv.Backend
	logger logger.Logger
}

// NewBackendSyncer creates a syncer from src to dst.
func NewBackendSyncer(src, dst kv.Backend, log logger.Logger) *BackendSyncer {
	return &BackendSyncer{src: src, dst: dst, logger: log}
}

// Sync copies all keys and returns how many were written. Keys only present
// in dst are left alone.
func (bs *BackendSyncer) Sync(ctx context.Context) (int, error) {
	bs.logger.Info("copying dashboard data between backends")

	keys, err := bs.src.Keys(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list source keys: %w", err)
	}
	if len(keys) == 0 {
		bs.logger.Info("no data found in source backend")
		return 0, nil
	}

	copied := 0
	for _, key := range keys {
		value, ok, err := bs.src.Get(ctx, key)
		if err != nil {
			return copied, fmt.Errorf("failed to read %q: %w", key, err)
		}
		if !ok {
			continue
		}
		if err := bs.dst.Set(ctx, key, value); err != nil {
			return copied, fmt.Errorf("failed to write %q: %w", key, err)
		}
		copied++
	}

	bs.logger.Info("copied dashboard data", logger.Int("count", copied))
	return copied, nil
}
