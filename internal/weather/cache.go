package weather

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/newtab/internal/domain"
	"github.com/MrSnakeDoc/newtab/internal/kv"
)

// Cache holds the single snapshot of the last successful live fetch.
type Cache struct {
	store *kv.Store
	now   func() time.Time
}

// NewCache creates a cache over store. now == nil uses time.Now.
func NewCache(store *kv.Store, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{store: store, now: now}
}

// RecordSuccess overwrites the snapshot with payload stamped at the current time.
func (c *Cache) RecordSuccess(ctx context.Context, payload domain.WeatherPayload) error {
	snap := domain.WeatherSnapshot{
		Data:      payload,
		Timestamp: c.now().UnixMilli(),
	}
	return c.store.Set(ctx, domain.KeyWeatherData, snap)
}

// ReadIfFresh returns the cached payload when it is younger than
// domain.WeatherFreshness.
func (c *Cache) ReadIfFresh(ctx context.Context) (domain.WeatherPayload, bool) {
	snap, ok := c.Snapshot(ctx)
	if !ok || !snap.Fresh(c.now()) {
		return domain.WeatherPayload{}, false
	}
	return snap.Data, true
}

// Snapshot returns the stored snapshot regardless of age.
func (c *Cache) Snapshot(ctx context.Context) (domain.WeatherSnapshot, bool) {
	var snap domain.WeatherSnapshot
	if !c.store.Get(ctx, domain.KeyWeatherData, &snap) || snap.Timestamp == 0 {
		return domain.WeatherSnapshot{}, false
	}
	return snap, true
}
