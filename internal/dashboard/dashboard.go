// Package dashboard bundles the stores that make up one dashboard and the
// operations that span all of them: the full data wipe and exports.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/newtab/internal/activity"
	"github.com/MrSnakeDoc/newtab/internal/confirm"
	"github.com/MrSnakeDoc/newtab/internal/export"
	"github.com/MrSnakeDoc/newtab/internal/kv"
	"github.com/MrSnakeDoc/newtab/internal/logger"
	"github.com/MrSnakeDoc/newtab/internal/prefs"
	"github.com/MrSnakeDoc/newtab/internal/weather"
)

// Dashboard owns one set of stores over a single kv adapter.
type Dashboard struct {
	KV        *kv.Store
	Sites     *activity.Sites
	Bookmarks *activity.Bookmarks
	History   *activity.History
	Prefs     *prefs.Store
	Weather   *weather.Cache
	Gate      *confirm.Gate

	logger logger.Logger
	now    func() time.Time
}

// New loads every store from store. now == nil uses time.Now.
func New(ctx context.Context, store *kv.Store, gate *confirm.Gate, log logger.Logger, now func() time.Time) *Dashboard {
	if now == nil {
		now = time.Now
	}
	return &Dashboard{
		KV:        store,
		Sites:     activity.NewSites(ctx, store, logger.Named(log, "sites")),
		Bookmarks: activity.NewBookmarks(ctx, store, logger.Named(log, "bookmarks"), now),
		History:   activity.NewHistory(ctx, store, gate, logger.Named(log, "history"), now),
		Prefs:     prefs.New(ctx, store, logger.Named(log, "prefs")),
		Weather:   weather.NewCache(store, now),
		Gate:      gate,
		logger:    log,
		now:       now,
	}
}

// RequestClearAll starts the two-step wipe.
func (d *Dashboard) RequestClearAll() confirm.Request {
	return d.Gate.Request(confirm.ActionClearAll)
}

// ConfirmClearAll wipes everything if token is a valid clear-all token.
func (d *Dashboard) ConfirmClearAll(ctx context.Context, token string) error {
	if err := d.Gate.Confirm(confirm.ActionClearAll, token); err != nil {
		return fmt.Errorf("clear all data: %w", err)
	}
	return d.Wipe(ctx)
}

// Wipe resets every store to its defaults and clears storage. The in-memory
// stores are reset even when the backend fails to clear. Every store stays
// locked until storage is cleared, so no mutation can land in between.
func (d *Dashboard) Wipe(ctx context.Context) error {
	releases := []func(){
		d.Sites.Reset(),
		d.Bookmarks.Reset(),
		d.History.Reset(),
		d.Prefs.Reset(),
	}
	defer func() {
		for _, release := range releases {
			release()
		}
	}()

	err := d.KV.ClearAll(ctx)
	if err != nil {
		d.logger.Error("failed to clear storage", logger.Error(err))
	}

	d.logger.Info("dashboard data cleared")
	return err
}

// Snapshot collects everything an export contains.
func (d *Dashboard) Snapshot() export.Snapshot {
	return export.Snapshot{
		ExportedAt:  d.now().UTC(),
		Preferences: d.Prefs.Get(),
		Sites:       d.Sites.List(),
		Bookmarks:   d.Bookmarks.List(),
		History:     d.History.List(),
	}
}
