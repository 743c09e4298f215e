package scheduler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/newtab/internal/activity"
	"github.com/MrSnakeDoc/newtab/internal/confirm"
	"github.com/MrSnakeDoc/newtab/internal/domain"
	"github.com/MrSnakeDoc/newtab/internal/kv"
	"github.com/MrSnakeDoc/newtab/internal/logger"
	"github.com/MrSnakeDoc/newtab/internal/weather"
)

const servicesYAML = `---
- Media:
    - Jellyfin:
        icon: jellyfin.png
        href: https://jellyfin.home.lan
    - Broken:
        href: {{HOMEPAGE_VAR_BROKEN}}
- Infra:
    - Traefik:
        href: https://traefik.home.lan
`

const bookmarksYAML = `---
- Dev:
    - Github:
        - abbr: GH
          href: https://github.com/
    - Go:
        - abbr: GO
          href: https://go.dev/
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestHomepageImport(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	svcPath := writeFile(t, dir, "services.yaml", servicesYAML)
	bmPath := writeFile(t, dir, "bookmarks.yaml", bookmarksYAML)

	store := kv.New(kv.NewMemoryBackend(0), logger.NewNop())
	sites := activity.NewSites(ctx, store, logger.NewNop())
	marks := activity.NewBookmarks(ctx, store, logger.NewNop(), nil)

	// A tile the user added by hand must survive the import untouched.
	_, err := sites.Add(ctx, domain.SiteEntry{Name: "My Jellyfin", URL: "https://jellyfin.home.lan"})
	require.NoError(t, err)

	hi := NewHomepageImporter(svcPath, bmPath, sites, marks, logger.NewNop(), time.Hour, nil)

	res, err := hi.Import(ctx)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Sites: 1, Bookmarks: 2}, res)

	got := sites.List()
	require.Len(t, got, 2)
	assert.Equal(t, "My Jellyfin", got[0].Name)
	assert.Equal(t, "Traefik", got[1].Name)

	bm := marks.List()
	require.Len(t, bm, 2)
	assert.Equal(t, "https://github.com/", bm[0].URL, "file order is kept on top")
	assert.False(t, bm[0].Date.IsZero())

	// A second pass adds nothing.
	res, err = hi.Import(ctx)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{}, res)
}

func TestHomepageImportMissingFile(t *testing.T) {
	ctx := context.Background()
	store := kv.New(kv.NewMemoryBackend(0), logger.NewNop())
	sites := activity.NewSites(ctx, store, logger.NewNop())
	marks := activity.NewBookmarks(ctx, store, logger.NewNop(), nil)

	hi := NewHomepageImporter(filepath.Join(t.TempDir(), "nope.yaml"), "", sites, marks, logger.NewNop(), time.Hour, nil)

	_, err := hi.Import(ctx)
	assert.Error(t, err)
	assert.Empty(t, sites.List())
}

func TestHomepageImportManualTrigger(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := t.TempDir()
	svcPath := filepath.Join(dir, "services.yaml")

	store := kv.New(kv.NewMemoryBackend(0), logger.NewNop())
	sites := activity.NewSites(ctx, store, logger.NewNop())
	marks := activity.NewBookmarks(ctx, store, logger.NewNop(), nil)

	trigger := make(chan struct{}, 1)
	hi := NewHomepageImporter(svcPath, "", sites, marks, logger.NewNop(), time.Hour, trigger)
	require.NoError(t, hi.Start(ctx))
	defer hi.Stop()

	assert.Empty(t, sites.List(), "file does not exist yet")

	writeFile(t, dir, "services.yaml", servicesYAML)
	trigger <- struct{}{}

	assert.Eventually(t, func() bool { return len(sites.List()) == 2 }, 3*time.Second, 10*time.Millisecond)
}

type countingSource struct {
	calls atomic.Int32
	err   error
}

func (c *countingSource) Refresh(context.Context, weather.Coords) error {
	c.calls.Add(1)
	return c.err
}

func TestWeatherRefresher(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := &countingSource{err: errors.New("offline")}
	trigger := make(chan struct{}, 1)
	wr := NewWeatherRefresher(src, weather.Coords{Lat: 1, Lon: 2}, logger.NewNop(), time.Hour, trigger)
	require.NoError(t, wr.Start(ctx))
	defer wr.Stop()

	assert.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	trigger <- struct{}{}
	assert.Eventually(t, func() bool { return src.calls.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestConfirmSweeperCollect(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	gate := confirm.NewGate(time.Minute, func() time.Time { return now })

	gate.Request(confirm.ActionClearHistory)
	gate.Request(confirm.ActionClearAll)

	cs := NewConfirmSweeper(gate, logger.NewNop(), 0)
	assert.Equal(t, 0, cs.Collect())

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 2, cs.Collect())
	assert.Equal(t, 0, gate.Pending())
}

func TestBackendSyncer(t *testing.T) {
	ctx := context.Background()
	src := kv.NewMemoryBackend(0)
	dst := kv.NewMemoryBackend(0)

	require.NoError(t, src.Set(ctx, domain.KeyTheme, "ocean"))
	require.NoError(t, src.Set(ctx, domain.KeyHistory, `[]`))
	require.NoError(t, dst.Set(ctx, domain.KeyShowClock, "false"))

	n, err := NewBackendSyncer(src, dst, logger.NewNop()).Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	keys, err := dst.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.KeyHistory, domain.KeyShowClock, domain.KeyTheme}, keys)
}
