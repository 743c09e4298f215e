package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/newtab/internal/confirm"
	"github.com/MrSnakeDoc/newtab/internal/domain"
	"github.com/MrSnakeDoc/newtab/internal/kv"
	"github.com/MrSnakeDoc/newtab/internal/logger"
)

func newDashboard(t *testing.T) *Dashboard {
	t.Helper()
	store := kv.New(kv.NewMemoryBackend(0), logger.NewNop())
	return New(context.Background(), store, confirm.NewGate(time.Minute, nil), logger.NewNop(), nil)
}

func seed(t *testing.T, d *Dashboard) {
	t.Helper()
	ctx := context.Background()
	engine := domain.EngineBing

	_, err := d.Sites.Add(ctx, domain.SiteEntry{Name: "Go", URL: "https://go.dev"})
	require.NoError(t, err)
	_, err = d.Bookmarks.Add(ctx, "https://pkg.go.dev", "Packages", "")
	require.NoError(t, err)
	_, err = d.History.Record(ctx, "https://a.test", "A")
	require.NoError(t, err)
	_, err = d.Prefs.Update(ctx, domain.PreferencesPatch{SearchEngine: &engine})
	require.NoError(t, err)
}

func TestClearAllNeedsToken(t *testing.T) {
	ctx := context.Background()
	d := newDashboard(t)
	seed(t, d)

	// A history token cannot wipe everything.
	histReq := d.History.RequestClear()
	err := d.ConfirmClearAll(ctx, histReq.Token)
	require.ErrorIs(t, err, confirm.ErrInvalidToken)
	assert.Len(t, d.Sites.List(), 1)

	req := d.RequestClearAll()
	require.NoError(t, d.ConfirmClearAll(ctx, req.Token))

	assert.Empty(t, d.Sites.List())
	assert.Empty(t, d.Bookmarks.List())
	assert.Empty(t, d.History.List())
	assert.Equal(t, domain.DefaultPreferences(), d.Prefs.Get())

	keys, err := d.KV.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	// Tokens are single use.
	assert.ErrorIs(t, d.ConfirmClearAll(ctx, req.Token), confirm.ErrInvalidToken)
}

// clearHookBackend calls onClear before clearing. An error from onClear is
// returned and nothing is cleared.
type clearHookBackend struct {
	*kv.MemoryBackend
	onClear func() error
}

func (b *clearHookBackend) Clear(ctx context.Context) error {
	if err := b.onClear(); err != nil {
		return err
	}
	return b.MemoryBackend.Clear(ctx)
}

func TestWipe(t *testing.T) {
	t.Run("backend fails to clear", func(t *testing.T) {
		ctx := context.Background()
		backend := &clearHookBackend{
			MemoryBackend: kv.NewMemoryBackend(0),
			onClear:       func() error { return errors.New("backend down") },
		}
		d := New(ctx, kv.New(backend, logger.NewNop()), confirm.NewGate(time.Minute, nil), logger.NewNop(), nil)
		seed(t, d)

		err := d.Wipe(ctx)
		require.Error(t, err)
		assert.True(t, domain.IsStorage(err))

		assert.Empty(t, d.Sites.List())
		assert.Empty(t, d.Bookmarks.List())
		assert.Empty(t, d.History.List())
		assert.Equal(t, domain.DefaultPreferences(), d.Prefs.Get())
	})

	t.Run("record during clear lands after the wipe", func(t *testing.T) {
		ctx := context.Background()
		var (
			d  *Dashboard
			wg sync.WaitGroup
		)
		backend := &clearHookBackend{MemoryBackend: kv.NewMemoryBackend(0)}
		backend.onClear = func() error {
			started := make(chan struct{})
			wg.Add(1)
			go func() {
				defer wg.Done()
				close(started)
				_, _ = d.History.Record(ctx, "https://during.test", "During")
			}()
			<-started
			return nil
		}
		d = New(ctx, kv.New(backend, logger.NewNop()), confirm.NewGate(time.Minute, nil), logger.NewNop(), nil)
		seed(t, d)
		_, err := d.History.Record(ctx, "https://b.test", "B")
		require.NoError(t, err)

		require.NoError(t, d.Wipe(ctx))
		wg.Wait()

		hist := d.History.List()
		require.Len(t, hist, 1)
		assert.Equal(t, "https://during.test", hist[0].URL)

		var stored []domain.HistoryEntry
		require.True(t, d.KV.Get(ctx, domain.KeyHistory, &stored))
		assert.Equal(t, hist, stored)
	})
}

func TestSnapshot(t *testing.T) {
	d := newDashboard(t)
	seed(t, d)

	snap := d.Snapshot()
	assert.Len(t, snap.Sites, 1)
	assert.Len(t, snap.Bookmarks, 1)
	assert.Len(t, snap.History, 1)
	assert.Equal(t, domain.EngineBing, snap.Preferences.SearchEngine)
	assert.False(t, snap.ExportedAt.IsZero())
}
