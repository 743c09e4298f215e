package prefs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/newtab/internal/domain"
	"github.com/MrSnakeDoc/newtab/internal/kv"
	"github.com/MrSnakeDoc/newtab/internal/logger"
)

func ptr[T any](v T) *T { return &v }

func newKV() *kv.Store {
	return kv.New(kv.NewMemoryBackend(0), logger.NewNop())
}

func TestDefaults(t *testing.T) {
	s := New(context.Background(), newKV(), logger.NewNop())
	assert.Equal(t, domain.DefaultPreferences(), s.Get())
	assert.Equal(t, domain.EngineGoogle, s.SearchEngine())
	assert.Equal(t, "fallback", s.WeatherAPIKey("fallback"))
}

func TestLoadRawScalars(t *testing.T) {
	ctx := context.Background()
	store := newKV()
	raw := map[string]string{
		domain.KeySearchEngine: "bing",
		domain.KeyDockSize:     "120",
		domain.KeyDockOpacity:  "not a number",
		domain.KeyDockPosition: "top",
		domain.KeyShowClock:    "false",
		domain.KeyTheme:        "ocean",
	}
	for k, v := range raw {
		require.NoError(t, store.SetRaw(ctx, k, v))
	}

	got := New(ctx, store, logger.NewNop()).Get()

	assert.Equal(t, "bing", got.SearchEngine)
	assert.Equal(t, 120, got.DockSize)
	assert.Equal(t, 80, got.DockOpacity, "unparsable value falls back to default")
	assert.Equal(t, domain.DockBottom, got.DockPosition, "unknown position falls back to default")
	assert.False(t, got.ShowClock)
	assert.True(t, got.ShowWeather)
	assert.Equal(t, "ocean", got.Theme)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	store := newKV()
	s := New(ctx, store, logger.NewNop())

	got, err := s.Update(ctx, domain.PreferencesPatch{
		SearchEngine:  ptr(domain.EngineDuckDuckGo),
		DockSize:      ptr(64),
		ShowWeather:   ptr(false),
		WeatherAPIKey: ptr("k3y"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.EngineDuckDuckGo, got.SearchEngine)
	assert.Equal(t, "k3y", s.WeatherAPIKey("fallback"))

	raw, ok := store.Raw(ctx, domain.KeyDockSize)
	require.True(t, ok)
	assert.Equal(t, "64", raw)
	raw, ok = store.Raw(ctx, domain.KeyShowWeather)
	require.True(t, ok)
	assert.Equal(t, "false", raw)

	assert.Equal(t, got, New(ctx, store, logger.NewNop()).Get())
}

func TestUpdateRejectsInvalidPatch(t *testing.T) {
	tests := []struct {
		name  string
		patch domain.PreferencesPatch
	}{
		{"engine", domain.PreferencesPatch{SearchEngine: ptr("altavista")}},
		{"dock too small", domain.PreferencesPatch{DockSize: ptr(49)}},
		{"opacity too high", domain.PreferencesPatch{DockOpacity: ptr(101)}},
		{"position", domain.PreferencesPatch{DockPosition: ptr("top")}},
		{"empty theme", domain.PreferencesPatch{Theme: ptr("")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := newKV()
			s := New(ctx, store, logger.NewNop())

			// A valid field next to the invalid one must not be applied either.
			tt.patch.ShowClock = ptr(false)
			got, err := s.Update(ctx, tt.patch)

			require.Error(t, err)
			assert.True(t, domain.IsValidation(err))
			assert.Equal(t, domain.DefaultPreferences(), got)
			keys, err := store.Keys(ctx)
			require.NoError(t, err)
			assert.Empty(t, keys)
		})
	}
}

func TestMarkShortcutsShown(t *testing.T) {
	ctx := context.Background()
	store := newKV()
	s := New(ctx, store, logger.NewNop())

	first, err := s.MarkShortcutsShown(ctx)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := New(ctx, store, logger.NewNop()).MarkShortcutsShown(ctx)
	require.NoError(t, err)
	assert.False(t, again)
}

func TestUpdateStorageFailure(t *testing.T) {
	ctx := context.Background()
	store := kv.New(kv.NewMemoryBackend(10), logger.NewNop())
	s := New(ctx, store, logger.NewNop())

	got, err := s.Update(ctx, domain.PreferencesPatch{Theme: ptr("a-very-long-theme-name")})
	require.Error(t, err)
	assert.True(t, domain.IsStorage(err))
	assert.Equal(t, "a-very-long-theme-name", got.Theme)
}
