// Package prefs stores the dashboard settings.
//
// Each setting lives under its own key as a plain scalar string ("bing",
// "120", "true"), matching what the page writes, and falls back to its
// default independently when the key is absent or unparsable.
package prefs

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/MrSnakeDoc/newtab/internal/domain"
	"github.com/MrSnakeDoc/newtab/internal/kv"
	"github.com/MrSnakeDoc/newtab/internal/logger"
)

// Store is the preferences working copy backed by the kv adapter.
type Store struct {
	mu     sync.Mutex
	store  *kv.Store
	logger logger.Logger
	cur    domain.Preferences
}

// New loads the preferences from store.
func New(ctx context.Context, store *kv.Store, log logger.Logger) *Store {
	s := &Store{store: store, logger: log}
	s.cur = s.load(ctx)
	return s
}

// Get returns the current settings.
func (s *Store) Get() domain.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cur
}

// SearchEngine returns the preferred engine.
func (s *Store) SearchEngine() string {
	return s.Get().SearchEngine
}

// WeatherAPIKey returns the user's key, or fallback when none is set.
func (s *Store) WeatherAPIKey(fallback string) string {
	if key := s.Get().WeatherAPIKey; key != "" {
		return key
	}
	return fallback
}

// Update validates patch and applies it. A patch that fails validation
// changes nothing. Write failures are joined into one error; the new values
// still apply in memory.
func (s *Store) Update(ctx context.Context, patch domain.PreferencesPatch) (domain.Preferences, error) {
	if err := patch.Validate(); err != nil {
		return s.Get(), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	set := func(key, value string) {
		if err := s.store.SetRaw(ctx, key, value); err != nil {
			s.logger.Warn("failed to persist preference",
				logger.String("key", key),
				logger.Error(err))
			errs = append(errs, err)
		}
	}

	if patch.Theme != nil {
		s.cur.Theme = *patch.Theme
		set(domain.KeyTheme, s.cur.Theme)
	}
	if patch.SearchEngine != nil {
		s.cur.SearchEngine = *patch.SearchEngine
		set(domain.KeySearchEngine, s.cur.SearchEngine)
	}
	if patch.DockSize != nil {
		s.cur.DockSize = *patch.DockSize
		set(domain.KeyDockSize, strconv.Itoa(s.cur.DockSize))
	}
	if patch.DockOpacity != nil {
		s.cur.DockOpacity = *patch.DockOpacity
		set(domain.KeyDockOpacity, strconv.Itoa(s.cur.DockOpacity))
	}
	if patch.DockPosition != nil {
		s.cur.DockPosition = *patch.DockPosition
		set(domain.KeyDockPosition, s.cur.DockPosition)
	}
	if patch.ShowWeather != nil {
		s.cur.ShowWeather = *patch.ShowWeather
		set(domain.KeyShowWeather, strconv.FormatBool(s.cur.ShowWeather))
	}
	if patch.ShowClock != nil {
		s.cur.ShowClock = *patch.ShowClock
		set(domain.KeyShowClock, strconv.FormatBool(s.cur.ShowClock))
	}
	if patch.WeatherAPIKey != nil {
		s.cur.WeatherAPIKey = *patch.WeatherAPIKey
		set(domain.KeyWeatherAPIKey, s.cur.WeatherAPIKey)
	}

	return s.cur, errors.Join(errs...)
}

// MarkShortcutsShown records that the keyboard-shortcut tip was displayed.
// It reports true only the first time, when the tip should be shown.
func (s *Store) MarkShortcutsShown(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur.KeyboardShortcutsShown {
		return false, nil
	}
	s.cur.KeyboardShortcutsShown = true
	return true, s.store.SetRaw(ctx, domain.KeyKeyboardShortcutsShown, "true")
}

// Reset restores the defaults in memory. The store stays locked until
// release is called.
func (s *Store) Reset() (release func()) {
	s.mu.Lock()
	s.cur = domain.DefaultPreferences()
	return s.mu.Unlock
}

func (s *Store) load(ctx context.Context) domain.Preferences {
	p := domain.DefaultPreferences()

	if v, ok := s.store.Raw(ctx, domain.KeyTheme); ok && v != "" {
		p.Theme = v
	}
	if v, ok := s.store.Raw(ctx, domain.KeySearchEngine); ok && domain.IsKnownEngine(v) {
		p.SearchEngine = v
	}
	p.DockSize = s.intValue(ctx, domain.KeyDockSize, p.DockSize, domain.MinDockSize, domain.MaxDockSize)
	p.DockOpacity = s.intValue(ctx, domain.KeyDockOpacity, p.DockOpacity, domain.MinDockOpacity, domain.MaxDockOpacity)
	if v, ok := s.store.Raw(ctx, domain.KeyDockPosition); ok {
		switch v {
		case domain.DockBottom, domain.DockLeft, domain.DockRight:
			p.DockPosition = v
		}
	}
	p.ShowWeather = s.boolValue(ctx, domain.KeyShowWeather, p.ShowWeather)
	p.ShowClock = s.boolValue(ctx, domain.KeyShowClock, p.ShowClock)
	if v, ok := s.store.Raw(ctx, domain.KeyWeatherAPIKey); ok {
		p.WeatherAPIKey = v
	}
	p.KeyboardShortcutsShown = s.boolValue(ctx, domain.KeyKeyboardShortcutsShown, false)
	return p
}

func (s *Store) intValue(ctx context.Context, key string, def, lo, hi int) int {
	v, ok := s.store.Raw(ctx, key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < lo || n > hi {
		s.logger.Debug("ignoring stored preference",
			logger.String("key", key),
			logger.String("value", v))
		return def
	}
	return n
}

func (s *Store) boolValue(ctx context.Context, key string, def bool) bool {
	v, ok := s.store.Raw(ctx, key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
