package domain

// Persisted storage keys. These names are the on-disk contract shared with
// the dashboard page and must not change.
const (
	KeyTheme                  = "theme"
	KeySearchEngine           = "searchEngine"
	KeyCustomSites            = "customSites"
	KeyBookmarks              = "bookmarks"
	KeyHistory                = "history"
	KeyWeatherData            = "weatherData"
	KeyWeatherAPIKey          = "weatherApiKey"
	KeyDockSize               = "dockSize"
	KeyDockOpacity            = "dockOpacity"
	KeyDockPosition           = "dockPosition"
	KeyShowWeather            = "showWeather"
	KeyShowClock              = "showClock"
	KeyKeyboardShortcutsShown = "keyboardShortcutsShown"
)

// Dock positions.
const (
	DockBottom = "bottom"
	DockLeft   = "left"
	DockRight  = "right"
)

// Bounds for the dock sliders in the settings panel.
const (
	MinDockSize    = 50
	MaxDockSize    = 150
	MinDockOpacity = 0
	MaxDockOpacity = 100
)

// Preferences is the flat settings map. Every field defaults independently
// when its key is absent from storage.
type Preferences struct {
	Theme                  string `json:"theme"`
	SearchEngine           string `json:"searchEngine"`
	DockSize               int    `json:"dockSize"`
	DockOpacity            int    `json:"dockOpacity"`
	DockPosition           string `json:"dockPosition"`
	ShowWeather            bool   `json:"showWeather"`
	ShowClock              bool   `json:"showClock"`
	WeatherAPIKey          string `json:"weatherApiKey"`
	KeyboardShortcutsShown bool   `json:"keyboardShortcutsShown"`
}

// DefaultPreferences returns the settings of a fresh dashboard.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:        "default",
		SearchEngine: EngineGoogle,
		DockSize:     100,
		DockOpacity:  80,
		DockPosition: DockBottom,
		ShowWeather:  true,
		ShowClock:    true,
	}
}

// PreferencesPatch carries a partial settings update. Nil fields are left untouched.
type PreferencesPatch struct {
	Theme         *string `json:"theme,omitempty"`
	SearchEngine  *string `json:"searchEngine,omitempty"`
	DockSize      *int    `json:"dockSize,omitempty"`
	DockOpacity   *int    `json:"dockOpacity,omitempty"`
	DockPosition  *string `json:"dockPosition,omitempty"`
	ShowWeather   *bool   `json:"showWeather,omitempty"`
	ShowClock     *bool   `json:"showClock,omitempty"`
	WeatherAPIKey *string `json:"weatherApiKey,omitempty"`
}

// Validate rejects out-of-range or unknown values.
func (p PreferencesPatch) Validate() error {
	if p.Theme != nil && *p.Theme == "" {
		return &ValidationError{Field: KeyTheme, Reason: "theme is required"}
	}
	if p.SearchEngine != nil && !IsKnownEngine(*p.SearchEngine) {
		return &ValidationError{Field: KeySearchEngine, Value: *p.SearchEngine, Reason: "unknown search engine"}
	}
	if p.DockSize != nil && (*p.DockSize < MinDockSize || *p.DockSize > MaxDockSize) {
		return &ValidationError{Field: KeyDockSize, Reason: "dock size must be between 50 and 150"}
	}
	if p.DockOpacity != nil && (*p.DockOpacity < MinDockOpacity || *p.DockOpacity > MaxDockOpacity) {
		return &ValidationError{Field: KeyDockOpacity, Reason: "dock opacity must be between 0 and 100"}
	}
	if p.DockPosition != nil {
		switch *p.DockPosition {
		case DockBottom, DockLeft, DockRight:
		default:
			return &ValidationError{Field: KeyDockPosition, Value: *p.DockPosition, Reason: "unknown dock position"}
		}
	}
	return nil
}
