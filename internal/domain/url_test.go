package domain

import "testing"

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "https", raw: "https://example.com", wantErr: false},
		{name: "with path", raw: "http://10.0.0.1:8080/admin", wantErr: false},
		{name: "opaque", raw: "mailto:me@example.com", wantErr: false},
		{name: "app scheme", raw: "app://gmail", wantErr: false},
		{name: "file", raw: "file:///home/me/notes.html", wantErr: false},
		{name: "http without host", raw: "http:///path", wantErr: true},
		{name: "plain text", raw: "not a url", wantErr: true},
		{name: "relative", raw: "/path/only", wantErr: true},
		{name: "no host", raw: "https://", wantErr: true},
		{name: "empty", raw: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL("url", tt.raw)
			if tt.wantErr && !IsValidation(err) {
				t.Errorf("ValidateURL(%q) = %v, want ValidationError", tt.raw, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateURL(%q) unexpected error: %v", tt.raw, err)
			}
		})
	}
}

func TestSearchURL(t *testing.T) {
	tests := []struct {
		engine string
		query  string
		want   string
	}{
		{EngineGoogle, "go generics", "https://www.google.com/search?q=go%20generics"},
		{EngineGoogle, "news today (live)!", "https://www.google.com/search?q=news%20today%20(live)!"},
		{EngineBing, "a&b", "https://www.bing.com/search?q=a%26b"},
		{EngineBing, "c++ / go?", "https://www.bing.com/search?q=c%2B%2B%20%2F%20go%3F"},
		{EngineDuckDuckGo, "café ~*'", "https://duckduckgo.com/?q=caf%C3%A9%20~*'"},
		{EngineDuckDuckGo, "x", "https://duckduckgo.com/?q=x"},
		{"altavista", "x", "https://www.google.com/search?q=x"},
	}

	for _, tt := range tests {
		t.Run(tt.engine, func(t *testing.T) {
			if got := SearchURL(tt.engine, tt.query); got != tt.want {
				t.Errorf("SearchURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWeatherIcon(t *testing.T) {
	tests := map[int]string{
		200: "thunderstorm",
		301: "drizzle",
		502: "rain",
		601: "snow",
		741: "atmosphere",
		800: "clear",
		804: "clouds",
		999: "clear",
	}
	for code, want := range tests {
		if got := WeatherIcon(code); got != want {
			t.Errorf("WeatherIcon(%d) = %q, want %q", code, got, want)
		}
	}
}

func TestResolveApp(t *testing.T) {
	app, ok := ResolveApp("Gmail")
	if !ok {
		t.Fatal("expected gmail to resolve")
	}
	if app.HistoryURL != "app://gmail" || app.HistoryTitle != "Opened gmail" {
		t.Errorf("unexpected history target: %+v", app)
	}

	app, ok = ResolveApp("Spotify")
	if !ok || app.HistoryURL != "https://open.spotify.com" {
		t.Errorf("unexpected sidebar app: %+v", app)
	}

	app, ok = ResolveApp("whatsapp")
	if !ok || app.HistoryTitle != "Opened WhatsApp" {
		t.Errorf("sidebar app should use its display name, got %+v", app)
	}

	settings, _ := ResolveApp("settings")
	if settings.Panel != "settings" {
		t.Errorf("settings should open a panel, got %+v", settings)
	}

	app, ok = ResolveApp("notepad")
	if ok {
		t.Error("unknown app should not resolve")
	}
	if app.HistoryURL != "app://notepad" || app.HistoryTitle != "Opened notepad" {
		t.Errorf("unknown app should still carry a history entry, got %+v", app)
	}
}

func TestPreferencesPatchValidate(t *testing.T) {
	str := func(s string) *string { return &s }
	num := func(i int) *int { return &i }

	tests := []struct {
		name    string
		patch   PreferencesPatch
		wantErr bool
	}{
		{name: "empty", patch: PreferencesPatch{}},
		{name: "engine", patch: PreferencesPatch{SearchEngine: str(EngineBing)}},
		{name: "bad engine", patch: PreferencesPatch{SearchEngine: str("yahoo")}, wantErr: true},
		{name: "dock too small", patch: PreferencesPatch{DockSize: num(10)}, wantErr: true},
		{name: "opacity", patch: PreferencesPatch{DockOpacity: num(0)}},
		{name: "bad position", patch: PreferencesPatch{DockPosition: str("top")}, wantErr: true},
		{name: "empty theme", patch: PreferencesPatch{Theme: str("")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
