package domain

import "strings"

// AppTarget describes what launching a dock or sidebar app does.
type AppTarget struct {
	Name string
	// URL is opened in a new browsing context. Empty for in-page panels.
	URL string
	// Panel names an in-page panel to show instead of navigating.
	Panel string
	// HistoryURL and HistoryTitle are recorded in history on launch.
	HistoryURL   string
	HistoryTitle string
}

var dockApps = map[string]string{
	"browser":  "about:blank",
	"gmail":    "https://mail.google.com",
	"maps":     "https://maps.google.com",
	"calendar": "https://calendar.google.com",
	"photos":   "https://photos.google.com",
	"music":    "https://music.youtube.com",
	"drive":    "https://drive.google.com",
	"settings": "",
}

type sidebarApp struct {
	name string
	url  string
}

var sidebarApps = map[string]sidebarApp{
	"whatsapp":  {name: "WhatsApp", url: "https://web.whatsapp.com"},
	"messenger": {name: "Messenger", url: "https://messenger.com"},
	"twitter":   {name: "Twitter", url: "https://twitter.com"},
	"spotify":   {name: "Spotify", url: "https://open.spotify.com"},
}

// ResolveApp looks up a dock app first, then a sidebar app (case-insensitive).
// Unknown names report false but still carry the history entry a launch
// attempt records.
func ResolveApp(name string) (AppTarget, bool) {
	name = strings.TrimSpace(name)
	key := strings.ToLower(name)

	if target, ok := dockApps[key]; ok {
		app := AppTarget{
			Name:         key,
			URL:          target,
			HistoryURL:   "app://" + key,
			HistoryTitle: "Opened " + key,
		}
		if key == "settings" {
			app.Panel = "settings"
		}
		return app, true
	}

	if app, ok := sidebarApps[key]; ok {
		return AppTarget{
			Name:         app.name,
			URL:          app.url,
			HistoryURL:   app.url,
			HistoryTitle: "Opened " + app.name,
		}, true
	}

	return AppTarget{
		Name:         name,
		HistoryURL:   "app://" + name,
		HistoryTitle: "Opened " + name,
	}, false
}
