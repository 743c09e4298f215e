package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/newtab/internal/domain"
	"github.com/MrSnakeDoc/newtab/internal/httpserver/deps"
	"github.com/MrSnakeDoc/newtab/internal/logger"
)

// ShortcutsTip is shown once, on the first visit.
const ShortcutsTip = "Pro tip: Use Alt+S to search, Alt+N for new tab, Alt+B for bookmarks, Alt+H for history"

type preferencesResponse struct {
	Preferences domain.Preferences `json:"preferences"`
	Persisted   bool               `json:"persisted"`
	Warning     string             `json:"warning,omitempty"`
}

type tipResponse struct {
	Show      bool   `json:"show"`
	Tip       string `json:"tip,omitempty"`
	Persisted bool   `json:"persisted"`
	Warning   string `json:"warning,omitempty"`
}

func GetPreferences(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, preferencesResponse{Preferences: d.Dashboard.Prefs.Get(), Persisted: true})
	}
}

func UpdatePreferences(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch domain.PreferencesPatch
		if !decodeBody(w, r, &patch) {
			return
		}

		prefs, err := d.Dashboard.Prefs.Update(r.Context(), patch)
		if err != nil && !domain.IsStorage(err) {
			writeStoreError(w, d.Logger, err)
			return
		}

		resp := preferencesResponse{Preferences: prefs, Persisted: err == nil}
		if err != nil {
			resp.Warning = "Settings could not be saved and will be lost on reload."
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// ShowShortcutsTip answers with the keyboard-shortcut tip the first time only.
func ShowShortcutsTip(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		show, err := d.Dashboard.Prefs.MarkShortcutsShown(r.Context())
		if err != nil && !domain.IsStorage(err) {
			writeStoreError(w, d.Logger, err)
			return
		}

		resp := tipResponse{Show: show, Persisted: err == nil}
		if show {
			resp.Tip = ShortcutsTip
		}
		if err != nil {
			d.Logger.Warn("failed to persist shortcuts tip flag", logger.Error(err))
			resp.Warning = "The tip may show again on the next visit."
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
