package handlers

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/newtab/internal/domain"
	"github.com/MrSnakeDoc/newtab/internal/httpserver/deps"
	"github.com/MrSnakeDoc/newtab/internal/logger"
)

// Search sends the query to the preferred engine and records it in history.
// A failed history write does not block the redirect.
func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			writeError(w, http.StatusBadRequest, "empty search query")
			return
		}

		engine := d.Dashboard.Prefs.SearchEngine()
		target := domain.SearchURL(engine, query)

		if _, err := d.Dashboard.History.RecordSearch(r.Context(), target, query); err != nil {
			d.Logger.Warn("failed to record search", logger.Error(err))
		}

		d.Logger.Debug("search request",
			logger.String("engine", engine),
			logger.String("query", query))
		http.Redirect(w, r, target, http.StatusFound)
	}
}

// Suggestions returns completions for the text typed so far.
func Suggestions(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Dashboard.History.Suggest(r.URL.Query().Get("q")))
	}
}
