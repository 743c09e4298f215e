package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/newtab/internal/domain"
	"github.com/MrSnakeDoc/newtab/internal/httpserver/deps"
	"github.com/MrSnakeDoc/newtab/internal/logger"
)

type panelResponse struct {
	App   string `json:"app"`
	Panel string `json:"panel"`
}

// LaunchApp opens a dock or sidebar app. Apps backed by an in-page panel
// answer with the panel name instead of a redirect. Unknown apps answer 404
// but the attempt is still recorded in history.
func LaunchApp(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		app, ok := domain.ResolveApp(chi.URLParam(r, "name"))

		if _, err := d.Dashboard.History.Record(r.Context(), app.HistoryURL, app.HistoryTitle); err != nil {
			d.Logger.Warn("failed to record app launch",
				logger.String("app", app.Name),
				logger.Error(err))
		}

		if !ok {
			writeError(w, http.StatusNotFound, fmt.Sprintf("App %s not implemented yet.", app.Name))
			return
		}

		if app.Panel != "" {
			writeJSON(w, http.StatusOK, panelResponse{App: app.Name, Panel: app.Panel})
			return
		}
		http.Redirect(w, r, app.URL, http.StatusFound)
	}
}
