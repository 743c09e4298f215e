package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/newtab/internal/domain"
	"github.com/MrSnakeDoc/newtab/internal/export"
	"github.com/MrSnakeDoc/newtab/internal/httpserver/deps"
	"github.com/MrSnakeDoc/newtab/internal/logger"
)

type clearResponse struct {
	Cleared   bool   `json:"cleared"`
	Persisted bool   `json:"persisted"`
	Warning   string `json:"warning,omitempty"`
}

func RequestDataClear(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusAccepted, d.Dashboard.RequestClearAll())
	}
}

// ConfirmDataClear resets every setting and removes all history and bookmarks.
func ConfirmDataClear(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := d.Dashboard.ConfirmClearAll(r.Context(), chi.URLParam(r, "token"))
		if err != nil && !domain.IsStorage(err) {
			writeStoreError(w, d.Logger, err)
			return
		}

		resp := clearResponse{Cleared: true, Persisted: err == nil}
		if err != nil {
			resp.Warning = "Stored data could not be removed and may reappear on restart."
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// Export downloads the dashboard data as json (default) or xlsx.
func Export(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format := r.URL.Query().Get("format")
		if format == "" {
			format = export.FormatJSON
		}

		snap := d.Dashboard.Snapshot()

		var buf bytes.Buffer
		if err := export.Write(&buf, format, snap); err != nil {
			writeStoreError(w, d.Logger, err)
			return
		}

		filename := fmt.Sprintf("newtab-%s.%s", snap.ExportedAt.Format("20060102-150405"), format)
		w.Header().Set("Content-Type", export.ContentType(format))
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		if _, err := buf.WriteTo(w); err != nil {
			d.Logger.Debug("failed to write export", logger.Error(err))
		}
	}
}
