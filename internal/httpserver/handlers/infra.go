package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/newtab/internal/httpserver/deps"
)

var errNoBackend = errors.New("backend not initialized")

type componentStatus struct {
	OK         bool   `json:"ok"`
	Mode       string `json:"mode,omitempty"`
	Entries    *int   `json:"entries,omitempty"`
	LastReload string `json:"last_reload,omitempty"`
	Impact     string `json:"impact,omitempty"`
	Error      string `json:"error,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"storage":  checkStorage(r, d),
			"weather":  weatherStatus(r, d),
			"homepage": homepageStatus(d),
		}

		if d.Dashboard != nil {
			pending := d.Dashboard.Gate.Pending()
			components["confirm"] = componentStatus{OK: true, Entries: &pending}
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Status:     overallStatus(components),
			Components: components,
		})
	}
}

func overallStatus(components map[string]componentStatus) string {
	// Without storage every change is lost on restart.
	if storage, ok := components["storage"]; ok && !storage.OK {
		return "critical"
	}
	for _, c := range components {
		if !c.OK {
			return "degraded"
		}
	}
	return "ok"
}

func checkStorage(r *http.Request, d deps.Deps) componentStatus {
	if err := pingBackend(r.Context(), d.Backend); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   d.Storage,
			Impact: "changes-not-persisted",
			Error:  err.Error(),
		}
	}
	return componentStatus{OK: true, Mode: d.Storage}
}

func weatherStatus(r *http.Request, d deps.Deps) componentStatus {
	if d.Dashboard == nil {
		return componentStatus{OK: false, Error: "not initialized"}
	}
	snap, ok := d.Dashboard.Weather.Snapshot(r.Context())
	if !ok {
		return componentStatus{OK: true, Mode: "no-cache", LastReload: "never"}
	}
	status := componentStatus{
		OK:         true,
		Mode:       "cached",
		LastReload: time.UnixMilli(snap.Timestamp).Format("2006-01-02 15:04:05"),
	}
	if !snap.Fresh(d.Now()) {
		status.Mode = "stale"
		status.Impact = "fallback-data"
	}
	return status
}

func homepageStatus(d deps.Deps) componentStatus {
	if d.LastImport == nil {
		return componentStatus{OK: true, Mode: "disabled"}
	}
	last := d.LastImport()
	status := componentStatus{OK: !last.IsZero(), Mode: "import", LastReload: "never"}
	if !last.IsZero() {
		status.LastReload = last.Format("2006-01-02 15:04:05")
	}
	return status
}
