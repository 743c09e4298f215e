package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/newtab/internal/httpserver/deps"
	"github.com/MrSnakeDoc/newtab/internal/logger"
)

type triggerResponse struct {
	Triggered bool   `json:"triggered"`
	Message   string `json:"message"`
}

// Reload triggers a manual homepage import.
func Reload(d deps.Deps) http.HandlerFunc {
	return triggerHandler(d, d.ImportTrigger, "homepage import")
}

// RefreshWeather asks the background refresher for a new reading.
func RefreshWeather(d deps.Deps) http.HandlerFunc {
	return triggerHandler(d, d.WeatherTrigger, "weather refresh")
}

// triggerHandler does a non-blocking send on trigger. A full channel means a
// run is already queued.
func triggerHandler(d deps.Deps, trigger chan struct{}, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if trigger == nil {
			writeJSON(w, http.StatusNotFound, triggerResponse{Message: name + " is not configured"})
			return
		}

		select {
		case trigger <- struct{}{}:
			d.Logger.Info("manual "+name+" triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusAccepted, triggerResponse{Triggered: true, Message: name + " triggered"})
		default:
			d.Logger.Warn(name+" already in progress",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusTooManyRequests, triggerResponse{Message: name + " already in progress, please wait"})
		}
	}
}
