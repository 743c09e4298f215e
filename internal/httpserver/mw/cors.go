package mw

import (
	"net/http"
	"slices"
	"strings"

	"github.com/MrSnakeDoc/newtab/internal/logger"
)

const (
	corsMethods = "GET, POST, PATCH, DELETE, OPTIONS"
	corsHeaders = "Content-Type, X-Request-ID"
)

// CORS lets the listed browser origins call the API, for a dashboard page
// served from another origin (e.g. a browser extension). "*" allows any
// origin. An empty list adds no headers.
func CORS(origins []string, log logger.Logger) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		log.Debug("CORS: no origins configured, passthrough mode")
		return func(next http.Handler) http.Handler { return next }
	}

	allowAll := slices.Contains(origins, "*")
	log.Debugf("CORS: initialized with origins=%v", origins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !allowAll && !slices.ContainsFunc(origins, func(o string) bool { return strings.EqualFold(o, origin) }) {
				log.Debugf("CORS: origin %s REJECTED", origin)
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Origin", origin)

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", corsMethods)
				h.Set("Access-Control-Allow-Headers", corsHeaders)
				h.Set("Access-Control-Max-Age", "600")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
