package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/newtab/internal/httpserver/deps"
	"github.com/MrSnakeDoc/newtab/internal/kv"
)

const pingTimeout = 2 * time.Second

type readyzResponse struct {
	Ready bool   `json:"ready"`
	Error string `json:"error,omitempty"`
}

// Readyz reports ready once the storage backend answers.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := pingBackend(r.Context(), d.Backend); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, readyzResponse{Ready: true})
	}
}

type pinger interface {
	Ping(ctx context.Context) error
}

// pingBackend uses the backend's own Ping when it has one and falls back to
// listing keys.
func pingBackend(ctx context.Context, b kv.Backend) error {
	if b == nil {
		return errNoBackend
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if p, ok := b.(pinger); ok {
		return p.Ping(ctx)
	}
	_, err := b.Keys(ctx)
	return err
}
