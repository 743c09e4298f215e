package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/newtab/internal/httpserver/deps"
	"github.com/MrSnakeDoc/newtab/internal/httpserver/mw"
)

type (
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
)

type entry struct {
	reg Registrar
	mws []Middleware
	api bool
}

var registry []entry

// Register a registrar with optional per-route middlewares.
func Register(reg Registrar, mws ...Middleware) {
	registry = append(registry, entry{reg: reg, mws: mws})
}

// RegisterAPI registers a dashboard API registrar. API routes share one
// host check and one rate limiter.
func RegisterAPI(reg Registrar) {
	registry = append(registry, entry{reg: reg, api: true})
}

// Called once from server.New()
func RegisterAll(r chi.Router, d deps.Deps) {
	var api []Registrar

	for _, e := range registry {
		if e.api {
			api = append(api, e.reg)
			continue
		}
		if len(e.mws) == 0 {
			e.reg(r, d)
			continue
		}
		sub := r.With(e.mws...) // apply per-route middlewares
		e.reg(sub, d)
	}

	if len(api) == 0 {
		return
	}
	r.Group(func(g chi.Router) {
		g.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))
		g.Use(mw.RateLimit(mw.RateLimitConfig{
			Burst:             d.RateBurst,
			RefillPerIPPerMin: d.RateRefill,
			MaxEntries:        10_000,
			TrustProxy:        d.TrustProxy,
		}))
		for _, reg := range api {
			reg(g, d)
		}
	})
}

// private guards the operator endpoints.
func private(d deps.Deps) []Middleware {
	return []Middleware{
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.AllowedHosts, d.Logger),
	}
}
