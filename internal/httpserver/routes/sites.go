package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/newtab/internal/httpserver/deps"
	"github.com/MrSnakeDoc/newtab/internal/httpserver/handlers"
)

func init() { RegisterAPI(registerSites) }

func registerSites(r chi.Router, d deps.Deps) {
	r.Get("/api/sites", handlers.ListSites(d))
	r.Post("/api/sites", handlers.AddSite(d))
}
