package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/newtab/internal/httpserver/deps"
	"github.com/MrSnakeDoc/newtab/internal/httpserver/handlers"
)

func init() { RegisterAPI(registerSearch) }

func registerSearch(r chi.Router, d deps.Deps) {
	r.Get("/search", handlers.Search(d))
	r.Get("/api/suggestions", handlers.Suggestions(d))
	r.Get("/api/apps/{name}", handlers.LaunchApp(d))
}
