package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/newtab/internal/httpserver/deps"
	"github.com/MrSnakeDoc/newtab/internal/httpserver/handlers"
)

func init() { RegisterAPI(registerPreferences) }

func registerPreferences(r chi.Router, d deps.Deps) {
	r.Get("/api/preferences", handlers.GetPreferences(d))
	r.Patch("/api/preferences", handlers.UpdatePreferences(d))
	r.Post("/api/tips/shortcuts", handlers.ShowShortcutsTip(d))
}
