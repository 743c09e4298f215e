package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/newtab/internal/httpserver/deps"
	"github.com/MrSnakeDoc/newtab/internal/httpserver/handlers"
)

func init() { RegisterAPI(registerData) }

func registerData(r chi.Router, d deps.Deps) {
	r.Post("/api/data/clear", handlers.RequestDataClear(d))
	r.Post("/api/data/clear/{token}", handlers.ConfirmDataClear(d))
	r.Get("/api/export", handlers.Export(d))
}
