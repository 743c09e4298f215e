package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/newtab/internal/httpserver/deps"
	"github.com/MrSnakeDoc/newtab/internal/httpserver/handlers"
)

func init() { RegisterAPI(registerHistory) }

func registerHistory(r chi.Router, d deps.Deps) {
	r.Get("/api/history", handlers.ListHistory(d))
	r.Post("/api/history", handlers.RecordVisit(d))
	r.Post("/api/history/clear", handlers.RequestHistoryClear(d))
	r.Post("/api/history/clear/{token}", handlers.ConfirmHistoryClear(d))
}
