package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/newtab/internal/httpserver/deps"
	"github.com/MrSnakeDoc/newtab/internal/httpserver/handlers"
)

func init() { RegisterAPI(registerWeather) }

func registerWeather(r chi.Router, d deps.Deps) {
	r.Get("/api/weather", handlers.Weather(d))
	r.Post("/api/weather/refresh", handlers.RefreshWeather(d))
}
