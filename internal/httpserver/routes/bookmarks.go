package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/newtab/internal/httpserver/deps"
	"github.com/MrSnakeDoc/newtab/internal/httpserver/handlers"
)

func init() { RegisterAPI(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	r.Get("/api/bookmarks", handlers.ListBookmarks(d))
	r.Post("/api/bookmarks", handlers.AddBookmark(d))
	r.Delete("/api/bookmarks", handlers.RemoveBookmark(d))
}
