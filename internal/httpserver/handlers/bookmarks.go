package handlers

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/newtab/internal/domain"
	"github.com/MrSnakeDoc/newtab/internal/httpserver/deps"
	"github.com/MrSnakeDoc/newtab/internal/logger"
)

type bookmarkRequest struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Icon  string `json:"icon"`
}

func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeList(w, d.Logger, http.StatusOK, d.Dashboard.Bookmarks.List(), nil)
	}
}

// AddBookmark stores a bookmark. A missing title or icon is looked up from
// the page itself before the entry is stored.
func AddBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bookmarkRequest
		if !decodeBody(w, r, &req) {
			return
		}

		req.URL = strings.TrimSpace(req.URL)
		if err := domain.ValidateURL("url", req.URL); err != nil {
			writeStoreError(w, d.Logger, err)
			return
		}

		if d.Metadata != nil && (req.Title == "" || req.Icon == "") {
			req.Title, req.Icon = d.Metadata.Fill(r.Context(), req.URL, req.Title, req.Icon)
		}

		marks, err := d.Dashboard.Bookmarks.Add(r.Context(), req.URL, req.Title, req.Icon)
		writeList(w, d.Logger, http.StatusCreated, marks, err)
	}
}

func RemoveBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := r.URL.Query().Get("url")
		if target == "" {
			writeError(w, http.StatusBadRequest, "missing url parameter")
			return
		}

		marks, removed, err := d.Dashboard.Bookmarks.Remove(r.Context(), target)
		if !removed {
			d.Logger.Debug("bookmark not found", logger.String("url", target))
		}
		writeList(w, d.Logger, http.StatusOK, marks, err)
	}
}
