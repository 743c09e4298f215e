package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/newtab/internal/httpserver/deps"
)

type visitRequest struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

func ListHistory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeList(w, d.Logger, http.StatusOK, d.Dashboard.History.List(), nil)
	}
}

// RecordVisit is called when a tile or bookmark is opened.
func RecordVisit(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req visitRequest
		if !decodeBody(w, r, &req) {
			return
		}
		entries, err := d.Dashboard.History.Record(r.Context(), req.URL, req.Title)
		writeList(w, d.Logger, http.StatusOK, entries, err)
	}
}

// RequestHistoryClear hands out the token the confirmation prompt posts back.
func RequestHistoryClear(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusAccepted, d.Dashboard.History.RequestClear())
	}
}

func ConfirmHistoryClear(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := d.Dashboard.History.ConfirmClear(r.Context(), chi.URLParam(r, "token"))
		writeList(w, d.Logger, http.StatusOK, entries, err)
	}
}
