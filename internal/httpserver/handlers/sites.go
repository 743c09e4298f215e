package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/newtab/internal/domain"
	"github.com/MrSnakeDoc/newtab/internal/httpserver/deps"
)

type siteRequest struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
	URL  string `json:"url"`
}

func ListSites(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeList(w, d.Logger, http.StatusOK, d.Dashboard.Sites.List(), nil)
	}
}

func AddSite(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req siteRequest
		if !decodeBody(w, r, &req) {
			return
		}
		sites, err := d.Dashboard.Sites.Add(r.Context(), domain.SiteEntry{
			Name: req.Name,
			Icon: req.Icon,
			URL:  req.URL,
		})
		writeList(w, d.Logger, http.StatusCreated, sites, err)
	}
}
