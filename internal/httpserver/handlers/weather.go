package handlers

import (
	"net/http"
	"strconv"

	"github.com/MrSnakeDoc/newtab/internal/domain"
	"github.com/MrSnakeDoc/newtab/internal/httpserver/deps"
	"github.com/MrSnakeDoc/newtab/internal/weather"
)

// Weather always answers with a reading; the source field tells the widget
// how much to trust it.
func Weather(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		coords, err := parseCoords(r)
		if err != nil {
			writeStoreError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, d.Weather.Current(r.Context(), coords))
	}
}

// parseCoords returns nil when the client sent no location.
func parseCoords(r *http.Request) (*weather.Coords, error) {
	q := r.URL.Query()
	rawLat, rawLon := q.Get("lat"), q.Get("lon")
	if rawLat == "" || rawLon == "" {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil || lat < -90 || lat > 90 {
		return nil, &domain.ValidationError{Field: "lat", Value: rawLat, Reason: "must be a latitude in degrees"}
	}
	lon, err := strconv.ParseFloat(rawLon, 64)
	if err != nil || lon < -180 || lon > 180 {
		return nil, &domain.ValidationError{Field: "lon", Value: rawLon, Reason: "must be a longitude in degrees"}
	}
	return &weather.Coords{Lat: lat, Lon: lon}, nil
}
