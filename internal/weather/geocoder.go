package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/MrSnakeDoc/newtab/internal/domain"
	"github.com/MrSnakeDoc/newtab/internal/utils"
	"github.com/MrSnakeDoc/newtab/internal/version"
)

// DefaultGeocoderURL is the public Nominatim instance.
const DefaultGeocoderURL = "https://nominatim.openstreetmap.org"

// UnknownLocation is used when the geocoder knows no place name for a point.
const UnknownLocation = "Unknown Location"

// Geocoder resolves coordinates to a place name with Nominatim.
type Geocoder struct {
	baseURL string
	http    *http.Client
}

// NewGeocoder creates a geocoder. An empty baseURL uses DefaultGeocoderURL.
func NewGeocoder(baseURL string, hc *http.Client) *Geocoder {
	if baseURL == "" {
		baseURL = DefaultGeocoderURL
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Geocoder{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

type reverseResponse struct {
	Address struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		County  string `json:"county"`
	} `json:"address"`
}

// Reverse returns the most specific place name at lat/lon.
// Failures are returned as *domain.NetworkError.
func (g *Geocoder) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", formatCoord(lat))
	q.Set("lon", formatCoord(lon))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return "", &domain.NetworkError{Op: "reverse geocode", Err: err}
	}
	// Nominatim's usage policy requires an identifying User-Agent.
	req.Header.Set("User-Agent", "newtab/"+version.Version)

	resp, err := g.http.Do(req)
	if err != nil {
		return "", &domain.NetworkError{Op: "reverse geocode", Err: err}
	}
	defer utils.DrainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", &domain.NetworkError{Op: "reverse geocode", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var body reverseResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return "", &domain.NetworkError{Op: "reverse geocode", Err: err}
	}

	for _, name := range []string{body.Address.City, body.Address.Town, body.Address.Village, body.Address.County} {
		if name != "" {
			return name, nil
		}
	}
	return UnknownLocation, nil
}
