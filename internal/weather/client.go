// Package weather fetches the reading shown by the weather widget and decides
// what to show when the live service is unavailable.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MrSnakeDoc/newtab/internal/domain"
	"github.com/MrSnakeDoc/newtab/internal/logger"
	"github.com/MrSnakeDoc/newtab/internal/retry"
	"github.com/MrSnakeDoc/newtab/internal/utils"
)

// DefaultAPIURL is the OpenWeatherMap API root.
const DefaultAPIURL = "https://api.openweathermap.org"

// ErrMissingAPIKey is returned when no key is configured or saved.
var ErrMissingAPIKey = errors.New("weather api key is not set")

// Client calls the OpenWeatherMap current-weather endpoint.
type Client struct {
	baseURL string
	http    *http.Client
	retry   retry.Config
	logger  logger.Logger
}

// NewClient creates a client. An empty baseURL uses DefaultAPIURL.
func NewClient(baseURL string, hc *http.Client, policy retry.Config, log logger.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		retry:   policy,
		logger:  log,
	}
}

type currentResponse struct {
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		ID int `json:"id"`
	} `json:"weather"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Current fetches the reading at lat/lon, retrying transient failures.
// Every failure is returned as a *domain.NetworkError.
func (c *Client) Current(ctx context.Context, lat, lon float64, apiKey string) (domain.WeatherPayload, error) {
	if apiKey == "" {
		return domain.WeatherPayload{}, &domain.NetworkError{Op: "fetch weather", Err: ErrMissingAPIKey}
	}

	q := url.Values{}
	q.Set("lat", formatCoord(lat))
	q.Set("lon", formatCoord(lon))
	q.Set("units", "metric")
	q.Set("appid", apiKey)
	endpoint := c.baseURL + "/data/2.5/weather?" + q.Encode()

	policy := c.retry
	policy.OnRetry = func(attempt int, next time.Duration, err error) {
		c.logger.Warn("weather request failed, retrying",
			logger.Int("attempt", attempt),
			logger.Duration("next_retry_in", next),
			logger.Error(err))
	}

	payload, err := retry.Do(ctx, policy, func(ctx context.Context) (domain.WeatherPayload, error) {
		return c.fetch(ctx, endpoint)
	})
	if err != nil {
		return domain.WeatherPayload{}, &domain.NetworkError{Op: "fetch weather", Err: err}
	}
	return payload, nil
}

func (c *Client) fetch(ctx context.Context, endpoint string) (domain.WeatherPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.WeatherPayload{}, retry.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.WeatherPayload{}, err
	}
	defer utils.DrainAndClose(resp.Body)

	var body currentResponse
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body)

	if resp.StatusCode != http.StatusOK {
		msg := body.Message
		if msg == "" {
			msg = "unknown error"
		}
		return domain.WeatherPayload{}, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, msg)
	}
	if decodeErr != nil {
		return domain.WeatherPayload{}, fmt.Errorf("decode weather response: %w", decodeErr)
	}
	if len(body.Weather) == 0 {
		return domain.WeatherPayload{}, errors.New("weather response has no condition")
	}

	return domain.WeatherPayload{
		TemperatureCelsius: body.Main.Temp,
		LocationName:       body.Name,
		ConditionCode:      body.Weather[0].ID,
	}, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
