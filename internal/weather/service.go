package weather

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"

	"github.com/MrSnakeDoc/newtab/internal/domain"
	"github.com/MrSnakeDoc/newtab/internal/logger"
)

// Messages shown next to degraded readings.
const (
	MsgApproximate = "Weather API key may be invalid. Using approximate weather data."
	MsgCached      = "Using cached weather data"
	MsgNoLocation  = "Location access is needed for local weather."
)

// Coords is a point reported by the client. A nil *Coords means the user
// did not grant location access.
type Coords struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Reading is what the weather widget renders.
type Reading struct {
	domain.WeatherPayload
	Icon    string               `json:"icon"`
	Source  domain.WeatherSource `json:"source"`
	Message string               `json:"message,omitempty"`
}

// Fetcher is the live weather source.
type Fetcher interface {
	Current(ctx context.Context, lat, lon float64, apiKey string) (domain.WeatherPayload, error)
}

// ReverseGeocoder names the place at a point.
type ReverseGeocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (string, error)
}

// Service walks the fallback chain: live reading, then a synthetic clear-sky
// reading at the geocoded place, then a fresh cached snapshot, then the mock.
type Service struct {
	fetcher  Fetcher
	geocoder ReverseGeocoder
	cache    *Cache
	apiKey   func() string
	logger   logger.Logger

	mu   sync.Mutex
	last Reading
	intn func(n int) int
}

// NewService wires the chain. apiKey is consulted on every fetch so a key
// saved in the settings takes effect immediately.
func NewService(f Fetcher, g ReverseGeocoder, cache *Cache, apiKey func() string, log logger.Logger) *Service {
	return &Service{
		fetcher:  f,
		geocoder: g,
		cache:    cache,
		apiKey:   apiKey,
		logger:   log,
		intn:     rand.IntN,
		last:     newReading(domain.MockWeather(), domain.WeatherMock, ""),
	}
}

// Current returns the best reading available for coords.
func (s *Service) Current(ctx context.Context, coords *Coords) Reading {
	r := s.resolve(ctx, coords)

	s.mu.Lock()
	s.last = r
	s.mu.Unlock()
	return r
}

// Last returns the most recent reading handed out.
func (s *Service) Last() Reading {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.last
}

// Refresh fetches a live reading and caches it. Used by the background refresher.
func (s *Service) Refresh(ctx context.Context, coords Coords) error {
	payload, err := s.fetcher.Current(ctx, coords.Lat, coords.Lon, s.apiKey())
	if err != nil {
		return err
	}
	if err := s.cache.RecordSuccess(ctx, payload); err != nil {
		s.logger.Warn("failed to cache weather", logger.Error(err))
	}

	s.mu.Lock()
	s.last = newReading(payload, domain.WeatherLive, "")
	s.mu.Unlock()
	return nil
}

func (s *Service) resolve(ctx context.Context, coords *Coords) Reading {
	if coords == nil {
		perm := &domain.PermissionError{Capability: "geolocation", Message: MsgNoLocation}
		s.logger.Info("weather without location", logger.Error(perm))
		return s.fromCacheOrMock(ctx, perm.Message, perm.Message)
	}

	payload, err := s.fetcher.Current(ctx, coords.Lat, coords.Lon, s.apiKey())
	if err == nil {
		if cerr := s.cache.RecordSuccess(ctx, payload); cerr != nil {
			s.logger.Warn("failed to cache weather", logger.Error(cerr))
		}
		return newReading(payload, domain.WeatherLive, "")
	}
	s.logger.Warn("live weather unavailable", logger.Error(err))

	if errors.Is(err, context.Canceled) {
		return s.fromCacheOrMock(ctx, MsgCached, "")
	}

	name, gerr := s.geocoder.Reverse(ctx, coords.Lat, coords.Lon)
	if gerr == nil {
		synthetic := domain.WeatherPayload{
			TemperatureCelsius: float64(15 + s.intn(11)),
			LocationName:       name,
			ConditionCode:      domain.ConditionClear,
		}
		return newReading(synthetic, domain.WeatherGeocoded, MsgApproximate)
	}
	s.logger.Warn("reverse geocoding failed", logger.Error(gerr))

	return s.fromCacheOrMock(ctx, MsgCached, "")
}

func (s *Service) fromCacheOrMock(ctx context.Context, cachedMsg, mockMsg string) Reading {
	if payload, ok := s.cache.ReadIfFresh(ctx); ok {
		return newReading(payload, domain.WeatherCached, cachedMsg)
	}
	return newReading(domain.MockWeather(), domain.WeatherMock, mockMsg)
}

func newReading(p domain.WeatherPayload, src domain.WeatherSource, msg string) Reading {
	return Reading{
		WeatherPayload: p,
		Icon:           domain.WeatherIcon(p.ConditionCode),
		Source:         src,
		Message:        msg,
	}
}
