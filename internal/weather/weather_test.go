package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/newtab/internal/domain"
	"github.com/MrSnakeDoc/newtab/internal/kv"
	"github.com/MrSnakeDoc/newtab/internal/logger"
	"github.com/MrSnakeDoc/newtab/internal/retry"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newCache(c *clock) *Cache {
	return NewCache(kv.New(kv.NewMemoryBackend(0), logger.NewNop()), c.now)
}

func fastRetry() retry.Config {
	return retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, Multiplier: 2}
}

func TestCacheFreshness(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	cache := newCache(c)

	_, ok := cache.ReadIfFresh(ctx)
	assert.False(t, ok, "empty cache")

	payload := domain.WeatherPayload{TemperatureCelsius: 18.5, LocationName: "Lyon", ConditionCode: 500}
	require.NoError(t, cache.RecordSuccess(ctx, payload))
	start := c.t

	c.t = start.Add(2*time.Hour + 59*time.Minute)
	got, ok := cache.ReadIfFresh(ctx)
	require.True(t, ok)
	assert.Equal(t, payload, got)

	c.t = start.Add(3*time.Hour + time.Minute)
	_, ok = cache.ReadIfFresh(ctx)
	assert.False(t, ok)

	snap, ok := cache.Snapshot(ctx)
	require.True(t, ok, "stale snapshot is still stored")
	assert.Equal(t, start.UnixMilli(), snap.Timestamp)
}

func TestClientCurrent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		assert.Equal(t, "/data/2.5/weather", r.URL.Path)
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.Equal(t, "k", r.URL.Query().Get("appid"))
		assert.Equal(t, "48.85", r.URL.Query().Get("lat"))
		if n == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"main":{"temp":21.4},"weather":[{"id":801}],"name":"Paris"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client(), fastRetry(), logger.NewNop())
	got, err := c.Current(context.Background(), 48.85, 2.35, "k")

	require.NoError(t, err)
	assert.Equal(t, domain.WeatherPayload{TemperatureCelsius: 21.4, LocationName: "Paris", ConditionCode: 801}, got)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClientExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"cod":401,"message":"Invalid API key"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client(), fastRetry(), logger.NewNop())
	_, err := c.Current(context.Background(), 1, 2, "bad")

	require.Error(t, err)
	var netErr *domain.NetworkError
	assert.ErrorAs(t, err, &netErr)
	assert.ErrorIs(t, err, retry.ErrExhausted)
	assert.Contains(t, err.Error(), "Invalid API key")
	assert.Equal(t, int32(3), calls.Load())
}

func TestClientRequiresKey(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", nil, fastRetry(), logger.NewNop())
	_, err := c.Current(context.Background(), 1, 2, "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestGeocoderReverse(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"city", `{"address":{"city":"Berlin","county":"X"}}`, "Berlin"},
		{"town", `{"address":{"town":"Hallstatt"}}`, "Hallstatt"},
		{"village", `{"address":{"village":"Giethoorn"}}`, "Giethoorn"},
		{"county", `{"address":{"county":"Kerry"}}`, "Kerry"},
		{"nothing", `{"address":{}}`, UnknownLocation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/reverse", r.URL.Path)
				assert.Equal(t, "json", r.URL.Query().Get("format"))
				assert.NotEmpty(t, r.Header.Get("User-Agent"))
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			got, err := NewGeocoder(srv.URL, srv.Client()).Reverse(context.Background(), 1, 2)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type fakeFetcher struct {
	payload domain.WeatherPayload
	err     error
}

func (f fakeFetcher) Current(context.Context, float64, float64, string) (domain.WeatherPayload, error) {
	return f.payload, f.err
}

type fakeGeocoder struct {
	name string
	err  error
}

func (f fakeGeocoder) Reverse(context.Context, float64, float64) (string, error) {
	return f.name, f.err
}

func TestServiceFallbackChain(t *testing.T) {
	live := domain.WeatherPayload{TemperatureCelsius: 12, LocationName: "Oslo", ConditionCode: 600}
	cached := domain.WeatherPayload{TemperatureCelsius: 30, LocationName: "Seville", ConditionCode: 800}
	down := &domain.NetworkError{Op: "fetch weather", Err: errors.New("down")}
	here := &Coords{Lat: 1, Lon: 2}

	tests := []struct {
		name       string
		fetcher    fakeFetcher
		geocoder   fakeGeocoder
		coords     *Coords
		seedCache  bool
		wantSource domain.WeatherSource
		wantName   string
		wantMsg    string
	}{
		{"live", fakeFetcher{payload: live}, fakeGeocoder{}, here, false, domain.WeatherLive, "Oslo", ""},
		{"geocoded", fakeFetcher{err: down}, fakeGeocoder{name: "Bergen"}, here, true, domain.WeatherGeocoded, "Bergen", MsgApproximate},
		{"cache", fakeFetcher{err: down}, fakeGeocoder{err: down}, here, true, domain.WeatherCached, "Seville", MsgCached},
		{"mock", fakeFetcher{err: down}, fakeGeocoder{err: down}, here, false, domain.WeatherMock, "New York, NY", ""},
		{"no location with cache", fakeFetcher{payload: live}, fakeGeocoder{}, nil, true, domain.WeatherCached, "Seville", MsgNoLocation},
		{"no location", fakeFetcher{payload: live}, fakeGeocoder{}, nil, false, domain.WeatherMock, "New York, NY", MsgNoLocation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			c := &clock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
			cache := newCache(c)
			if tt.seedCache {
				require.NoError(t, cache.RecordSuccess(ctx, cached))
				c.t = c.t.Add(time.Hour)
			}

			svc := NewService(tt.fetcher, tt.geocoder, cache, func() string { return "k" }, logger.NewNop())
			svc.intn = func(int) int { return 5 }

			got := svc.Current(ctx, tt.coords)
			assert.Equal(t, tt.wantSource, got.Source)
			assert.Equal(t, tt.wantName, got.LocationName)
			assert.Equal(t, tt.wantMsg, got.Message)
			assert.Equal(t, got, svc.Last())

			if tt.wantSource == domain.WeatherGeocoded {
				assert.Equal(t, 20.0, got.TemperatureCelsius)
				assert.Equal(t, "clear", got.Icon)
			}
		})
	}
}

func TestServiceLiveUpdatesCache(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	cache := newCache(c)
	live := domain.WeatherPayload{TemperatureCelsius: 12, LocationName: "Oslo", ConditionCode: 600}

	svc := NewService(fakeFetcher{payload: live}, fakeGeocoder{}, cache, func() string { return "k" }, logger.NewNop())
	require.NoError(t, svc.Refresh(ctx, Coords{Lat: 1, Lon: 2}))

	got, ok := cache.ReadIfFresh(ctx)
	require.True(t, ok)
	assert.Equal(t, live, got)
	assert.Equal(t, "snow", svc.Last().Icon)
}
