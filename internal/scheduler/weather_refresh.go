package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/newtab/internal/logger"
	"github.com/MrSnakeDoc/newtab/internal/weather"
)

// WeatherSource is the part of weather.Service the refresher drives.
type WeatherSource interface {
	Refresh(ctx context.Context, coords weather.Coords) error
}

// WeatherRefresher keeps the weather cache warm for the default location so
// the fallback chain has a recent snapshot to serve.
type WeatherRefresher struct {
	source        WeatherSource
	coords        weather.Coords
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewWeatherRefresher creates a refresher for coords.
func NewWeatherRefresher(
	source WeatherSource,
	coords weather.Coords,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *WeatherRefresher {
	return &WeatherRefresher{
		source:        source,
		coords:        coords,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start refreshes in the background right away and then on every tick or
// manual trigger. Network calls never block startup.
func (wr *WeatherRefresher) Start(ctx context.Context) error {
	ticker := time.NewTicker(wr.interval)
	go func() {
		defer ticker.Stop()
		wr.refresh(ctx)
		for {
			select {
			case <-ticker.C:
				wr.refresh(ctx)
			case <-wr.manualTrigger:
				wr.logger.Info("manual weather refresh triggered")
				wr.refresh(ctx)
			case <-wr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the refresher.
func (wr *WeatherRefresher) Stop() {
	close(wr.stopCh)
}

func (wr *WeatherRefresher) refresh(ctx context.Context) {
	start := time.Now()
	if err := wr.source.Refresh(ctx, wr.coords); err != nil {
		wr.logger.Warn("weather refresh failed", logger.Error(err))
		return
	}
	wr.logger.Debug("weather refreshed", logger.Duration("took", time.Since(start)))
}
