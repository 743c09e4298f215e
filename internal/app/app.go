package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/newtab/internal/config"
	"github.com/MrSnakeDoc/newtab/internal/confirm"
	"github.com/MrSnakeDoc/newtab/internal/dashboard"
	"github.com/MrSnakeDoc/newtab/internal/httpserver"
	"github.com/MrSnakeDoc/newtab/internal/httpserver/deps"
	"github.com/MrSnakeDoc/newtab/internal/kv"
	"github.com/MrSnakeDoc/newtab/internal/logger"
	"github.com/MrSnakeDoc/newtab/internal/metadata"
	"github.com/MrSnakeDoc/newtab/internal/retry"
	"github.com/MrSnakeDoc/newtab/internal/scheduler"
	"github.com/MrSnakeDoc/newtab/internal/utils"
	"github.com/MrSnakeDoc/newtab/internal/version"
	"github.com/MrSnakeDoc/newtab/internal/weather"
)

// runner is a background job started with the server and stopped on shutdown.
type runner interface {
	Start(ctx context.Context) error
	Stop()
}

type App struct {
	cfg       *config.Config
	logger    logger.Logger
	backend   kv.Backend
	dashboard *dashboard.Dashboard
	server    *httpserver.Server
	jobs      map[string]runner
}

// New opens storage, loads the stores and wires the HTTP server and the
// background jobs. Nothing runs until Run is called.
func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	backend, err := OpenBackend(ctx, cfg, cfg.Storage, logger.Named(loggerClient, "storage"))
	if err != nil {
		return nil, err
	}
	loggerClient.Info("storage initialized", logger.String("backend", cfg.Storage))

	gate := confirm.NewGate(cfg.ConfirmTTL, nil)
	dash := dashboard.New(ctx, kv.New(backend, loggerClient), gate, loggerClient, nil)

	hc := &http.Client{Timeout: cfg.HTTPTimeout}
	weatherLog := logger.Named(loggerClient, "weather")
	weatherSvc := weather.NewService(
		weather.NewClient(cfg.WeatherAPIURL, hc, retry.DefaultConfig(), weatherLog),
		weather.NewGeocoder(cfg.GeocoderURL, hc),
		dash.Weather,
		func() string { return dash.Prefs.WeatherAPIKey(cfg.WeatherAPIKey) },
		weatherLog,
	)

	jobs := map[string]runner{
		"confirm sweeper": scheduler.NewConfirmSweeper(gate, loggerClient, scheduler.DefaultSweepInterval),
	}

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:       loggerClient,
		StartTime:    time.Now(),
		Version:      version.Version,
		Commit:       version.Commit,
		BuildDate:    version.BuildDate,
		GoVersion:    version.GoVersion,
		TimeNow:      time.Now,
		AllowedHosts: cfg.AllowedHosts,
		AllowedCIDRS: cfg.AllowedCIDRS,
		CORSOrigins:  cfg.CORSOrigins,
		TrustProxy:   cfg.TrustProxy,
		RateBurst:    cfg.RateLimitBurst,
		RateRefill:   cfg.RateLimitRefill,
		Storage:      cfg.Storage,
		Backend:      backend,
		Dashboard:    dash,
		Weather:      weatherSvc,
		Metadata:     metadata.NewResolver(hc, cfg.HTTPTimeout, logger.Named(loggerClient, "metadata")),
	}

	if cfg.HasDefaultLocation() {
		d.WeatherTrigger = make(chan struct{}, 1)
		jobs["weather refresher"] = scheduler.NewWeatherRefresher(
			weatherSvc,
			weather.Coords{Lat: *cfg.DefaultLat, Lon: *cfg.DefaultLon},
			weatherLog,
			cfg.WeatherInterval,
			d.WeatherTrigger,
		)
	} else {
		loggerClient.Info("no default location configured, background weather refresh disabled")
	}

	if cfg.ServiceFile != "" || cfg.BookmarkFile != "" {
		d.ImportTrigger = make(chan struct{}, 1)
		importer := scheduler.NewHomepageImporter(
			cfg.ServiceFile,
			cfg.BookmarkFile,
			dash.Sites,
			dash.Bookmarks,
			logger.Named(loggerClient, "homepage"),
			cfg.ImportInterval,
			d.ImportTrigger,
		)
		d.LastImport = importer.LastImport
		jobs["homepage importer"] = importer
	}

	return &App{
		cfg:       cfg,
		logger:    loggerClient,
		backend:   backend,
		dashboard: dash,
		server:    httpserver.New(cfg, loggerClient, d),
		jobs:      jobs,
	}, nil
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("🚀 Starting newtab %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info(version.String())

	defer utils.CloseWithLog(a.backend, a.logger, "storage")

	for name, job := range a.jobs {
		if err := job.Start(ctx); err != nil {
			return fmt.Errorf("failed to start %s: %w", name, err)
		}
		a.logger.Info(name + " started")
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
	}

	for _, job := range a.jobs {
		job.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}

	if runErr == nil {
		a.logger.Info("✅ newtab stopped cleanly")
	}
	return runErr
}

