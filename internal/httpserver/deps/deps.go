package deps

import (
	"time"

	"github.com/MrSnakeDoc/newtab/internal/dashboard"
	"github.com/MrSnakeDoc/newtab/internal/kv"
	"github.com/MrSnakeDoc/newtab/internal/logger"
	"github.com/MrSnakeDoc/newtab/internal/metadata"
	"github.com/MrSnakeDoc/newtab/internal/weather"
)

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	TimeNow        func() time.Time     // for testing, defaults to time.Now
	AllowedHosts   []string             // Host headers allowed to access the server
	AllowedCIDRS   []string             // IPs allowed to access healthz/readyz/infra and reload
	CORSOrigins    []string             // browser origins allowed to call the API
	TrustProxy     bool                 // true if running behind a trusted reverse proxy (e.g., cloudflared)
	RateBurst      int                  // per-IP burst for the API rate limit
	RateRefill     int                  // per-IP refill per minute
	Storage        string               // backend name: memory, redis or sqlite
	Backend        kv.Backend           // raw backend, pinged by readyz/infra
	Dashboard      *dashboard.Dashboard // the stores
	Weather        *weather.Service     // fallback chain
	Metadata       *metadata.Resolver   // title/icon lookup for bookmarks
	WeatherTrigger chan struct{}        // manual weather refresh (nil if no default location)
	ImportTrigger  chan struct{}        // manual homepage import (nil if no homepage files)
	LastImport     func() time.Time     // last homepage import, nil if disabled
}

// Now returns the current time through TimeNow when set.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
