package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request timeout, covers outbound weather calls

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Storage
	Storage     string // "memory" | "redis" | "sqlite"
	SQLitePath  string // database file for the sqlite backend
	MemoryQuota int    // byte budget of the memory backend (0 = unlimited)

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	// Weather
	WeatherAPIURL   string        // OpenWeatherMap root
	GeocoderURL     string        // Nominatim root
	WeatherAPIKey   string        // used when the user saved no key of their own
	DefaultLat      *float64      // location refreshed in the background (nil = no refresher)
	DefaultLon      *float64      //
	WeatherInterval time.Duration // background refresh interval (default: 30m)
	HTTPTimeout     time.Duration // timeout of a single outbound request

	// Homepage import
	ServiceFile    string        // path to homepage services.yaml (optional)
	BookmarkFile   string        // path to homepage bookmarks.yaml (optional)
	ImportInterval time.Duration // interval to re-import the files (default: 24h)

	ConfirmTTL time.Duration // lifetime of a destructive-action confirmation token

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict access to health/infra endpoints
	CORSOrigins  []string // optional, origins allowed to call the API from a browser
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)

	RateLimitBurst  int // requests allowed in a burst per client IP
	RateLimitRefill int // tokens refilled per client IP per minute
}

// Load reads the configuration from the environment. Variables from the
// file named by NEWTAB_ENV_FILE (default .env) are loaded first without
// overriding ones already set; a missing file is ignored.
func Load() (*Config, error) {
	envFile := getenv("NEWTAB_ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("NEWTAB_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("NEWTAB_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("NEWTAB_REQUEST_TIMEOUT", 15*time.Second),

		// Logging
		LogLevel:  getenv("NEWTAB_LOG_LEVEL", "info"),
		PrettyLog: mustBool("NEWTAB_PRETTY_LOG", true),

		// Storage
		Storage:     strings.ToLower(getenv("NEWTAB_STORAGE", StorageSQLite)),
		SQLitePath:  getenv("NEWTAB_SQLITE_PATH", "data/newtab.db"),
		MemoryQuota: getenvInt("NEWTAB_MEMORY_QUOTA", 5<<20),

		// Redis settings
		RedisAddr:             getenv("NEWTAB_REDIS_ADDR", "localhost:6379"),
		RedisUser:             getenv("NEWTAB_REDIS_USERNAME", ""),
		RedisPasswordRequired: mustBool("NEWTAB_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("NEWTAB_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("NEWTAB_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Weather
		WeatherAPIURL:   getenv("NEWTAB_WEATHER_API_URL", "https://api.openweathermap.org"),
		GeocoderURL:     getenv("NEWTAB_GEOCODER_URL", "https://nominatim.openstreetmap.org"),
		WeatherAPIKey:   getenv("NEWTAB_WEATHER_API_KEY", ""),
		DefaultLat:      getenvFloat("NEWTAB_DEFAULT_LAT"),
		DefaultLon:      getenvFloat("NEWTAB_DEFAULT_LON"),
		WeatherInterval: mustDuration("NEWTAB_WEATHER_INTERVAL", 30*time.Minute),
		HTTPTimeout:     mustDuration("NEWTAB_HTTP_TIMEOUT", 5*time.Second),

		// Homepage import
		ServiceFile:    getenv("NEWTAB_SERVICE_FILE", ""),
		BookmarkFile:   getenv("NEWTAB_BOOKMARK_FILE", ""),
		ImportInterval: mustDuration("NEWTAB_IMPORT_INTERVAL", 24*time.Hour),

		ConfirmTTL: mustDuration("NEWTAB_CONFIRM_TTL", 2*time.Minute),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("NEWTAB_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("NEWTAB_ALLOWED_CIDRS", "")),
		CORSOrigins:  splitAndTrim(getenv("NEWTAB_CORS_ORIGINS", "")),
		TrustProxy:   mustBool("NEWTAB_TRUST_PROXY", false),

		RateLimitBurst:  getenvInt("NEWTAB_RATE_LIMIT_BURST", 60),
		RateLimitRefill: getenvInt("NEWTAB_RATE_LIMIT_REFILL", 120),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg, nil
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.RedisPassword != "" {
		c.RedisPassword = "***REDACTED***"
	}
	if c.RedisUser != "" {
		c.RedisUser = "***REDACTED***"
	}
	if c.WeatherAPIKey != "" {
		c.WeatherAPIKey = "***REDACTED***"
	}
	return c
}

// HasDefaultLocation reports whether both default coordinates are set.
func (c *Config) HasDefaultLocation() bool {
	return c.DefaultLat != nil && c.DefaultLon != nil
}

func (c *Config) validate() error {
	switch c.Storage {
	case StorageMemory, StorageSQLite:
	case StorageRedis:
		if c.RedisAddr == "" {
			return errors.New("NEWTAB_REDIS_ADDR is required when NEWTAB_STORAGE=redis")
		}
		if c.RedisPasswordRequired && c.RedisPassword == "" {
			return errors.New("NEWTAB_REDIS_PASSWORD is required when NEWTAB_REDIS_PASSWORD_REQUIRED=true")
		}
	default:
		return fmt.Errorf("NEWTAB_STORAGE must be memory, redis or sqlite, got %q", c.Storage)
	}

	if (c.DefaultLat == nil) != (c.DefaultLon == nil) {
		return errors.New("NEWTAB_DEFAULT_LAT and NEWTAB_DEFAULT_LON must be set together")
	}
	if c.DefaultLat != nil && (*c.DefaultLat < -90 || *c.DefaultLat > 90) {
		return fmt.Errorf("NEWTAB_DEFAULT_LAT out of range: %v", *c.DefaultLat)
	}
	if c.DefaultLon != nil && (*c.DefaultLon < -180 || *c.DefaultLon > 180) {
		return fmt.Errorf("NEWTAB_DEFAULT_LON out of range: %v", *c.DefaultLon)
	}
	return nil
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvFloat(key string) *float64 {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return nil
	}
	return &f
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
