package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all service settings, populated from environment
// variables with defaults matching the Lyall Bay deployment.
type AppConfig struct {
	// Site coordinates the providers are queried for.
	Latitude  float64
	Longitude float64

	// Timezone the 24-hour day window is aligned to.
	Timezone *time.Location

	// WorldTidesAPIKey enables the authoritative tide providers.
	// Empty means not configured; the harmonic fallback covers tides.
	WorldTidesAPIKey string

	// ProviderTimeout bounds each individual adapter call.
	ProviderTimeout time.Duration

	// RefreshInterval controls the periodic re-assembly of today.
	RefreshInterval time.Duration

	// MaxPastDays/MaxFutureDays bound the day-offset window the API
	// accepts.
	MaxPastDays   int
	MaxFutureDays int

	// StoreMaxAge hides datasets that have not been refreshed.
	StoreMaxAge time.Duration

	// SyntheticSeed varies the synthetic estimator's jitter.
	SyntheticSeed int64

	Port        string
	MetricsAddr string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		Latitude:         getenvFloat("SITE_LATITUDE", -41.327),
		Longitude:        getenvFloat("SITE_LONGITUDE", 174.794),
		WorldTidesAPIKey: os.Getenv("WORLDTIDES_API_KEY"),
		MaxPastDays:      getenvInt("MAX_PAST_DAYS", 7),
		MaxFutureDays:    getenvInt("MAX_FUTURE_DAYS", 7),
		SyntheticSeed:    int64(getenvInt("SYNTHETIC_SEED", 1)),
		Port:             getenvDefault("PORT", "8080"),
		MetricsAddr:      getenvDefault("METRICS_ADDR", ":9090"),
	}

	tzName := getenvDefault("SITE_TIMEZONE", "Pacific/Auckland")
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid SITE_TIMEZONE %q: %w", tzName, err)
	}
	cfg.Timezone = tz

	cfg.ProviderTimeout, err = getenvDuration("PROVIDER_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "30m")
	if err != nil {
		return nil, err
	}

	cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "24h")
	if err != nil {
		return nil, err
	}

	if cfg.MaxPastDays < 0 || cfg.MaxFutureDays < 0 {
		return nil, fmt.Errorf("day window bounds must be non-negative")
	}

	return cfg, nil
}

// TideConfigured reports whether the authoritative tide providers have
// a credential. There is no placeholder probing: an empty key means
// the adapters are simply not constructed.
func (c *AppConfig) TideConfigured() bool {
	return c.WorldTidesAPIKey != ""
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	v := getenvDefault(key, def)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
