package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.InDelta(t, -41.327, cfg.Latitude, 1e-9)
	assert.InDelta(t, 174.794, cfg.Longitude, 1e-9)
	assert.Equal(t, "Pacific/Auckland", cfg.Timezone.String())
	assert.Equal(t, 30*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, 30*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, 24*time.Hour, cfg.StoreMaxAge)
	assert.Equal(t, 7, cfg.MaxPastDays)
	assert.Equal(t, 7, cfg.MaxFutureDays)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.False(t, cfg.TideConfigured())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SITE_LATITUDE", "-36.85")
	t.Setenv("SITE_TIMEZONE", "UTC")
	t.Setenv("WORLDTIDES_API_KEY", "abc123")
	t.Setenv("REFRESH_INTERVAL", "10m")
	t.Setenv("MAX_FUTURE_DAYS", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.InDelta(t, -36.85, cfg.Latitude, 1e-9)
	assert.Equal(t, time.UTC, cfg.Timezone)
	assert.Equal(t, 10*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, 3, cfg.MaxFutureDays)
	assert.True(t, cfg.TideConfigured())
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	t.Setenv("SITE_TIMEZONE", "Atlantis/Nowhere")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("PROVIDER_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsNegativeWindow(t *testing.T) {
	t.Setenv("MAX_PAST_DAYS", "-1")

	_, err := Load()
	assert.Error(t, err)
}
