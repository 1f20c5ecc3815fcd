package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://geocoding-api.open-meteo.com/v1/search", cfg.GeocodingURL)
	assert.Equal(t, "https://api.open-meteo.com/v1/forecast", cfg.ForecastURL)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "http://ip-api.com/json", cfg.GeoIPURL)
	assert.Equal(t, 8*time.Second, cfg.GeoIPTimeout)
	assert.NotEmpty(t, cfg.StatePath)
	assert.Empty(t, cfg.DebugAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("SKYCAST_GEOCODING_URL", "http://localhost:8081/search")
	t.Setenv("SKYCAST_FORECAST_URL", "http://localhost:8081/forecast")
	t.Setenv("SKYCAST_HTTP_TIMEOUT", "3s")
	t.Setenv("SKYCAST_GEOIP_TIMEOUT", "2s")
	t.Setenv("SKYCAST_STATE_PATH", "/tmp/test-skycast.db")
	t.Setenv("SKYCAST_DEBUG_ADDR", ":9090")
	t.Setenv("SKYCAST_LOG_LEVEL", "debug")
	t.Setenv("SKYCAST_LOG_FORMAT", "text")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8081/search", cfg.GeocodingURL)
	assert.Equal(t, "http://localhost:8081/forecast", cfg.ForecastURL)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 2*time.Second, cfg.GeoIPTimeout)
	assert.Equal(t, "/tmp/test-skycast.db", cfg.StatePath)
	assert.Equal(t, ":9090", cfg.DebugAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("SKYCAST_HTTP_TIMEOUT", "not-a-duration")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SKYCAST_HTTP_TIMEOUT")
}

func TestLoad_NegativeDuration(t *testing.T) {
	t.Setenv("SKYCAST_GEOIP_TIMEOUT", "-5s")

	_, err := Load()
	require.Error(t, err)
}
