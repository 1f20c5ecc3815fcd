package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all client settings, populated from environment
// variables (optionally seeded from a .env file).
type Config struct {
	GeocodingURL string
	ForecastURL  string
	HTTPTimeout  time.Duration

	GeoIPURL     string
	GeoIPTimeout time.Duration

	// StatePath is the SQLite file holding the persisted session.
	StatePath string

	// DebugAddr enables the /healthz, /metrics, /state server when
	// non-empty.
	DebugAddr string

	LogLevel  string
	LogFormat string
	LogFile   string
}

// Load reads configuration from the environment, applying defaults
// where unset. A .env file in the working directory is honored but not
// required.
func Load() (*Config, error) {
	// Missing .env is the normal case, not an error.
	_ = godotenv.Load()

	httpTimeout, err := envDuration("SKYCAST_HTTP_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	// The original geolocation flow gave the browser 8 seconds; the IP
	// lookup gets the same budget.
	geoTimeout, err := envDuration("SKYCAST_GEOIP_TIMEOUT", 8*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		GeocodingURL: envOrDefault("SKYCAST_GEOCODING_URL", "https://geocoding-api.open-meteo.com/v1/search"),
		ForecastURL:  envOrDefault("SKYCAST_FORECAST_URL", "https://api.open-meteo.com/v1/forecast"),
		HTTPTimeout:  httpTimeout,
		GeoIPURL:     envOrDefault("SKYCAST_GEOIP_URL", "http://ip-api.com/json"),
		GeoIPTimeout: geoTimeout,
		StatePath:    envOrDefault("SKYCAST_STATE_PATH", defaultStatePath()),
		DebugAddr:    os.Getenv("SKYCAST_DEBUG_ADDR"),
		LogLevel:     envOrDefault("SKYCAST_LOG_LEVEL", "info"),
		LogFormat:    envOrDefault("SKYCAST_LOG_FORMAT", "json"),
		LogFile:      os.Getenv("SKYCAST_LOG_FILE"),
	}

	if cfg.GeocodingURL == "" {
		return nil, errors.New("SKYCAST_GEOCODING_URL is required")
	}
	if cfg.ForecastURL == "" {
		return nil, errors.New("SKYCAST_FORECAST_URL is required")
	}
	if cfg.StatePath == "" {
		return nil, errors.New("SKYCAST_STATE_PATH is required")
	}

	return cfg, nil
}

// defaultStatePath places the session database under the user config
// directory, falling back to the working directory.
func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "skycast.db"
	}
	return filepath.Join(dir, "skycast", "skycast.db")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}
