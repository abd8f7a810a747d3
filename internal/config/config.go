package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig is the process configuration, read from the environment.
type AppConfig struct {
	OpenWeatherAPIKey string

	// GeocoderAPIKey enables location detection; empty disables it.
	GeocoderAPIKey string

	// RedisURL enables persistent storage; empty falls back to the
	// in-memory store.
	RedisURL string

	// Device position stand-in, reverse-geocoded to the detected city.
	LocationLat float64
	LocationLon float64

	// RefreshInterval controls the periodic saved-city refresh.
	RefreshInterval time.Duration

	// LocationInterval controls how often the position is re-resolved.
	LocationInterval time.Duration

	// HTTPTimeout bounds outbound provider calls.
	HTTPTimeout time.Duration

	// Timezone used for daily forecast aggregation.
	Zone *time.Location

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}
	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")
	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.Port = getenvDefault("PORT", "8080")

	var err error
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "15m"); err != nil {
		return nil, err
	}
	if cfg.LocationInterval, err = getenvDuration("LOCATION_INTERVAL", "15m"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}

	cfg.LocationLat = getenvFloat("LOCATION_LAT", 0)
	cfg.LocationLon = getenvFloat("LOCATION_LON", 0)

	zoneName := getenvDefault("TIMEZONE", "Local")
	zone, err := time.LoadLocation(zoneName)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.Zone = zone

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
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
