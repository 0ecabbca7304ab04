// Package config loads the application configuration from an optional YAML
// file with environment variable overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rubiojr/gasfinder/internal/geocode"
	"github.com/rubiojr/gasfinder/pkg/api"
)

// Config is the application configuration.
type Config struct {
	Feeds    FeedsConfig    `yaml:"feeds"`
	Geocoder GeocoderConfig `yaml:"geocoder"`
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Language string         `yaml:"language"`
}

// FeedsConfig holds the upstream open-data endpoints.
type FeedsConfig struct {
	StationsURL       string `yaml:"stations_url"`
	MunicipalitiesURL string `yaml:"municipalities_url"`
}

// GeocoderConfig holds the Nominatim endpoint and the identifying
// User-Agent sent with every geocoding request.
type GeocoderConfig struct {
	URL       string `yaml:"url"`
	UserAgent string `yaml:"user_agent"`
}

// DatabaseConfig holds the SQLite database location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// UpdateSchedule is a cron expression for the periodic feed refresh.
	UpdateSchedule string `yaml:"update_schedule"`
	// RateLimit is the per-IP request budget per minute.
	RateLimit int `yaml:"rate_limit"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Feeds: FeedsConfig{
			StationsURL:       api.DefaultStationsURL,
			MunicipalitiesURL: api.DefaultMunicipalitiesURL,
		},
		Geocoder: GeocoderConfig{
			URL:       geocode.DefaultServer,
			UserAgent: geocode.DefaultUserAgent,
		},
		Database: DatabaseConfig{
			Path: "fuel_prices.db",
		},
		Server: ServerConfig{
			Addr:           "127.0.0.1:8080",
			UpdateSchedule: "0 */6 * * *",
			RateLimit:      20,
		},
		Language: "es",
	}
}

// Load reads the configuration from path, falling back to Default when the
// file does not exist, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// no file, defaults apply
	case err != nil:
		return Config{}, fmt.Errorf("error reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("GASFINDER_DB"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("GASFINDER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("GASFINDER_LANG"); v != "" {
		cfg.Language = v
	}
	if v := os.Getenv("GASFINDER_GEOCODER_URL"); v != "" {
		cfg.Geocoder.URL = v
	}
	if v := os.Getenv("GASFINDER_USER_AGENT"); v != "" {
		cfg.Geocoder.UserAgent = v
	}
}
