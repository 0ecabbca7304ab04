package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rubiojr/gasfinder/pkg/api"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yml"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg != Default() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
	if cfg.Feeds.StationsURL != api.DefaultStationsURL {
		t.Errorf("unexpected stations URL: %s", cfg.Feeds.StationsURL)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gasfinder.yml")
	content := `
database:
  path: /var/lib/gasfinder/prices.db
server:
  addr: 0.0.0.0:9090
  rate_limit: 50
language: en
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Database.Path != "/var/lib/gasfinder/prices.db" {
		t.Errorf("unexpected database path: %s", cfg.Database.Path)
	}
	if cfg.Server.Addr != "0.0.0.0:9090" || cfg.Server.RateLimit != 50 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Language != "en" {
		t.Errorf("unexpected language: %s", cfg.Language)
	}
	// Settings the file omits keep their defaults.
	if cfg.Server.UpdateSchedule != "0 */6 * * *" {
		t.Errorf("unexpected update schedule: %s", cfg.Server.UpdateSchedule)
	}
	if cfg.Geocoder.UserAgent == "" {
		t.Error("geocoder user agent should default")
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gasfinder.yml")
	if err := os.WriteFile(path, []byte("database: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GASFINDER_DB", "/tmp/override.db")
	t.Setenv("GASFINDER_ADDR", "127.0.0.1:3000")
	t.Setenv("GASFINDER_LANG", "en")
	t.Setenv("GASFINDER_GEOCODER_URL", "http://localhost:8088")
	t.Setenv("GASFINDER_USER_AGENT", "gasfinder-test/1.0")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yml"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Database.Path != "/tmp/override.db" {
		t.Errorf("GASFINDER_DB not applied: %s", cfg.Database.Path)
	}
	if cfg.Server.Addr != "127.0.0.1:3000" {
		t.Errorf("GASFINDER_ADDR not applied: %s", cfg.Server.Addr)
	}
	if cfg.Language != "en" {
		t.Errorf("GASFINDER_LANG not applied: %s", cfg.Language)
	}
	if cfg.Geocoder.URL != "http://localhost:8088" || cfg.Geocoder.UserAgent != "gasfinder-test/1.0" {
		t.Errorf("geocoder overrides not applied: %+v", cfg.Geocoder)
	}
}
