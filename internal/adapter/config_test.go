package adapter

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero page size", func(c *Config) { c.Feed.PageSize = 0 }},
		{"threshold above one", func(c *Config) { c.Feed.Threshold = 1.5 }},
		{"negative image threshold", func(c *Config) { c.Images.Threshold = -0.1 }},
		{"bad margin", func(c *Config) { c.Images.RootMargin = "ten" }},
		{"overflowing margin", func(c *Config) { c.Feed.RootMargin = "1e30px" }},
		{"non-finite margin", func(c *Config) { c.Images.RootMargin = "NaNpx" }},
		{"zero image size", func(c *Config) { c.Images.Width = 0 }},
		{"unknown page", func(c *Config) { c.UI.DefaultPage = "settings" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
feed:
  page_size: 5
  root_margin: "1px 0px"
images:
  latency: 10ms
cache:
  enabled: false
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Feed.PageSize != 5 || cfg.Feed.RootMargin != "1px 0px" {
		t.Errorf("feed = %+v", cfg.Feed)
	}
	if cfg.Images.Latency != 10*time.Millisecond {
		t.Errorf("images.latency = %v", cfg.Images.Latency)
	}
	if cfg.CacheDir() != "" {
		t.Errorf("CacheDir = %q with cache disabled", cfg.CacheDir())
	}
	// Untouched keys keep their defaults.
	if cfg.Images.Width != DefaultConfig().Images.Width {
		t.Errorf("images.width = %d", cfg.Images.Width)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("feed:\n  page_size: 5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HACKBOARD_FEED_PAGE_SIZE", "9")
	t.Setenv("HACKBOARD_IMAGES_ROOT_MARGIN", "3px")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Feed.PageSize != 9 || cfg.Images.RootMargin != "3px" {
		t.Fatalf("env overrides not applied: %+v %+v", cfg.Feed, cfg.Images)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("feed:\n  threshold: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Feed.PageSize = 20
	cfg.UI.DefaultPage = "calendar"

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Feed.PageSize != 20 || loaded.UI.DefaultPage != "calendar" {
		t.Fatalf("round trip lost values: %+v %+v", loaded.Feed, loaded.UI)
	}
	if loaded.UI.Transition != cfg.UI.Transition {
		t.Fatalf("transition = %v, want %v", loaded.UI.Transition, cfg.UI.Transition)
	}
}

func TestParseLogLevel(t *testing.T) {
	if ParseLogLevel("debug").String() != "DEBUG" || ParseLogLevel("nope").String() != "INFO" {
		t.Fatal("unexpected level mapping")
	}
}
