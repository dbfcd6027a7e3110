package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/mmcdole/hackboard/internal/visibility"
	"github.com/spf13/viper"
)

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all application configuration
type Config struct {
	UI      UIConfig      `mapstructure:"ui"`
	Feed    FeedConfig    `mapstructure:"feed"`
	Images  ImagesConfig  `mapstructure:"images"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	DefaultPage string        `mapstructure:"default_page"` // "achievements" or "calendar"
	Transition  time.Duration `mapstructure:"transition"`   // Page switch fade, 0 disables
}

// FeedConfig controls the paged achievement feed
type FeedConfig struct {
	PageSize   int           `mapstructure:"page_size"`
	Threshold  float64       `mapstructure:"threshold"`   // Sentinel visible fraction
	RootMargin string        `mapstructure:"root_margin"` // Prefetch distance, e.g. "4px"
	Latency    time.Duration `mapstructure:"latency"`     // Simulated page latency
}

// ImagesConfig controls lazy badge images
type ImagesConfig struct {
	Width      int           `mapstructure:"width"`  // Cells
	Height     int           `mapstructure:"height"` // Cells
	Threshold  float64       `mapstructure:"threshold"`
	RootMargin string        `mapstructure:"root_margin"`
	Latency    time.Duration `mapstructure:"latency"` // Simulated retrieval latency
}

// CacheConfig controls the rendered frame cache
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Dir     string        `mapstructure:"dir"`
	MaxAge  time.Duration `mapstructure:"max_age"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			DefaultPage: "achievements",
			Transition:  240 * time.Millisecond,
		},
		Feed: FeedConfig{
			PageSize:   12,
			Threshold:  0.5,
			RootMargin: "4px",
			Latency:    600 * time.Millisecond,
		},
		Images: ImagesConfig{
			Width:      8,
			Height:     4,
			Threshold:  0.01,
			RootMargin: "2px",
			Latency:    350 * time.Millisecond,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     defaultCachePath(),
			MaxAge:  7 * 24 * time.Hour,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// Validate checks ranges and margin syntax
func (c *Config) Validate() error {
	var errs []error
	if c.Feed.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("feed.page_size must be positive, got %d", c.Feed.PageSize))
	}
	if c.Images.Width <= 0 || c.Images.Height <= 0 {
		errs = append(errs, fmt.Errorf("images size must be positive, got %dx%d", c.Images.Width, c.Images.Height))
	}
	for name, t := range map[string]float64{"feed.threshold": c.Feed.Threshold, "images.threshold": c.Images.Threshold} {
		if t < 0 || t > 1 {
			errs = append(errs, fmt.Errorf("%s must be within [0, 1], got %v", name, t))
		}
	}
	for name, m := range map[string]string{"feed.root_margin": c.Feed.RootMargin, "images.root_margin": c.Images.RootMargin} {
		if _, err := visibility.ParseMargin(m); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	switch c.UI.DefaultPage {
	case "achievements", "calendar":
	default:
		errs = append(errs, fmt.Errorf("ui.default_page must be achievements or calendar, got %q", c.UI.DefaultPage))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "hackboard", "hackboard.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "hackboard", "hackboard.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "hackboard")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "hackboard")
	}
}

// DefaultConfigFile returns the config file LoadConfig finds first
func DefaultConfigFile() string {
	return filepath.Join(defaultConfigPath(), "config.yaml")
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "hackboard", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "hackboard", "cache")
	}
}

// LoadConfig loads configuration from file and environment. An empty path
// searches the default locations.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides (HACKBOARD_FEED_PAGE_SIZE etc.)
	v.SetEnvPrefix("HACKBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bindDefaults registers every key so AutomaticEnv can override keys that
// are absent from the file.
func bindDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("ui.default_page", cfg.UI.DefaultPage)
	v.SetDefault("ui.transition", cfg.UI.Transition)

	v.SetDefault("feed.page_size", cfg.Feed.PageSize)
	v.SetDefault("feed.threshold", cfg.Feed.Threshold)
	v.SetDefault("feed.root_margin", cfg.Feed.RootMargin)
	v.SetDefault("feed.latency", cfg.Feed.Latency)

	v.SetDefault("images.width", cfg.Images.Width)
	v.SetDefault("images.height", cfg.Images.Height)
	v.SetDefault("images.threshold", cfg.Images.Threshold)
	v.SetDefault("images.root_margin", cfg.Images.RootMargin)
	v.SetDefault("images.latency", cfg.Images.Latency)

	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("cache.max_age", cfg.Cache.MaxAge)

	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// SaveConfig writes cfg to path, or to the default location when empty
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = DefaultConfigFile()
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Defaults are written out too, so the file documents every key
	v := viper.New()
	bindDefaults(v, cfg)
	for key, d := range map[string]time.Duration{
		"ui.transition":  cfg.UI.Transition,
		"feed.latency":   cfg.Feed.Latency,
		"images.latency": cfg.Images.Latency,
		"cache.max_age":  cfg.Cache.MaxAge,
	} {
		v.Set(key, d.String()) // "240ms" rather than nanoseconds
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ClearCache removes all cached frames from disk
func ClearCache(cfg *Config) error {
	if cfg.Cache.Dir == "" {
		return nil
	}
	if err := os.RemoveAll(cfg.Cache.Dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// CacheDir returns the frame cache directory, or "" when caching is disabled
func (c *Config) CacheDir() string {
	if !c.Cache.Enabled {
		return ""
	}
	return c.Cache.Dir
}
