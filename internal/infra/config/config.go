// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Storage     StorageConfig     `yaml:"storage"`
	Session     SessionConfig     `yaml:"session"`
	Classifiers ClassifiersConfig `yaml:"classifiers"`
	Recommend   RecommendConfig   `yaml:"recommend"`
	Playback    PlaybackConfig    `yaml:"playback"`
	Export      ExportConfig      `yaml:"export"`
}

// ServerConfig represents server configuration.
type ServerConfig struct {
	Addr               string `yaml:"addr" default:":8080"`
	MetricsPath        string `yaml:"metrics_path" default:"/metrics" validate:"startswith=/"`
	ShutdownTimeoutSec int    `yaml:"shutdown_timeout_sec" default:"10" validate:"gte=1,lte=120"`
}

// StorageConfig selects the repository backend.
type StorageConfig struct {
	Driver string `yaml:"driver" default:"sqlite" validate:"oneof=memory sqlite"`
	DSN    string `yaml:"dsn" default:"moodtunes.db"`
}

// SessionConfig represents session-related configuration.
type SessionConfig struct {
	HistorySize              int `yaml:"history_size" default:"10" validate:"gte=1,lte=100"`
	ClassificationTimeoutSec int `yaml:"classification_timeout_sec" default:"10" validate:"gte=1,lte=300"`
	LoginDelayMs             int `yaml:"login_delay_ms" default:"1500" validate:"gte=0,lte=30000"`
}

// ClassifiersConfig holds one strategy per modality.
type ClassifiersConfig struct {
	Text   StrategyConfig `yaml:"text"`
	Emoji  StrategyConfig `yaml:"emoji"`
	Camera StrategyConfig `yaml:"camera"`
}

// StrategyConfig names a strategy type and its free-form settings.
type StrategyConfig struct {
	Type     string         `yaml:"type"`
	Settings map[string]any `yaml:"settings,omitempty"`
}

// RecommendConfig represents recommendation engine configuration.
type RecommendConfig struct {
	Strategy  string                  `yaml:"strategy" default:"vector" validate:"oneof=vector seeded"`
	Seed      int64                   `yaml:"seed" default:"42"`
	LatencyMs int                     `yaml:"latency_ms" default:"1000" validate:"gte=0,lte=30000"`
	Filters   map[string]FilterConfig `yaml:"filters"`
}

// FilterConfig represents a filter's configuration.
type FilterConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Settings map[string]any `yaml:"settings,omitempty"`
}

// PlaybackConfig represents playback control configuration.
// DefaultVolume is a pointer so an explicit 0 survives defaults.Set.
type PlaybackConfig struct {
	TickIntervalMs int  `yaml:"tick_interval_ms" default:"1000" validate:"gte=0,lte=60000"`
	DefaultVolume  *int `yaml:"default_volume" default:"75" validate:"omitempty,gte=0,lte=100"`
}

const defaultVolume = 75

// Volume returns the configured initial volume.
func (c PlaybackConfig) Volume() int {
	if c.DefaultVolume == nil {
		return defaultVolume
	}
	return *c.DefaultVolume
}

// ExportConfig represents export configuration.
type ExportConfig struct {
	ExternalDelayMs int    `yaml:"external_delay_ms" default:"2000" validate:"gte=0,lte=60000"`
	ExternalBaseURL string `yaml:"external_base_url" default:"https://open.spotify.com/playlist" validate:"url"`
	ShareBaseURL    string `yaml:"share_base_url" default:"https://moodtunes.app/share" validate:"url"`
	Retention       string `yaml:"retention" default:"24h"`
	PruneSchedule   string `yaml:"prune_schedule" default:"@every 10m"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	return Parse(data)
}

// Parse builds a configuration from YAML bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	_ = defaults.Set(&cfg)
	return &cfg
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("MOODTUNES_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("MOODTUNES_STORAGE_DRIVER"); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv("MOODTUNES_DB_DSN"); v != "" {
		c.Storage.DSN = v
	}
	if v := os.Getenv("MOODTUNES_SHARE_BASE_URL"); v != "" {
		c.Export.ShareBaseURL = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	if c.Export.Retention != "" {
		if _, err := time.ParseDuration(c.Export.Retention); err != nil {
			return errors.Wrap(err, "failed to parse export.retention")
		}
	}

	return nil
}

// RetentionDuration returns the parsed export job retention.
// Zero means finished jobs are kept forever.
func (c *Config) RetentionDuration() time.Duration {
	d, err := time.ParseDuration(c.Export.Retention)
	if err != nil {
		return 0
	}
	return d
}

// IsFilterEnabled checks if a recommendation filter is enabled.
func (c *Config) IsFilterEnabled(filterName string) bool {
	if f, ok := c.Recommend.Filters[filterName]; ok {
		return f.Enabled
	}
	return false
}

// FilterSettings returns the settings for a recommendation filter.
func (c *Config) FilterSettings(filterName string) map[string]any {
	if f, ok := c.Recommend.Filters[filterName]; ok {
		return f.Settings
	}
	return nil
}
