// Package config loads ls-galilean settings from YAML with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/litescript/ls-galilean/internal/ephem"
	"github.com/litescript/ls-galilean/internal/events"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all ls-galilean configuration.
type Config struct {
	LogLevel string `yaml:"log_level"`

	Scan    ScanConfig    `yaml:"scan"`
	RedSpot RedSpotConfig `yaml:"red_spot"`
	Server  ServerConfig  `yaml:"server"`
	UI      UIConfig      `yaml:"ui"`
}

// ScanConfig configures event scans.
type ScanConfig struct {
	Hours    int    `yaml:"hours"`
	Interval string `yaml:"interval"`
	Lookback string `yaml:"lookback"`
	Workers  int    `yaml:"workers"` // 0 = GOMAXPROCS

	SuppressEclipsedReappearance bool `yaml:"suppress_eclipsed_reappearance"`
}

// RedSpotConfig locates the Great Red Spot.
type RedSpotConfig struct {
	Longitude float64 `yaml:"longitude"` // degrees
	System    int     `yaml:"system"`    // 1 or 2
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string  `yaml:"addr"`
	RateLimit      float64 `yaml:"rate_limit"` // requests per second per client
	RateBurst      int     `yaml:"rate_burst"`
	MaxScanHours   int     `yaml:"max_scan_hours"`
	StreamInterval string  `yaml:"stream_interval"`
}

// UIConfig configures the terminal viewer.
type UIConfig struct {
	Refresh    string `yaml:"refresh"`
	EventHours int    `yaml:"event_hours"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Scan: ScanConfig{
			Hours:                        24,
			Interval:                     "1m",
			Lookback:                     "30m",
			SuppressEclipsedReappearance: true,
		},
		RedSpot: RedSpotConfig{
			Longitude: ephem.DefaultRedSpotLongitude,
			System:    int(ephem.SystemII),
		},
		Server: ServerConfig{
			Addr:           ":8080",
			RateLimit:      5,
			RateBurst:      10,
			MaxScanHours:   24 * 31,
			StreamInterval: "5s",
		},
		UI: UIConfig{
			Refresh:    "1s",
			EventHours: 48,
		},
	}
}

// Load reads the YAML file at path over the defaults and applies environment
// overrides. An empty or missing path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
			// Defaults
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("LSG_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("LSG_SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("LSG_SCAN_INTERVAL"); v != "" {
		c.Scan.Interval = v
	}
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks value ranges and that every duration parses.
func (c *Config) Validate() error {
	durations := map[string]string{
		"scan.interval":          c.Scan.Interval,
		"scan.lookback":          c.Scan.Lookback,
		"server.stream_interval": c.Server.StreamInterval,
		"ui.refresh":             c.UI.Refresh,
	}
	for key, v := range durations {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
		}
		if d < 0 || (d == 0 && key != "scan.lookback") {
			return fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidConfig, key, v)
		}
	}

	if c.Scan.Hours <= 0 {
		return fmt.Errorf("%w: scan.hours must be positive, got %d", ErrInvalidConfig, c.Scan.Hours)
	}
	if c.Scan.Workers < 0 {
		return fmt.Errorf("%w: scan.workers must not be negative, got %d", ErrInvalidConfig, c.Scan.Workers)
	}
	if c.RedSpot.System != int(ephem.SystemI) && c.RedSpot.System != int(ephem.SystemII) {
		return fmt.Errorf("%w: red_spot.system must be 1 or 2, got %d", ErrInvalidConfig, c.RedSpot.System)
	}
	if c.Server.RateLimit <= 0 || c.Server.RateBurst <= 0 {
		return fmt.Errorf("%w: server rate limit and burst must be positive", ErrInvalidConfig)
	}
	if c.Server.MaxScanHours <= 0 {
		return fmt.Errorf("%w: server.max_scan_hours must be positive, got %d", ErrInvalidConfig, c.Server.MaxScanHours)
	}
	if c.UI.EventHours <= 0 {
		return fmt.Errorf("%w: ui.event_hours must be positive, got %d", ErrInvalidConfig, c.UI.EventHours)
	}
	return nil
}

// ScanOptions converts the scan section to scanner options.
func (c *Config) ScanOptions() events.Options {
	return events.Options{
		Interval:                     parseDuration(c.Scan.Interval, events.DefaultInterval),
		Lookback:                     parseDuration(c.Scan.Lookback, events.DefaultLookback),
		Workers:                      c.Scan.Workers,
		SuppressEclipsedReappearance: c.Scan.SuppressEclipsedReappearance,
	}
}

// RedSpotSystem returns the longitude system of the Red Spot longitude.
func (c *Config) RedSpotSystem() ephem.System {
	return ephem.System(c.RedSpot.System)
}

// StreamInterval returns the websocket push interval.
func (c *Config) StreamInterval() time.Duration {
	return parseDuration(c.Server.StreamInterval, 5*time.Second)
}

// UIRefresh returns the terminal viewer refresh interval.
func (c *Config) UIRefresh() time.Duration {
	return parseDuration(c.UI.Refresh, time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
