// Package config defines the engine configuration and how it is loaded.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Storage drivers accepted by StoreDriver.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the local HTTP listen address, e.g. "127.0.0.1:9080".
	Addr string `koanf:"addr"`

	// StoreDriver picks the key-value backend for player stats.
	StoreDriver string `koanf:"store_driver"`

	// StorePath is the JSON file (file driver) or database file (sqlite driver).
	StorePath string `koanf:"store_path"`

	// RedisAddr is used by the redis driver.
	RedisAddr string `koanf:"redis_addr"`

	// DailyTimezone is the IANA zone used for the daily challenge calendar date.
	// Empty means the process local zone.
	DailyTimezone string `koanf:"daily_timezone"`

	// TracerTickMS is the integrity decay period of the packet tracer.
	TracerTickMS int `koanf:"tracer_tick_ms"`

	// FirewallTickMS is the packet movement period of the firewall game.
	FirewallTickMS int `koanf:"firewall_tick_ms"`

	// FirewallDifficulty is recruit, agent or specops.
	FirewallDifficulty string `koanf:"firewall_difficulty"`

	// HintDelayMS simulates the tutor round trip.
	HintDelayMS int `koanf:"hint_delay_ms"`

	// RewardQueueSize bounds the timer-driven reward queue.
	RewardQueueSize int `koanf:"reward_queue_size"`

	// PendingPuzzles caps how many issued, unanswered puzzles are kept.
	PendingPuzzles int `koanf:"pending_puzzles"`

	// Seed fixes the RNG; 0 seeds from the clock.
	Seed int64 `koanf:"seed"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               "127.0.0.1:9080",
		StoreDriver:        DriverFile,
		StorePath:          "netninja.json",
		RedisAddr:          "127.0.0.1:6379",
		DailyTimezone:      "",
		TracerTickMS:       100,
		FirewallTickMS:     16,
		FirewallDifficulty: "agent",
		HintDelayMS:        600,
		RewardQueueSize:    1024,
		PendingPuzzles:     256,
		Seed:               0,
	}
}

// Validate checks field ranges and enumerations.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.StoreDriver {
	case DriverMemory, DriverRedis:
	case DriverFile, DriverSQLite:
		if c.StorePath == "" {
			return fmt.Errorf("%w: store_path is required for the %s driver", ErrInvalidConfig, c.StoreDriver)
		}
	default:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	}
	switch strings.ToLower(c.FirewallDifficulty) {
	case "recruit", "agent", "specops":
	default:
		return fmt.Errorf("%w: unknown firewall_difficulty %q", ErrInvalidConfig, c.FirewallDifficulty)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.TracerTickMS <= 0 || c.FirewallTickMS <= 0 {
		return fmt.Errorf("%w: tick periods must be positive", ErrInvalidConfig)
	}
	if c.HintDelayMS < 0 {
		return fmt.Errorf("%w: hint_delay_ms must not be negative", ErrInvalidConfig)
	}
	if c.RewardQueueSize <= 0 || c.PendingPuzzles <= 0 {
		return fmt.Errorf("%w: reward_queue_size and pending_puzzles must be positive", ErrInvalidConfig)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves DailyTimezone.
func (c *Config) Location() (*time.Location, error) {
	if c.DailyTimezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.DailyTimezone)
	if err != nil {
		return nil, fmt.Errorf("%w: daily_timezone: %v", ErrInvalidConfig, err)
	}
	return loc, nil
}

// TracerTick is TracerTickMS as a duration.
func (c *Config) TracerTick() time.Duration { return time.Duration(c.TracerTickMS) * time.Millisecond }

// FirewallTick is FirewallTickMS as a duration.
func (c *Config) FirewallTick() time.Duration {
	return time.Duration(c.FirewallTickMS) * time.Millisecond
}

// HintDelay is HintDelayMS as a duration.
func (c *Config) HintDelay() time.Duration { return time.Duration(c.HintDelayMS) * time.Millisecond }
