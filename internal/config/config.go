// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

// Server is the configuration of cmd/server
type Server struct {
	Host     string `env:"BLOCKDROP_HOST" envDefault:""`
	Port     int    `env:"BLOCKDROP_PORT" envDefault:"8080"`
	LogLevel string `env:"BLOCKDROP_LOG_LEVEL" envDefault:"info"`

	StorageType string `env:"BLOCKDROP_STORAGE_TYPE" envDefault:"memory"`
	RedisURL    string `env:"BLOCKDROP_REDIS_URL"`

	DriverEnabled bool          `env:"BLOCKDROP_DRIVER_ENABLED" envDefault:"true"`
	TickInterval  time.Duration `env:"BLOCKDROP_TICK_INTERVAL" envDefault:"16ms"`

	SessionDuration time.Duration `env:"BLOCKDROP_SESSION_DURATION" envDefault:"24h"`
}

// Load parses the server configuration from environment variables
func Load() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.StorageType = strings.ToLower(strings.TrimSpace(cfg.StorageType))
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate checks option combinations the parser cannot
func (c Server) Validate() error {
	var errs []error
	switch c.StorageType {
	case StorageMemory:
	case StorageRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("BLOCKDROP_REDIS_URL is required when BLOCKDROP_STORAGE_TYPE=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage type %q", c.StorageType))
	}
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.DriverEnabled && c.TickInterval <= 0 {
		errs = append(errs, errors.New("tick interval must be positive"))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level returns the slog level named by LogLevel
func (c Server) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}
