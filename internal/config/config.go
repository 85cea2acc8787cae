// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"golang.org/x/crypto/bcrypt"
)

// InsecureSessionSecret is the placeholder secret shipped as the default
const InsecureSessionSecret = "change-me-in-production"

const minSessionSecretLen = 32

// Storage backend names
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

// Config holds all server configuration parsed from environment variables.
type Config struct {
	// Server
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Storage
	StorageType string `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL    string `env:"REDIS_URL"`
	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"cutthroat.db"`

	// Credentials and sessions
	SessionSecret      string `env:"SESSION_SECRET" envDefault:"change-me-in-production"`
	SessionTimeoutDays int    `env:"SESSION_TIMEOUT_DAYS" envDefault:"30"`
	BcryptCost         int    `env:"BCRYPT_COST" envDefault:"12"`

	// Tracing
	OTelEndpoint string `env:"OTEL_ENDPOINT"`

	// Dev
	AllowInsecureDefaults bool `env:"ALLOW_INSECURE_DEFAULTS" envDefault:"false"`
}

// Load parses CUTTHROAT_-prefixed environment variables into a Config.
func Load() (*Config, error) {
	return parse(env.Options{Prefix: "CUTTHROAT_"})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate checks the configuration is usable and not insecure.
// Set CUTTHROAT_ALLOW_INSECURE_DEFAULTS=true to bypass the secret checks (local dev only).
func (c *Config) Validate() error {
	switch c.StorageType {
	case StorageMemory:
	case StorageRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("CUTTHROAT_REDIS_URL is required for redis storage")
		}
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("CUTTHROAT_DATABASE_URL is required for postgres storage")
		}
	case StorageSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("CUTTHROAT_SQLITE_PATH is required for sqlite storage")
		}
	default:
		return fmt.Errorf("unknown storage type %q", c.StorageType)
	}

	if c.SessionTimeoutDays <= 0 {
		return fmt.Errorf("CUTTHROAT_SESSION_TIMEOUT_DAYS must be positive, got %d", c.SessionTimeoutDays)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("CUTTHROAT_BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}

	if c.AllowInsecureDefaults {
		return nil
	}
	if c.SessionSecret == InsecureSessionSecret {
		return fmt.Errorf("CUTTHROAT_SESSION_SECRET is set to the insecure default; set a strong secret or set CUTTHROAT_ALLOW_INSECURE_DEFAULTS=true for local dev")
	}
	if len(c.SessionSecret) < minSessionSecretLen {
		return fmt.Errorf("CUTTHROAT_SESSION_SECRET is too short (%d chars); minimum %d characters required", len(c.SessionSecret), minSessionSecretLen)
	}
	return nil
}

// SlogLevel returns the configured log level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid CUTTHROAT_LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}
