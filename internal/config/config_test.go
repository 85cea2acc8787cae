package config

import (
	"log/slog"
	"testing"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strongSecret = "0123456789abcdef0123456789abcdef"

func parseEnv(t *testing.T, vars map[string]string) *Config {
	t.Helper()
	cfg, err := parse(env.Options{Prefix: "CUTTHROAT_", Environment: vars})
	require.NoError(t, err)
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := parseEnv(t, map[string]string{})

	assert.Equal(t, "", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, StorageMemory, cfg.StorageType)
	assert.Equal(t, "cutthroat.db", cfg.SQLitePath)
	assert.Equal(t, InsecureSessionSecret, cfg.SessionSecret)
	assert.Equal(t, 30, cfg.SessionTimeoutDays)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, "", cfg.OTelEndpoint)
	assert.False(t, cfg.AllowInsecureDefaults)
}

func TestOverrides(t *testing.T) {
	cfg := parseEnv(t, map[string]string{
		"CUTTHROAT_HOST":                 "127.0.0.1",
		"CUTTHROAT_PORT":                 "9090",
		"CUTTHROAT_LOG_LEVEL":            "debug",
		"CUTTHROAT_STORAGE_TYPE":         "redis",
		"CUTTHROAT_REDIS_URL":            "redis://cache:6379/1",
		"CUTTHROAT_SESSION_SECRET":       strongSecret,
		"CUTTHROAT_SESSION_TIMEOUT_DAYS": "7",
		"CUTTHROAT_BCRYPT_COST":          "10",
		"CUTTHROAT_OTEL_ENDPOINT":        "http://collector:4318",
	})

	assert.Equal(t, "127.0.0.1:9090", cfg.Addr())
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, StorageRedis, cfg.StorageType)
	assert.Equal(t, "redis://cache:6379/1", cfg.RedisURL)
	assert.Equal(t, 7, cfg.SessionTimeoutDays)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "http://collector:4318", cfg.OTelEndpoint)
	assert.NoError(t, cfg.Validate())
}

func TestParseRejectsBadNumber(t *testing.T) {
	_, err := parse(env.Options{
		Prefix:      "CUTTHROAT_",
		Environment: map[string]string{"CUTTHROAT_PORT": "eighty"},
	})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:               8080,
			LogLevel:           "info",
			StorageType:        StorageMemory,
			SQLitePath:         "cutthroat.db",
			SessionSecret:      strongSecret,
			SessionTimeoutDays: 30,
			BcryptCost:         12,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"insecure default secret", func(c *Config) { c.SessionSecret = InsecureSessionSecret }, "insecure default"},
		{"short secret", func(c *Config) { c.SessionSecret = "short" }, "too short"},
		{"insecure allowed", func(c *Config) {
			c.SessionSecret = InsecureSessionSecret
			c.AllowInsecureDefaults = true
		}, ""},
		{"unknown storage", func(c *Config) { c.StorageType = "mongo" }, "unknown storage type"},
		{"redis without url", func(c *Config) { c.StorageType = StorageRedis }, "CUTTHROAT_REDIS_URL"},
		{"postgres without url", func(c *Config) { c.StorageType = StoragePostgres }, "CUTTHROAT_DATABASE_URL"},
		{"sqlite without path", func(c *Config) {
			c.StorageType = StorageSQLite
			c.SQLitePath = ""
		}, "CUTTHROAT_SQLITE_PATH"},
		{"zero timeout", func(c *Config) { c.SessionTimeoutDays = 0 }, "SESSION_TIMEOUT_DAYS"},
		{"cost too low", func(c *Config) { c.BcryptCost = 3 }, "BCRYPT_COST"},
		{"cost too high", func(c *Config) { c.BcryptCost = 32 }, "BCRYPT_COST"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSlogLevelFallsBackToInfo(t *testing.T) {
	cfg := &Config{LogLevel: "nonsense"}
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())

	cfg.LogLevel = "WARN"
	assert.Equal(t, slog.LevelWarn, cfg.SlogLevel())
}
