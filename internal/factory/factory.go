package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/cutthroat/internal/dependencies/clock"
	"github.com/mcoot/cutthroat/internal/services/credential"
	"github.com/mcoot/cutthroat/internal/services/player"
	"github.com/mcoot/cutthroat/internal/services/registry"
	"github.com/mcoot/cutthroat/internal/services/session"
	"github.com/mcoot/cutthroat/internal/storage"
	"github.com/mcoot/cutthroat/internal/storage/memory"
	"github.com/mcoot/cutthroat/internal/storage/postgres"
	redisstorage "github.com/mcoot/cutthroat/internal/storage/redis"
	"github.com/mcoot/cutthroat/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
	StorageTypeSQLite   = "sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock

	// Services
	Hasher        *credential.Hasher
	Registry      *registry.Registry
	Sessions      *session.Issuer
	PlayerService *player.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PostgresConfig holds the pool settings (required if StorageType is "postgres")
	PostgresConfig *postgres.Config
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
	// BcryptCost is the password hashing work factor
	// If zero, defaults to credential.DefaultCost
	BcryptCost int
	// SessionConfig configures session tokens; Secret is required
	SessionConfig session.Config
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	cost := cfg.BcryptCost
	if cost == 0 {
		cost = credential.DefaultCost
	}

	app, err := newWithDependencies(store, clock.New(), cost, cfg.SessionConfig, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return app, nil
}

func openStorage(ctx context.Context, cfg Config, logger *slog.Logger) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	case StorageTypePostgres:
		if cfg.PostgresConfig == nil {
			return nil, errors.New("PostgresConfig required when StorageType is postgres")
		}
		return postgres.Open(ctx, *cfg.PostgresConfig, logger)
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		return sqlite.Open(cfg.SQLitePath, logger)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be one of memory, redis, postgres, sqlite", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, cost int, sessionCfg session.Config, logger *slog.Logger) (*App, error) {
	hasher, err := credential.New(cost)
	if err != nil {
		return nil, err
	}

	sessions, err := session.New(clk, sessionCfg)
	if err != nil {
		return nil, err
	}

	reg := registry.New(store, clk, logger)
	playerService := player.New(hasher, reg, sessions, logger)

	return &App{
		Storage:       store,
		Clock:         clk,
		Hasher:        hasher,
		Registry:      reg,
		Sessions:      sessions,
		PlayerService: playerService,
	}, nil
}

// Close releases the storage backend
func (a *App) Close() error {
	return a.Storage.Close()
}
