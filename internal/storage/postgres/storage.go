package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcoot/cutthroat/internal/model"
	"github.com/mcoot/cutthroat/internal/storage"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation
const uniqueViolation = "23505"

const (
	insertPlayerSQL = `INSERT INTO players
    (name, password_hash, salt, current_game_id, current_room, balls, orig_balls, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id::text`

	selectPlayerSQL = `SELECT id::text, name, password_hash, salt, current_game_id, current_room,
    balls, orig_balls, created_at
FROM players WHERE name = $1`

	playerExistsSQL = `SELECT EXISTS (SELECT 1 FROM players WHERE name = $1)`
)

// Config holds Postgres connection settings
type Config struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	ConnectTimeout time.Duration
}

// DefaultConfig returns sensible defaults for a connection pool
func DefaultConfig(dsn string) Config {
	return Config{
		DSN:            dsn,
		MaxConns:       20,
		MinConns:       2,
		ConnectTimeout: 5 * time.Second,
	}
}

// Storage is a Postgres-backed implementation of the storage interface.
// Name uniqueness is enforced by the players_name_key constraint.
type Storage struct {
	pool *pgxpool.Pool
}

// Open migrates the schema, then connects a pool to the database.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Storage, error) {
	if err := RunMigrations(cfg.DSN, logger); err != nil {
		return nil, err
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 30 * time.Second

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Storage{pool: pool}, nil
}

// NewWithPool creates a Postgres storage over an existing pool (for testing)
func NewWithPool(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

// Close releases the connection pool
func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) CreatePlayer(ctx context.Context, record *model.PlayerRecord) error {
	var id string
	err := s.pool.QueryRow(ctx, insertPlayerSQL,
		record.Name,
		record.PasswordHash,
		record.Salt,
		record.CurrentGameID,
		record.CurrentRoom,
		nonNil(record.Balls),
		nonNil(record.OrigBalls),
		record.CreatedAt,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrPlayerExists
		}
		return fmt.Errorf("insert player %s: %w", record.Name, err)
	}

	record.ID = id
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, name string) (*model.PlayerRecord, error) {
	var record model.PlayerRecord
	err := s.pool.QueryRow(ctx, selectPlayerSQL, name).Scan(
		&record.ID,
		&record.Name,
		&record.PasswordHash,
		&record.Salt,
		&record.CurrentGameID,
		&record.CurrentRoom,
		&record.Balls,
		&record.OrigBalls,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("select player %s: %w", name, err)
	}

	record.CreatedAt = record.CreatedAt.UTC()
	return &record, nil
}

func (s *Storage) PlayerExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	if err := s.pool.QueryRow(ctx, playerExistsSQL, name).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Ping checks the database is reachable
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
