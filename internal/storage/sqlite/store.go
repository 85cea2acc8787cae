package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/mcoot/cutthroat/internal/model"
	"github.com/mcoot/cutthroat/internal/storage"
	"github.com/mcoot/cutthroat/internal/storage/sqlite/migrations"
)

const (
	insertPlayerSQL = `INSERT INTO players
    (name, password_hash, salt, current_game_id, current_room, balls, orig_balls, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	selectPlayerSQL = `SELECT id, name, password_hash, salt, current_game_id, current_room,
    balls, orig_balls, created_at
FROM players WHERE name = ?`

	playerExistsSQL = `SELECT EXISTS (SELECT 1 FROM players WHERE name = ?)`
)

// toMillis normalizes timestamps into millisecond precision for storage.
func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// fromMillis restores millisecond precision and keeps UTC normalization.
func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store implements player persistence over a single SQLite file.
type Store struct {
	sqlDB *sql.DB
}

// Open applies bundled migrations and opens the store at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)

	if err := runMigrations(cleanPath, logger); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	dsn := cleanPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One writer at a time; SQLite serializes writes anyway
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

func runMigrations(path string, logger *slog.Logger) error {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("open migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, "sqlite://"+path)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}

	version, dirty, _ := m.Version()
	logger.Info("migrations applied", "backend", "sqlite", "version", version, "dirty", dirty)
	return nil
}

// Close releases the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Ensure Store implements the interface
var _ storage.Storage = (*Store)(nil)

func (s *Store) CreatePlayer(ctx context.Context, record *model.PlayerRecord) error {
	balls, err := encodeSequence(record.Balls)
	if err != nil {
		return err
	}
	origBalls, err := encodeSequence(record.OrigBalls)
	if err != nil {
		return err
	}

	res, err := s.sqlDB.ExecContext(ctx, insertPlayerSQL,
		record.Name,
		record.PasswordHash,
		record.Salt,
		record.CurrentGameID,
		record.CurrentRoom,
		balls,
		origBalls,
		toMillis(record.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrPlayerExists
		}
		return fmt.Errorf("insert player %s: %w", record.Name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read player id: %w", err)
	}
	record.ID = strconv.FormatInt(id, 10)
	return nil
}

func (s *Store) GetPlayer(ctx context.Context, name string) (*model.PlayerRecord, error) {
	var (
		record    model.PlayerRecord
		id        int64
		balls     string
		origBalls string
		createdAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx, selectPlayerSQL, name).Scan(
		&id,
		&record.Name,
		&record.PasswordHash,
		&record.Salt,
		&record.CurrentGameID,
		&record.CurrentRoom,
		&balls,
		&origBalls,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("select player %s: %w", name, err)
	}

	record.ID = strconv.FormatInt(id, 10)
	record.CreatedAt = fromMillis(createdAt)
	if record.Balls, err = decodeSequence(balls); err != nil {
		return nil, fmt.Errorf("decode balls for %s: %w", name, err)
	}
	if record.OrigBalls, err = decodeSequence(origBalls); err != nil {
		return nil, fmt.Errorf("decode orig_balls for %s: %w", name, err)
	}
	return &record, nil
}

func (s *Store) PlayerExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	if err := s.sqlDB.QueryRowContext(ctx, playerExistsSQL, name).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.sqlDB.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

func encodeSequence(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeSequence(data string) ([]string, error) {
	values := []string{}
	if strings.TrimSpace(data) == "" {
		return values, nil
	}
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil, err
	}
	return values, nil
}
