// Package registry is the domain facade over player record storage.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/cutthroat/internal/dependencies/clock"
	"github.com/mcoot/cutthroat/internal/model"
	"github.com/mcoot/cutthroat/internal/storage"
)

// Registry enforces name uniqueness and creates and fetches player records
type Registry struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new Registry
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Registry {
	return &Registry{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// Exists reports whether a record with this name is stored
func (r *Registry) Exists(ctx context.Context, name string) (bool, error) {
	exists, err := r.storage.PlayerExists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("check player %s: %w", name, err)
	}
	return exists, nil
}

// Create persists a new record with empty game state.
// A name that is already taken, including one taken by a concurrent caller,
// yields *model.ConflictError and leaves the store unchanged.
func (r *Registry) Create(ctx context.Context, name, digest, salt string) (*model.PlayerRecord, error) {
	record := &model.PlayerRecord{
		Name:          name,
		PasswordHash:  digest,
		Salt:          salt,
		CurrentGameID: "",
		CurrentRoom:   "",
		Balls:         []string{},
		OrigBalls:     []string{},
		CreatedAt:     r.clock.Now(),
	}

	if err := r.storage.CreatePlayer(ctx, record); err != nil {
		if errors.Is(err, model.ErrPlayerExists) {
			r.logger.Info("player already registered", "name", name)
			return nil, &model.ConflictError{Name: name}
		}
		return nil, fmt.Errorf("create player %s: %w", name, err)
	}

	r.logger.Info("player registered", "name", name, "id", record.ID)
	return record, nil
}

// Fetch returns the record for name, or *model.NotFoundError
func (r *Registry) Fetch(ctx context.Context, name string) (*model.PlayerRecord, error) {
	record, err := r.storage.GetPlayer(ctx, name)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil, &model.NotFoundError{Name: name}
		}
		return nil, fmt.Errorf("fetch player %s: %w", name, err)
	}
	return record, nil
}
