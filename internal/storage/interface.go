package storage

import (
	"context"

	"github.com/mcoot/cutthroat/internal/model"
)

// Storage defines the interface for player record persistence.
//
// CreatePlayer must be atomic with respect to the record name: when two
// callers race on the same name exactly one succeeds and the other gets
// model.ErrPlayerExists. On success the store assigns record.ID.
type Storage interface {
	CreatePlayer(ctx context.Context, record *model.PlayerRecord) error
	GetPlayer(ctx context.Context, name string) (*model.PlayerRecord, error)
	PlayerExists(ctx context.Context, name string) (bool, error)

	// Ping reports whether the backing store is reachable
	Ping(ctx context.Context) error
	Close() error
}
