package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/mcoot/cutthroat/internal/model"
	"github.com/mcoot/cutthroat/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu      sync.RWMutex
	players map[string]*model.PlayerRecord
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players: make(map[string]*model.PlayerRecord),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) CreatePlayer(ctx context.Context, record *model.PlayerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.players[record.Name]; ok {
		return model.ErrPlayerExists
	}

	record.ID = uuid.NewString()
	s.players[record.Name] = record.Clone()
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, name string) (*model.PlayerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.players[name]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return record.Clone(), nil
}

func (s *Storage) PlayerExists(ctx context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.players[name]
	return ok, nil
}

// Ping always succeeds for in-memory storage
func (s *Storage) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for in-memory storage
func (s *Storage) Close() error {
	return nil
}
