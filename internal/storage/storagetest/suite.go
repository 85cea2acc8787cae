// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/cutthroat/internal/model"
	"github.com/mcoot/cutthroat/internal/storage"
)

// Suite runs the shared storage contract against a backend.
// Embedders set Storage in their SetupTest.
type Suite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
}

// NewRecord builds a freshly registered record for name
func NewRecord(name string) *model.PlayerRecord {
	return &model.PlayerRecord{
		Name:         name,
		PasswordHash: "$2a$04$abcdefghijklmnopqrstuuhash",
		Salt:         "$2a$04$abcdefghijklmnopqrstuu",
		Balls:        []string{},
		OrigBalls:    []string{},
		CreatedAt:    time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *Suite) TestCreateAndGetPlayer() {
	record := NewRecord("alice")

	err := s.Storage.CreatePlayer(s.Ctx, record)
	s.Require().NoError(err)
	s.NotEmpty(record.ID)

	retrieved, err := s.Storage.GetPlayer(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(record.ID, retrieved.ID)
	s.Equal("alice", retrieved.Name)
	s.Equal(record.PasswordHash, retrieved.PasswordHash)
	s.Equal(record.Salt, retrieved.Salt)
	s.Equal("", retrieved.CurrentGameID)
	s.Equal("", retrieved.CurrentRoom)
	s.Empty(retrieved.Balls)
	s.Empty(retrieved.OrigBalls)
	s.True(record.CreatedAt.Equal(retrieved.CreatedAt))
}

func (s *Suite) TestCreatePreservesGameState() {
	record := NewRecord("alice")
	record.CurrentGameID = "game-1"
	record.CurrentRoom = "lobby"
	record.Balls = []string{"3", "1", "2"}
	record.OrigBalls = []string{"1", "2", "3", "4"}

	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, record))

	retrieved, err := s.Storage.GetPlayer(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal("game-1", retrieved.CurrentGameID)
	s.Equal("lobby", retrieved.CurrentRoom)
	s.Equal([]string{"3", "1", "2"}, retrieved.Balls)
	s.Equal([]string{"1", "2", "3", "4"}, retrieved.OrigBalls)
}

func (s *Suite) TestGetPlayerNotFound() {
	_, err := s.Storage.GetPlayer(s.Ctx, "ghost")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestPlayerExists() {
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, NewRecord("alice")))

	exists, err := s.Storage.PlayerExists(s.Ctx, "alice")
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.Storage.PlayerExists(s.Ctx, "bob")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *Suite) TestCreateDuplicateFailsAndKeepsOriginal() {
	first := NewRecord("alice")
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, first))

	second := NewRecord("alice")
	second.PasswordHash = "other-hash"
	second.Salt = "other-salt"
	err := s.Storage.CreatePlayer(s.Ctx, second)
	s.ErrorIs(err, model.ErrPlayerExists)

	retrieved, err := s.Storage.GetPlayer(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(first.ID, retrieved.ID)
	s.Equal(first.PasswordHash, retrieved.PasswordHash)
	s.Equal(first.Salt, retrieved.Salt)
}

func (s *Suite) TestNamesAreCaseSensitive() {
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, NewRecord("alice")))
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, NewRecord("Alice")))
}

func (s *Suite) TestConcurrentCreateOnlyOneSucceeds() {
	const writers = 8

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
		others    []error
	)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			record := NewRecord("alice")
			record.PasswordHash = fmt.Sprintf("hash-%d", i)
			err := s.Storage.CreatePlayer(s.Ctx, record)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, model.ErrPlayerExists):
				conflicts++
			default:
				others = append(others, err)
			}
		}(i)
	}
	wg.Wait()

	s.Empty(others)
	s.Equal(1, successes)
	s.Equal(writers-1, conflicts)
}

func (s *Suite) TestReturnedRecordDoesNotAliasStore() {
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, NewRecord("alice")))

	retrieved, err := s.Storage.GetPlayer(s.Ctx, "alice")
	s.Require().NoError(err)
	retrieved.Balls = append(retrieved.Balls, "9")
	retrieved.CurrentRoom = "mutated"

	again, err := s.Storage.GetPlayer(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Empty(again.Balls)
	s.Equal("", again.CurrentRoom)
}

func (s *Suite) TestPing() {
	s.NoError(s.Storage.Ping(s.Ctx))
}
