package registry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/cutthroat/internal/dependencies/mocks"
	"github.com/mcoot/cutthroat/internal/model"
	"github.com/mcoot/cutthroat/internal/storage"
	"github.com/mcoot/cutthroat/internal/storage/memory"
	"github.com/mcoot/cutthroat/internal/testutil"
)

type RegistrySuite struct {
	suite.Suite
	storage  *memory.Storage
	clock    *mocks.MockClock
	logs     *testutil.LogRecorder
	registry *Registry
	ctx      context.Context
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	logger, logs := testutil.NewRecordingLogger()
	s.logs = logs
	s.registry = New(s.storage, s.clock, logger)
	s.ctx = context.Background()
}

func (s *RegistrySuite) TestCreateBuildsEmptyRecord() {
	record, err := s.registry.Create(s.ctx, "alice", "digest", "salt")
	s.Require().NoError(err)

	s.NotEmpty(record.ID)
	s.Equal("alice", record.Name)
	s.Equal("digest", record.PasswordHash)
	s.Equal("salt", record.Salt)
	s.Equal("", record.CurrentGameID)
	s.Equal("", record.CurrentRoom)
	s.NotNil(record.Balls)
	s.Empty(record.Balls)
	s.NotNil(record.OrigBalls)
	s.Empty(record.OrigBalls)
	s.Equal(s.clock.Now(), record.CreatedAt)

	exists, err := s.registry.Exists(s.ctx, "alice")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *RegistrySuite) TestCreateDuplicateIsConflict() {
	_, err := s.registry.Create(s.ctx, "alice", "digest-1", "salt-1")
	s.Require().NoError(err)

	_, err = s.registry.Create(s.ctx, "alice", "digest-2", "salt-2")

	var conflict *model.ConflictError
	s.Require().ErrorAs(err, &conflict)
	s.Equal("alice", conflict.Name)
	s.Equal("alice already registered", err.Error())
	s.ErrorIs(err, model.ErrPlayerExists)
	s.Contains(s.logs.Messages(), "player already registered")

	record, err := s.registry.Fetch(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("digest-1", record.PasswordHash)
}

func (s *RegistrySuite) TestFetchMissingIsNotFound() {
	_, err := s.registry.Fetch(s.ctx, "ghost")

	var notFound *model.NotFoundError
	s.Require().ErrorAs(err, &notFound)
	s.Equal("ghost", notFound.Name)
	s.Equal("no user ghost", err.Error())
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *RegistrySuite) TestExistsFalseForUnknown() {
	exists, err := s.registry.Exists(s.ctx, "ghost")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *RegistrySuite) TestConcurrentCreateOneWinner() {
	const callers = 10

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.registry.Create(s.ctx, "alice", "digest", "salt")
			mu.Lock()
			defer mu.Unlock()
			var conflict *model.ConflictError
			switch {
			case err == nil:
				successes++
			case errors.As(err, &conflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	s.Equal(1, successes)
	s.Equal(callers-1, conflicts)
}

func (s *RegistrySuite) TestStorageFailuresAreWrapped() {
	boom := errors.New("connection reset")
	registry := New(&failingStorage{err: boom}, s.clock, testutil.NopLogger())

	_, err := registry.Create(s.ctx, "alice", "digest", "salt")
	s.ErrorIs(err, boom)
	s.NotErrorIs(err, model.ErrPlayerExists)

	_, err = registry.Fetch(s.ctx, "alice")
	s.ErrorIs(err, boom)
	s.NotErrorIs(err, model.ErrPlayerNotFound)

	_, err = registry.Exists(s.ctx, "alice")
	s.ErrorIs(err, boom)
}

type failingStorage struct {
	err error
}

var _ storage.Storage = (*failingStorage)(nil)

func (f *failingStorage) CreatePlayer(context.Context, *model.PlayerRecord) error { return f.err }

func (f *failingStorage) GetPlayer(context.Context, string) (*model.PlayerRecord, error) {
	return nil, f.err
}

func (f *failingStorage) PlayerExists(context.Context, string) (bool, error) { return false, f.err }
func (f *failingStorage) Ping(context.Context) error { return f.err }
func (f *failingStorage) Close() error { return nil }
