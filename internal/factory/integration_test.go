package factory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/cutthroat/internal/model"
	"github.com/mcoot/cutthroat/internal/services/session"
	redisstorage "github.com/mcoot/cutthroat/internal/storage/redis"
	"github.com/mcoot/cutthroat/internal/testutil"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

// Test: register, authenticate with the issued session, retrieve self
func (s *IntegrationSuite) TestRegisterAndRetrieveFlow() {
	// Step 1: Register
	reg, err := s.app.PlayerService.Register(s.ctx, "alice", "secret123")
	s.Require().NoError(err)
	s.Equal("alice", reg.Username)

	// Step 2: The session resolves back to the player
	name, err := s.app.Sessions.SubjectOf(reg.Session.Value)
	s.Require().NoError(err)
	s.Equal("alice", name)

	// Step 3: Retrieve self
	view, err := s.app.PlayerService.RetrieveSelf(s.ctx, name)
	s.Require().NoError(err)
	s.Equal("alice", view.Name)
	s.Empty(view.Balls)

	// Step 4: The stored password verifies
	record, err := s.app.Registry.Fetch(s.ctx, "alice")
	s.Require().NoError(err)
	s.True(s.app.Hasher.Verify("secret123", record.PasswordHash, record.Salt))
}

// Test: sessions stop resolving once the validity window passes
func (s *IntegrationSuite) TestSessionExpires() {
	reg, err := s.app.PlayerService.Register(s.ctx, "alice", "secret123")
	s.Require().NoError(err)

	s.app.MockClock.Advance(s.app.Sessions.Validity() + time.Second)

	_, err = s.app.Sessions.SubjectOf(reg.Session.Value)
	s.ErrorIs(err, session.ErrInvalidSession)
}

// Test: a valid session whose record vanished reports not-found
func (s *IntegrationSuite) TestSessionWithoutRecord() {
	token, err := s.app.Sessions.Issue("ghost")
	s.Require().NoError(err)

	name, err := s.app.Sessions.SubjectOf(token.Value)
	s.Require().NoError(err)

	_, err = s.app.PlayerService.RetrieveSelf(s.ctx, name)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func testSessionConfig() session.Config {
	cfg := session.DefaultConfig()
	cfg.Secret = []byte(TestSessionSecret)
	return cfg
}

func TestNewDefaultsToMemory(t *testing.T) {
	app, err := New(context.Background(), Config{SessionConfig: testSessionConfig(), BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)
	defer func() { _ = app.Close() }()

	assert.Equal(t, bcrypt.MinCost, app.Hasher.Cost())
	_, err = app.PlayerService.Register(context.Background(), "alice", "pw")
	require.NoError(t, err)
}

func TestNewUsesDefaultCost(t *testing.T) {
	app, err := New(context.Background(), Config{SessionConfig: testSessionConfig()})
	require.NoError(t, err)
	defer func() { _ = app.Close() }()

	assert.Equal(t, 12, app.Hasher.Cost())
}

func TestNewWithRedis(t *testing.T) {
	mini := miniredis.RunT(t)
	redisCfg := redisstorage.DefaultConfig()
	redisCfg.URL = "redis://" + mini.Addr()

	app, err := New(context.Background(), Config{
		StorageType:   StorageTypeRedis,
		RedisConfig:   &redisCfg,
		BcryptCost:    bcrypt.MinCost,
		SessionConfig: testSessionConfig(),
		Logger:        testutil.NopLogger(),
	})
	require.NoError(t, err)
	defer func() { _ = app.Close() }()

	_, err = app.PlayerService.Register(context.Background(), "alice", "pw")
	require.NoError(t, err)
	assert.True(t, mini.Exists("cutthroat:player:alice"))
}

func TestNewWithSQLite(t *testing.T) {
	app, err := New(context.Background(), Config{
		StorageType:   StorageTypeSQLite,
		SQLitePath:    filepath.Join(t.TempDir(), "cutthroat.db"),
		BcryptCost:    bcrypt.MinCost,
		SessionConfig: testSessionConfig(),
	})
	require.NoError(t, err)
	defer func() { _ = app.Close() }()

	_, err = app.PlayerService.Register(context.Background(), "alice", "pw")
	require.NoError(t, err)
	view, err := app.PlayerService.RetrieveSelf(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", view.Name)
}

func TestNewRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"unknown storage", Config{StorageType: "mongo", SessionConfig: testSessionConfig()}},
		{"redis without config", Config{StorageType: StorageTypeRedis, SessionConfig: testSessionConfig()}},
		{"postgres without config", Config{StorageType: StorageTypePostgres, SessionConfig: testSessionConfig()}},
		{"sqlite without path", Config{StorageType: StorageTypeSQLite, SessionConfig: testSessionConfig()}},
		{"missing secret", Config{}},
		{"bad cost", Config{BcryptCost: 99, SessionConfig: testSessionConfig()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(context.Background(), tt.cfg)
			assert.Error(t, err)
		})
	}
}
