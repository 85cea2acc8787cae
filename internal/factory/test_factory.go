package factory

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/cutthroat/internal/dependencies/mocks"
	"github.com/mcoot/cutthroat/internal/services/session"
	"github.com/mcoot/cutthroat/internal/storage/memory"
	"github.com/mcoot/cutthroat/internal/testutil"
)

// TestSessionSecret signs sessions in test apps
const TestSessionSecret = "test-session-secret-0123456789abcdef"

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	Memory    *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// It uses the minimum bcrypt cost so registration stays fast.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	sessionCfg := session.DefaultConfig()
	sessionCfg.Secret = []byte(TestSessionSecret)

	app, err := newWithDependencies(store, mockClock, bcrypt.MinCost, sessionCfg, testutil.NopLogger())
	if err != nil {
		panic(err)
	}

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		Memory:    store,
	}
}
