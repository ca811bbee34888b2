package factory

import (
	"time"

	"github.com/mcoot/werewolf-go/internal/dependencies/mocks"
	"github.com/mcoot/werewolf-go/internal/metrics"
	"github.com/mcoot/werewolf-go/internal/services/auth"
	"github.com/mcoot/werewolf-go/internal/services/match"
	"github.com/mcoot/werewolf-go/internal/storage/memory"
	"github.com/mcoot/werewolf-go/internal/testutil"
)

// TestBaseURL is the share link prefix used by test apps
const TestBaseURL = "https://wolves.example"

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// Countdowns run on the mock clock, so they only move when MockClock.Tick is called.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	matchCfg := match.DefaultConfig()
	matchCfg.BaseURL = TestBaseURL

	app := newWithDependencies(store, mockClock, mockRandom, auth.DefaultConfig(), matchCfg, metrics.New(false), testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
