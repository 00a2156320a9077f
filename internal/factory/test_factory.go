package factory

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mcoot/kmapgame/internal/dependencies/mocks"
	"github.com/mcoot/kmapgame/internal/services/game"
	"github.com/mcoot/kmapgame/internal/storage/memory"
	"github.com/mcoot/kmapgame/internal/testutil"
)

// TestStartTime is the mock clock's initial time in a TestApp
var TestStartTime = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	MockIDs    *mocks.MockIDGenerator
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// With an empty random queue every generated puzzle has the single minterm 0.
func NewTestApp() *TestApp {
	return NewTestAppWithGuard(nil)
}

// NewTestAppWithGuard is NewTestApp with a custom session guard
func NewTestAppWithGuard(guard game.SessionGuard) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(TestStartTime)
	mockRandom := mocks.NewMockRandom()
	mockIDs := mocks.NewMockIDGenerator()

	app := newWithDependencies(store, mockClock, mockRandom, mockIDs, prometheus.NewRegistry(), time.UTC, guard, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		MockIDs:    mockIDs,
	}
}
