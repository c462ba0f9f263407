package factory

import (
	"log/slog"
	"time"

	"github.com/mcoot/blockdrop/internal/dependencies/mocks"
	"github.com/mcoot/blockdrop/internal/dependencies/random"
	"github.com/mcoot/blockdrop/internal/services/auth"
	"github.com/mcoot/blockdrop/internal/services/driver"
	"github.com/mcoot/blockdrop/internal/services/game"
	"github.com/mcoot/blockdrop/internal/storage/memory"
	"github.com/mcoot/blockdrop/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// Every game deals pieces from an empty MockRandom, so the first bag is
// always I, Z, T, S, O, L, J.
func NewTestApp() *TestApp {
	return NewTestAppWithLogger(testutil.NopLogger())
}

// NewTestAppWithLogger is NewTestApp with a caller-supplied logger
func NewTestAppWithLogger(logger *slog.Logger) *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(dependencies{
		store:     memory.New(),
		clock:     mockClock,
		random:    mockRandom,
		authCfg:   auth.DefaultConfig(),
		gameCfg:   game.DefaultConfig(),
		driverCfg: driver.DefaultConfig(),
		logger:    logger,
	})
	app.GameController.SetSource(func(uint64) random.Random {
		return mocks.NewMockRandom()
	})

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
