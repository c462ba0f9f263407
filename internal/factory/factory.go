package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/blockdrop/internal/dependencies/clock"
	"github.com/mcoot/blockdrop/internal/dependencies/random"
	"github.com/mcoot/blockdrop/internal/services/auth"
	"github.com/mcoot/blockdrop/internal/services/driver"
	"github.com/mcoot/blockdrop/internal/services/game"
	"github.com/mcoot/blockdrop/internal/storage"
	"github.com/mcoot/blockdrop/internal/storage/memory"
	redisstorage "github.com/mcoot/blockdrop/internal/storage/redis"
	"github.com/mcoot/blockdrop/internal/web/sse"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	Storage storage.Storage

	Clock  clock.Clock
	Random random.Random

	GameController *game.Controller
	AuthService    *auth.Service
	HubManager     *sse.HubManager
	Broadcaster    *sse.Broadcaster
	Driver         *driver.Driver
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// GameConfig holds the game rules (optional)
	// If zero value, defaults to game.DefaultConfig()
	GameConfig game.Config
	// DriverConfig sets the frame interval of the game clock (optional)
	// If zero value, defaults to driver.DefaultConfig()
	DriverConfig driver.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		store = redisStore
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory' or 'redis'", storageType)
	}

	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}
	gameCfg := cfg.GameConfig
	if gameCfg.QueueSize == 0 {
		gameCfg = game.DefaultConfig()
	}
	driverCfg := cfg.DriverConfig
	if driverCfg.Interval == 0 {
		driverCfg = driver.DefaultConfig()
	}

	deps := dependencies{
		store:     store,
		clock:     clock.New(),
		random:    random.New(),
		authCfg:   authCfg,
		gameCfg:   gameCfg,
		driverCfg: driverCfg,
		logger:    logger,
	}
	return newWithDependencies(deps), nil
}

type dependencies struct {
	store     storage.Storage
	clock     clock.Clock
	random    random.Random
	authCfg   auth.Config
	gameCfg   game.Config
	driverCfg driver.Config
	logger    *slog.Logger
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(d dependencies) *App {
	gameController := game.NewController(d.store, d.gameCfg, d.clock, d.random, d.logger.With(slog.String("component", "game")))
	authService := auth.New(d.store, d.clock, d.authCfg, d.logger.With(slog.String("component", "auth")))
	hubManager := sse.NewHubManager(d.logger)
	broadcaster := sse.NewBroadcaster(hubManager, d.logger)
	gameController.Subscribe(broadcaster)
	gameDriver := driver.New(gameController, d.clock, d.driverCfg, d.logger.With(slog.String("component", "driver")))

	return &App{
		Storage:        d.store,
		Clock:          d.clock,
		Random:         d.random,
		GameController: gameController,
		AuthService:    authService,
		HubManager:     hubManager,
		Broadcaster:    broadcaster,
		Driver:         gameDriver,
	}
}

// Close releases the storage backend and disconnects stream clients
func (a *App) Close() error {
	a.HubManager.Close()
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
