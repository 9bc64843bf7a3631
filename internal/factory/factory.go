package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/harborline/battleship-go/internal/dependencies/clock"
	"github.com/harborline/battleship-go/internal/dependencies/random"
	"github.com/harborline/battleship-go/internal/events"
	"github.com/harborline/battleship-go/internal/scheduler"
	"github.com/harborline/battleship-go/internal/services/connection"
	"github.com/harborline/battleship-go/internal/services/game"
	"github.com/harborline/battleship-go/internal/services/matchmaking"
	"github.com/harborline/battleship-go/internal/services/placement"
	"github.com/harborline/battleship-go/internal/services/token"
	"github.com/harborline/battleship-go/internal/storage"
	"github.com/harborline/battleship-go/internal/storage/memory"
	redisstorage "github.com/harborline/battleship-go/internal/storage/redis"
	"github.com/harborline/battleship-go/internal/stream"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock     clock.Clock
	Random    random.Random
	Scheduler scheduler.Scheduler
	Publisher events.Publisher

	// Services
	PlacementService   *placement.Service
	TokenService       *token.Service
	GameController     *game.Controller
	ConnectionService  *connection.Service
	MatchmakingService *matchmaking.Service
	HubManager         *stream.HubManager
}

// Config holds configuration for the application factory
type Config struct {
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
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
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
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()
	sched := scheduler.New()

	// Events flow out over SSE
	hubManager := stream.NewHubManager(logger)
	publisher := stream.NewPublisher(hubManager, logger)

	app := newWithDependencies(store, clk, rnd, sched, publisher, logger)
	app.HubManager = hubManager
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	sched scheduler.Scheduler,
	publisher events.Publisher,
	logger *slog.Logger,
) *App {
	// Create services
	placementService := placement.New(rnd, logger)
	tokenService := token.New(store, clk, logger)
	gameController := game.NewController(store, placementService, tokenService, publisher, clk, rnd, logger)
	connectionService := connection.NewService(store, gameController, sched, publisher, clk, logger)
	matchmakingService := matchmaking.NewService(gameController, logger)

	return &App{
		Storage:            store,
		Clock:              clk,
		Random:             rnd,
		Scheduler:          sched,
		Publisher:          publisher,
		PlacementService:   placementService,
		TokenService:       tokenService,
		GameController:     gameController,
		ConnectionService:  connectionService,
		MatchmakingService: matchmakingService,
	}
}
