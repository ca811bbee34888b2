package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/werewolf-go/internal/dependencies/clock"
	"github.com/mcoot/werewolf-go/internal/dependencies/random"
	"github.com/mcoot/werewolf-go/internal/metrics"
	"github.com/mcoot/werewolf-go/internal/services/auth"
	"github.com/mcoot/werewolf-go/internal/services/bot"
	"github.com/mcoot/werewolf-go/internal/services/match"
	"github.com/mcoot/werewolf-go/internal/sse"
	"github.com/mcoot/werewolf-go/internal/storage"
	"github.com/mcoot/werewolf-go/internal/storage/memory"
	redisstorage "github.com/mcoot/werewolf-go/internal/storage/redis"
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
	Clock  clock.Clock
	Random random.Random

	// Services
	AuthService     *auth.Service
	MatchController *match.Controller
	BotService      *bot.Service
	HubManager      *sse.HubManager
	Broadcaster     *sse.Broadcaster
	Metrics         *metrics.Metrics
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// MatchConfig holds match engine settings (optional)
	// If zero value, defaults to match.DefaultConfig()
	MatchConfig match.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// RuntimeMetrics adds Go runtime and process collectors to the registry
	RuntimeMetrics bool
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

	// Use default configs if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}
	matchCfg := cfg.MatchConfig
	if matchCfg == (match.Config{}) {
		matchCfg = match.DefaultConfig()
	}

	return newWithDependencies(store, clock.New(), random.New(), authCfg, matchCfg, metrics.New(cfg.RuntimeMetrics), logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	authCfg auth.Config,
	matchCfg match.Config,
	m *metrics.Metrics,
	logger *slog.Logger,
) *App {
	hubManager := sse.NewHubManager(logger, m)
	broadcaster := sse.NewBroadcaster(hubManager, matchCfg.BaseURL, logger)
	authService := auth.New(store, clk, authCfg)
	matchController := match.NewController(store, broadcaster, m, clk, rnd, logger, matchCfg)
	botService := bot.NewService(store, matchController, bot.NewRandomStrategy(rnd), clk, rnd, logger)
	matchController.SetPhaseListener(botService)

	return &App{
		Storage:         store,
		Clock:           clk,
		Random:          rnd,
		AuthService:     authService,
		MatchController: matchController,
		BotService:      botService,
		HubManager:      hubManager,
		Broadcaster:     broadcaster,
		Metrics:         m,
	}
}

// Close stops background work and releases the storage connection
func (a *App) Close() error {
	a.MatchController.Close()
	a.HubManager.Close()
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
