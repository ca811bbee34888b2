package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mcoot/werewolf-go/internal/api"
	"github.com/mcoot/werewolf-go/internal/factory"
	"github.com/mcoot/werewolf-go/internal/services/match"
	redisstorage "github.com/mcoot/werewolf-go/internal/storage/redis"
)

const janitorInterval = time.Minute

func main() {
	// A missing .env is fine; real environment variables still apply
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not load .env", slog.String("error", err.Error()))
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(os.Getenv("LOG_LEVEL")),
	}))
	slog.SetDefault(logger)

	matchCfg := match.DefaultConfig()
	if baseURL := os.Getenv("BASE_URL"); baseURL != "" {
		matchCfg.BaseURL = baseURL
	}
	if raw := os.Getenv("TICK_INTERVAL"); raw != "" {
		interval, err := time.ParseDuration(raw)
		if err != nil {
			logger.Error("invalid TICK_INTERVAL", slog.String("value", raw))
			os.Exit(1)
		}
		matchCfg.TickInterval = interval
	}

	// Build factory config from environment
	cfg := factory.Config{
		MatchConfig:    matchCfg,
		Logger:         logger,
		StorageType:    os.Getenv("STORAGE_TYPE"),
		RuntimeMetrics: true,
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Restart countdowns for matches that survived a restart
	if _, err := app.MatchController.Resume(context.Background()); err != nil {
		logger.Warn("could not resume matches", slog.String("error", err.Error()))
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		AuthService:     app.AuthService,
		MatchController: app.MatchController,
		BotService:      app.BotService,
		HubManager:      app.HubManager,
		Broadcaster:     app.Broadcaster,
		Metrics:         app.Metrics,
	})

	// Create server
	serverConfig, err := api.ServerConfigFromEnv()
	if err != nil {
		logger.Error("invalid server config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	go runJanitor(ctx, app, logger)

	exitCode := 0
	if err := server.Run(ctx); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		exitCode = 1
	}
	stop()

	if err := app.Close(); err != nil {
		logger.Error("close error", slog.String("error", err.Error()))
		exitCode = 1
	}

	logger.Info("server stopped")
	os.Exit(exitCode)
}

// runJanitor drops expired sessions and hubs nobody is listening to
func runJanitor(ctx context.Context, app *factory.App, logger *slog.Logger) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sessions := app.AuthService.CleanExpiredSessions()
			hubs := app.HubManager.CleanupEmptyHubs()
			if sessions > 0 || hubs > 0 {
				logger.Debug("janitor pass",
					slog.Int("sessions", sessions),
					slog.Int("hubs", hubs),
				)
			}
		}
	}
}

func logLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
