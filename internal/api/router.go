package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/werewolf-go/internal/api/handler"
	"github.com/mcoot/werewolf-go/internal/api/middleware"
	"github.com/mcoot/werewolf-go/internal/metrics"
	"github.com/mcoot/werewolf-go/internal/services/auth"
	"github.com/mcoot/werewolf-go/internal/services/bot"
	"github.com/mcoot/werewolf-go/internal/services/match"
	"github.com/mcoot/werewolf-go/internal/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	AuthService     *auth.Service
	MatchController *match.Controller
	HubManager      *sse.HubManager
	Broadcaster     *sse.Broadcaster
	// BotService is optional; when set hosts can seat bots
	BotService *bot.Service
	// Metrics is optional; when set requests are instrumented and /metrics is served
	Metrics *metrics.Metrics
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	playerHandler := handler.NewPlayerHandler(cfg.AuthService)
	matchHandler := handler.NewMatchHandler(cfg.MatchController)
	eventsHandler := handler.NewEventsHandler(cfg.MatchController, cfg.HubManager, cfg.Broadcaster, cfg.Logger)
	roleHandler := handler.NewRoleHandler()

	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
		r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)
	}

	// Share links
	r.HandleFunc("/join/{code}", matchHandler.JoinLink).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	api.HandleFunc("/players/guest", playerHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/roles", roleHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/roles/presets/{players:[0-9]+}", roleHandler.Preset).Methods(http.MethodGet)

	// Protected player routes
	players := api.PathPrefix("/players").Subrouter()
	players.Use(authMiddleware)
	players.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)
	players.HandleFunc("/me", playerHandler.Rename).Methods(http.MethodPatch)
	players.HandleFunc("/logout", playerHandler.Logout).Methods(http.MethodPost)

	// Match routes. Viewing works without a session (spectators); everything
	// else needs a player.
	optional := func(h http.HandlerFunc) http.Handler { return optionalAuthMiddleware(h) }
	required := func(h http.HandlerFunc) http.Handler { return authMiddleware(h) }

	matches := api.PathPrefix("/matches").Subrouter()
	matches.Handle("", required(matchHandler.Create)).Methods(http.MethodPost)
	matches.Handle("/{code}", optional(matchHandler.Get)).Methods(http.MethodGet)
	matches.Handle("/{code}", required(matchHandler.Delete)).Methods(http.MethodDelete)
	matches.Handle("/{code}/events", optional(eventsHandler.Stream)).Methods(http.MethodGet)
	matches.Handle("/{code}/ws", optional(eventsHandler.Socket)).Methods(http.MethodGet)
	matches.Handle("/{code}/join", required(matchHandler.Join)).Methods(http.MethodPost)
	matches.Handle("/{code}/leave", required(matchHandler.Leave)).Methods(http.MethodPost)
	matches.Handle("/{code}/ready", required(matchHandler.Ready)).Methods(http.MethodPost)
	matches.Handle("/{code}/heartbeat", required(matchHandler.Heartbeat)).Methods(http.MethodPost)
	matches.Handle("/{code}/start", required(matchHandler.Start)).Methods(http.MethodPost)
	matches.Handle("/{code}/advance", required(matchHandler.Advance)).Methods(http.MethodPost)
	matches.Handle("/{code}/night-action", required(matchHandler.NightAction)).Methods(http.MethodPost)
	matches.Handle("/{code}/vote", required(matchHandler.Vote)).Methods(http.MethodPost)
	matches.Handle("/{code}/messages", required(matchHandler.Messages)).Methods(http.MethodGet)
	matches.Handle("/{code}/messages", required(matchHandler.SendMessage)).Methods(http.MethodPost)

	if cfg.BotService != nil {
		botHandler := handler.NewBotHandler(cfg.BotService, cfg.MatchController)
		matches.Handle("/{code}/bots", required(botHandler.Add)).Methods(http.MethodPost)
		matches.Handle("/{code}/bots/{botID}", required(botHandler.Remove)).Methods(http.MethodDelete)
	}

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
