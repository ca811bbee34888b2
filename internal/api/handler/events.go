package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/werewolf-go/internal/api/middleware"
	"github.com/mcoot/werewolf-go/internal/model"
	"github.com/mcoot/werewolf-go/internal/services/match"
	"github.com/mcoot/werewolf-go/internal/sse"
)

// EventsHandler streams match events over SSE or WebSocket
type EventsHandler struct {
	controller  *match.Controller
	hubManager  *sse.HubManager
	broadcaster *sse.Broadcaster
	logger      *slog.Logger
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(controller *match.Controller, hubManager *sse.HubManager, broadcaster *sse.Broadcaster, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		controller:  controller,
		hubManager:  hubManager,
		broadcaster: broadcaster,
		logger:      logger.With(slog.String("component", "events-handler")),
	}
}

// subscribe resolves the match and viewer and renders the viewer's current
// state as the first event
func (h *EventsHandler) subscribe(r *http.Request) (*sse.Hub, model.PlayerID, *sse.Event, error) {
	code := codeFrom(r)
	m, err := h.controller.GetMatch(r.Context(), code)
	if err != nil {
		return nil, "", nil, err
	}

	var viewer model.PlayerID
	if player := middleware.GetPlayer(r.Context()); player != nil && m.GetMember(player.ID) != nil {
		viewer = player.ID
	}

	initial, err := h.broadcaster.MatchEvent(m, viewer)
	if err != nil {
		return nil, "", nil, err
	}
	return h.hubManager.GetOrCreateHub(code), viewer, &initial, nil
}

// Stream handles GET /api/v1/matches/{code}/events
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	hub, viewer, initial, err := h.subscribe(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	sse.ServeSSE(w, r, hub, viewer, initial)
}

// Socket handles GET /api/v1/matches/{code}/ws
func (h *EventsHandler) Socket(w http.ResponseWriter, r *http.Request) {
	hub, viewer, initial, err := h.subscribe(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	sse.ServeWebSocket(w, r, hub, viewer, initial, h.logger)
}
