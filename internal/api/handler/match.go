package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/werewolf-go/internal/api/middleware"
	"github.com/mcoot/werewolf-go/internal/api/request"
	"github.com/mcoot/werewolf-go/internal/api/response"
	"github.com/mcoot/werewolf-go/internal/model"
	"github.com/mcoot/werewolf-go/internal/services/match"
)

// MatchHandler handles match endpoints
type MatchHandler struct {
	controller *match.Controller
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(controller *match.Controller) *MatchHandler {
	return &MatchHandler{controller: controller}
}

// decodeOptional decodes a JSON body into v, leaving v untouched when the
// body is empty
func decodeOptional(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return NewInvalidRequestError("invalid request body")
	}
	return nil
}

// codeFrom reads the join code from the path. Codes are case-insensitive.
func codeFrom(r *http.Request) model.JoinCode {
	return model.JoinCode(strings.ToUpper(mux.Vars(r)["code"]))
}

// view writes m as seen by the requesting player
func (h *MatchHandler) view(w http.ResponseWriter, status int, m *model.Match, viewer model.PlayerID) {
	response.JSON(w, status, response.MatchFromModel(m, viewer, h.controller.ShareURL(m.Code)))
}

// Create handles POST /api/v1/matches
func (h *MatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.CreateMatchRequest
	if err := decodeOptional(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	m, err := h.controller.CreateMatch(r.Context(), *player, req.Settings())
	if err != nil {
		WriteError(w, err)
		return
	}

	h.view(w, http.StatusCreated, m, player.ID)
}

// Get handles GET /api/v1/matches/{code}. Anonymous callers get the
// spectator view.
func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.controller.GetMatch(r.Context(), codeFrom(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	var viewer model.PlayerID
	if player := middleware.GetPlayer(r.Context()); player != nil {
		viewer = player.ID
	}
	h.view(w, http.StatusOK, m, viewer)
}

// Delete handles DELETE /api/v1/matches/{code}
func (h *MatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	if err := h.controller.DeleteMatch(r.Context(), codeFrom(r), player.ID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Join handles POST /api/v1/matches/{code}/join
func (h *MatchHandler) Join(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	m, err := h.controller.JoinMatch(r.Context(), codeFrom(r), *player)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.view(w, http.StatusOK, m, player.ID)
}

// Leave handles POST /api/v1/matches/{code}/leave
func (h *MatchHandler) Leave(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	m, err := h.controller.LeaveMatch(r.Context(), codeFrom(r), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	if m == nil {
		// Last one out deleted the match
		response.NoContent(w)
		return
	}

	h.view(w, http.StatusOK, m, player.ID)
}

// Ready handles POST /api/v1/matches/{code}/ready. An empty body means ready.
func (h *MatchHandler) Ready(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	req := request.ReadyRequest{Ready: true}
	if err := decodeOptional(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	m, err := h.controller.SetReady(r.Context(), codeFrom(r), player.ID, req.Ready)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.view(w, http.StatusOK, m, player.ID)
}

// Heartbeat handles POST /api/v1/matches/{code}/heartbeat
func (h *MatchHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	if _, err := h.controller.Heartbeat(r.Context(), codeFrom(r), player.ID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Start handles POST /api/v1/matches/{code}/start
func (h *MatchHandler) Start(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	m, err := h.controller.StartMatch(r.Context(), codeFrom(r), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.view(w, http.StatusOK, m, player.ID)
}

// Advance handles POST /api/v1/matches/{code}/advance
func (h *MatchHandler) Advance(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.AdvanceRequest
	if err := decodeOptional(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	m, err := h.controller.AdvancePhase(r.Context(), codeFrom(r), player.ID, model.Phase(req.ExpectedPhase))
	if err != nil {
		WriteError(w, err)
		return
	}

	h.view(w, http.StatusOK, m, player.ID)
}

func decodeTarget(r *http.Request) (model.PlayerID, error) {
	var req request.TargetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", NewInvalidRequestError("invalid request body")
	}
	if req.TargetID == "" {
		return "", NewInvalidRequestError("target_id is required")
	}
	return model.PlayerID(req.TargetID), nil
}

// NightAction handles POST /api/v1/matches/{code}/night-action
func (h *MatchHandler) NightAction(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	target, err := decodeTarget(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	m, err := h.controller.CastNightAction(r.Context(), codeFrom(r), player.ID, target)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.view(w, http.StatusOK, m, player.ID)
}

// Vote handles POST /api/v1/matches/{code}/vote
func (h *MatchHandler) Vote(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	target, err := decodeTarget(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	m, err := h.controller.CastVote(r.Context(), codeFrom(r), player.ID, target)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.view(w, http.StatusOK, m, player.ID)
}

// Messages handles GET /api/v1/matches/{code}/messages
func (h *MatchHandler) Messages(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	msgs, err := h.controller.Messages(r.Context(), codeFrom(r), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ChatMessagesFromModel(msgs))
}

// SendMessage handles POST /api/v1/matches/{code}/messages
func (h *MatchHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	msg, err := h.controller.SendMessage(r.Context(), codeFrom(r), player.ID,
		req.Content, model.MessageType(req.Type), model.PlayerID(req.TargetID))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.ChatMessageFromModel(msg))
}

// JoinLink handles GET /join/{code}, the share link, by redirecting to the
// match resource
func (h *MatchHandler) JoinLink(w http.ResponseWriter, r *http.Request) {
	code := codeFrom(r)
	if _, err := h.controller.GetMatch(r.Context(), code); err != nil {
		WriteError(w, err)
		return
	}
	http.Redirect(w, r, "/api/v1/matches/"+string(code), http.StatusFound)
}
