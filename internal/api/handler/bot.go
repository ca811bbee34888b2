package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/werewolf-go/internal/api/middleware"
	"github.com/mcoot/werewolf-go/internal/api/response"
	"github.com/mcoot/werewolf-go/internal/model"
	"github.com/mcoot/werewolf-go/internal/services/bot"
	"github.com/mcoot/werewolf-go/internal/services/match"
)

// BotHandler handles bot seat endpoints
type BotHandler struct {
	bots       *bot.Service
	controller *match.Controller
}

// NewBotHandler creates a new bot handler
func NewBotHandler(bots *bot.Service, controller *match.Controller) *BotHandler {
	return &BotHandler{bots: bots, controller: controller}
}

// Add handles POST /api/v1/matches/{code}/bots
func (h *BotHandler) Add(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	m, _, err := h.bots.AddBot(r.Context(), codeFrom(r), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.MatchFromModel(m, player.ID, h.controller.ShareURL(m.Code)))
}

// Remove handles DELETE /api/v1/matches/{code}/bots/{botID}
func (h *BotHandler) Remove(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	botID := model.PlayerID(mux.Vars(r)["botID"])

	m, err := h.bots.RemoveBot(r.Context(), codeFrom(r), player.ID, botID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchFromModel(m, player.ID, h.controller.ShareURL(m.Code)))
}
