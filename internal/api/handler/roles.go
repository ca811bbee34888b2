package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/werewolf-go/internal/api/response"
	"github.com/mcoot/werewolf-go/internal/services/roles"
)

// RoleHandler serves the role catalog
type RoleHandler struct{}

// NewRoleHandler creates a new role handler
func NewRoleHandler() *RoleHandler {
	return &RoleHandler{}
}

// List handles GET /api/v1/roles
func (h *RoleHandler) List(w http.ResponseWriter, _ *http.Request) {
	defs := roles.All()
	out := make([]response.Role, len(defs))
	for i, def := range defs {
		out[i] = response.RoleFromModel(def)
	}
	response.JSON(w, http.StatusOK, out)
}

// Preset handles GET /api/v1/roles/presets/{players}
func (h *RoleHandler) Preset(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(mux.Vars(r)["players"])
	if err != nil || n < roles.MinPlayers || n > roles.MaxPlayers {
		WriteError(w, NewInvalidRequestError("players must be a number of players a match supports"))
		return
	}
	response.JSON(w, http.StatusOK, response.PresetFromCounts(n, roles.PresetFor(n)))
}
