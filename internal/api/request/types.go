package request

import (
	"github.com/mcoot/werewolf-go/internal/model"
)

// CreateGuestRequest is the request body for creating a guest player
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// RenameRequest is the request body for changing display name
type RenameRequest struct {
	DisplayName string `json:"display_name"`
}

// CreateMatchRequest is the request body for creating a match. Omitted
// fields take the default settings.
type CreateMatchRequest struct {
	TotalPlayers       int            `json:"total_players,omitempty"`
	NightDuration      int            `json:"night_duration,omitempty"`
	DayDuration        int            `json:"day_duration,omitempty"`
	DiscussionDuration int            `json:"discussion_duration,omitempty"`
	VotingDuration     int            `json:"voting_duration,omitempty"`
	UsePresetRoles     *bool          `json:"use_preset_roles,omitempty"`
	CustomRoles        map[string]int `json:"custom_roles,omitempty"`
}

// Settings converts the request to match settings. Custom roles switch
// presets off unless use_preset_roles says otherwise.
func (r CreateMatchRequest) Settings() model.GameSettings {
	s := model.DefaultSettings()
	if r.TotalPlayers != 0 {
		s.TotalPlayers = r.TotalPlayers
	}
	if r.NightDuration != 0 {
		s.NightDuration = r.NightDuration
	}
	if r.DayDuration != 0 {
		s.DayDuration = r.DayDuration
	}
	if r.DiscussionDuration != 0 {
		s.DiscussionDuration = r.DiscussionDuration
	}
	if r.VotingDuration != 0 {
		s.VotingDuration = r.VotingDuration
	}

	if len(r.CustomRoles) > 0 {
		s.UsePresetRoles = false
		s.CustomRoles = make(map[model.RoleID]int, len(r.CustomRoles))
		for id, n := range r.CustomRoles {
			s.CustomRoles[model.RoleID(id)] = n
		}
	}
	if r.UsePresetRoles != nil {
		s.UsePresetRoles = *r.UsePresetRoles
	}
	return s
}

// ReadyRequest is the request body for setting ready state
type ReadyRequest struct {
	Ready bool `json:"ready"`
}

// AdvanceRequest is the request body for advancing the phase. ExpectedPhase
// makes the call a no-op if another advance already happened.
type AdvanceRequest struct {
	ExpectedPhase string `json:"expected_phase,omitempty"`
}

// TargetRequest is the request body for night actions and votes
type TargetRequest struct {
	TargetID string `json:"target_id"`
}

// SendMessageRequest is the request body for posting to the chat
type SendMessageRequest struct {
	Content  string `json:"content"`
	Type     string `json:"type,omitempty"`
	TargetID string `json:"target_id,omitempty"`
}
