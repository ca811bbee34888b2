package voice

import (
	"github.com/mcoot/werewolf-go/internal/model"
	"github.com/mcoot/werewolf-go/internal/services/roles"
)

// Channel names a voice room inside one match
type Channel string

const (
	ChannelVillage    Channel = "village"
	ChannelWerewolves Channel = "werewolves"
)

// Hint tells a voice provider what a participant may do in the current phase.
// Transport is up to the provider.
type Hint struct {
	CanSpeak  bool    `json:"can_speak"`
	CanListen bool    `json:"can_listen"`
	Channel   Channel `json:"channel"`
}

// HintFor derives the voice permissions of a participant
func HintFor(phase model.Phase, role model.RoleID, alive bool) Hint {
	switch phase {
	case model.PhaseLobby, model.PhaseFinished, "":
		return Hint{CanSpeak: true, CanListen: true, Channel: ChannelVillage}
	case model.PhaseNight:
		if alive && roles.TeamOf(role) == model.TeamWerewolves {
			return Hint{CanSpeak: true, CanListen: true, Channel: ChannelWerewolves}
		}
		return Hint{Channel: ChannelVillage}
	default:
		return Hint{CanSpeak: alive, CanListen: true, Channel: ChannelVillage}
	}
}
