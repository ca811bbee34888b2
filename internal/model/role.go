package model

// RoleID identifies a role in the catalog
type RoleID string

const (
	RoleWerewolf  RoleID = "werewolf"
	RoleDoctor    RoleID = "doctor"
	RoleDetective RoleID = "detective"
	RoleSeer      RoleID = "seer"
	RoleVillager  RoleID = "villager"
)

// Team is the side a role plays for
type Team string

const (
	TeamWerewolves Team = "werewolves"
	TeamVillagers  Team = "villagers"
)

// NightAction is the capability a role may use during the night phase
type NightAction string

const (
	ActionNone        NightAction = ""
	ActionKill        NightAction = "kill"
	ActionProtect     NightAction = "protect"
	ActionInvestigate NightAction = "investigate"
	ActionReveal      NightAction = "reveal"
)

// RoleDefinition is a static catalog entry
type RoleDefinition struct {
	ID          RoleID
	Name        string
	Team        Team
	NightAction NightAction
	Description string
	MinCount    int // bounds only apply to custom configurations
	MaxCount    int
}

// HasNightAction reports whether the role acts at night
func (r RoleDefinition) HasNightAction() bool {
	return r.NightAction != ActionNone
}
