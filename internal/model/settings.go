package model

// GameSettings is fixed when a match is created
type GameSettings struct {
	TotalPlayers       int
	NightDuration      int // seconds
	DayDuration        int
	DiscussionDuration int
	VotingDuration     int
	UsePresetRoles     bool
	CustomRoles        map[RoleID]int // ignored when UsePresetRoles is set
}

// DefaultSettings returns the settings used when the host does not override them
func DefaultSettings() GameSettings {
	return GameSettings{
		TotalPlayers:       6,
		NightDuration:      60,
		DayDuration:        120,
		DiscussionDuration: 60,
		VotingDuration:     45,
		UsePresetRoles:     true,
	}
}

// WithDefaults fills zero durations from DefaultSettings
func (s GameSettings) WithDefaults() GameSettings {
	d := DefaultSettings()
	if s.NightDuration == 0 {
		s.NightDuration = d.NightDuration
	}
	if s.DayDuration == 0 {
		s.DayDuration = d.DayDuration
	}
	if s.DiscussionDuration == 0 {
		s.DiscussionDuration = d.DiscussionDuration
	}
	if s.VotingDuration == 0 {
		s.VotingDuration = d.VotingDuration
	}
	return s
}

func (s GameSettings) clone() GameSettings {
	if s.CustomRoles != nil {
		roles := make(map[RoleID]int, len(s.CustomRoles))
		for id, n := range s.CustomRoles {
			roles[id] = n
		}
		s.CustomRoles = roles
	}
	return s
}
