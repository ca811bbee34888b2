package model

import "time"

// Member is a player's seat in one match
type Member struct {
	PlayerID PlayerID
	Name     string
	Seat     int // sort key for role assignment only
	IsAlive  bool
	Role     RoleID // empty until the match starts
	IsHost   bool
	IsReady  bool
	IsBot    bool
	LastSeen time.Time

	// Round-scoped; cleared by the phase machine
	VotedFor    PlayerID
	IsProtected bool
	Action      *ActionRecord

	// Private results, shown only while Round matches the current round
	LastInvestigation *Investigation
	LastVision        *Vision
}

// ActionRecord is the night action a member chose this round
type ActionRecord struct {
	Kind   NightAction
	Target PlayerID
	Round  int
}

// Investigation is a detective result: the target's team
type Investigation struct {
	TargetID   PlayerID
	TargetName string
	Result     Team
	Round      int
}

// Vision is a seer result: the target's exact role
type Vision struct {
	TargetID   PlayerID
	TargetName string
	Role       RoleID
	Round      int
}

// ClearRoundState resets the fields consumed by night and day resolution
func (m *Member) ClearRoundState() {
	m.VotedFor = ""
	m.IsProtected = false
	m.Action = nil
}

func (m *Member) clone() *Member {
	c := *m
	if m.Action != nil {
		a := *m.Action
		c.Action = &a
	}
	if m.LastInvestigation != nil {
		inv := *m.LastInvestigation
		c.LastInvestigation = &inv
	}
	if m.LastVision != nil {
		v := *m.LastVision
		c.LastVision = &v
	}
	return &c
}
