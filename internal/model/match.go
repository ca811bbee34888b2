package model

import (
	"sort"
	"time"
)

// JoinCode is the short, human-shareable key of a match
type JoinCode string

// MatchStatus is the lifecycle of a match
type MatchStatus string

const (
	MatchStatusWaiting  MatchStatus = "waiting"
	MatchStatusPlaying  MatchStatus = "playing"
	MatchStatusFinished MatchStatus = "finished"
)

// Phase is one segment of a round
type Phase string

const (
	PhaseLobby      Phase = "lobby"
	PhaseNight      Phase = "night"
	PhaseDay        Phase = "day"
	PhaseDiscussion Phase = "discussion"
	PhaseVoting     Phase = "voting"
	PhaseResults    Phase = "results"
	PhaseFinished   Phase = "finished"
)

// NightResult records what the werewolves achieved last night
type NightResult string

const (
	NightResultKilled    NightResult = "killed"
	NightResultProtected NightResult = "protected"
)

// VoteResult records how the last day vote ended
type VoteResult string

const (
	VoteResultSuccess VoteResult = "success"
	VoteResultTie     VoteResult = "tie"
)

// PhaseState is the phase machine's persisted state
type PhaseState struct {
	Phase         Phase
	Round         int
	TimeRemaining int // whole seconds
	LastUpdate    time.Time
}

// Outcome summarises the most recent resolution
type Outcome struct {
	EliminatedPlayer PlayerID
	LastNightResult  NightResult
	VoteResult       VoteResult
	WinningSide      Team
}

// Match is the aggregate root of one game
type Match struct {
	Code      JoinCode
	HostID    PlayerID
	Status    MatchStatus
	Settings  GameSettings
	Players   map[PlayerID]*Member
	State     PhaseState
	Outcome   Outcome
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetMember returns the member with the given ID, or nil
func (m *Match) GetMember(id PlayerID) *Member {
	return m.Players[id]
}

// Roster returns all members ordered by seat
func (m *Match) Roster() []*Member {
	roster := make([]*Member, 0, len(m.Players))
	for _, p := range m.Players {
		roster = append(roster, p)
	}
	sort.Slice(roster, func(i, j int) bool {
		return roster[i].Seat < roster[j].Seat
	})
	return roster
}

// Alive returns living members ordered by seat
func (m *Match) Alive() []*Member {
	var alive []*Member
	for _, p := range m.Roster() {
		if p.IsAlive {
			alive = append(alive, p)
		}
	}
	return alive
}

// IsFull reports whether every seat is taken
func (m *Match) IsFull() bool {
	return len(m.Players) >= m.Settings.TotalPlayers
}

// AllReady reports whether every member has readied up
func (m *Match) AllReady() bool {
	for _, p := range m.Players {
		if !p.IsReady {
			return false
		}
	}
	return true
}

// NextSeat returns the lowest seat number not taken
func (m *Match) NextSeat() int {
	taken := make(map[int]bool, len(m.Players))
	for _, p := range m.Players {
		taken[p.Seat] = true
	}
	seat := 0
	for taken[seat] {
		seat++
	}
	return seat
}

// IsHost reports whether the player is the current host
func (m *Match) IsHost(id PlayerID) bool {
	return id != "" && m.HostID == id
}

// Clone returns a deep copy, so storage callers can mutate freely
func (m *Match) Clone() *Match {
	c := *m
	c.Settings = m.Settings.clone()
	c.Players = make(map[PlayerID]*Member, len(m.Players))
	for id, p := range m.Players {
		c.Players[id] = p.clone()
	}
	return &c
}
