package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player is a connected identity. It exists before and outside any match.
type Player struct {
	ID          PlayerID
	DisplayName string
	IsBot       bool
	CreatedAt   time.Time
}
