package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Match lifecycle errors
	ErrConfiguration    = errors.New("invalid game configuration")
	ErrMatchNotFound    = errors.New("match not found")
	ErrMatchExists      = errors.New("match code already in use")
	ErrAlreadyStarted   = errors.New("match has already started")
	ErrMatchFull        = errors.New("match is full")
	ErrNotAllReady      = errors.New("not all players are ready")
	ErrRosterIncomplete = errors.New("match is waiting for more players")
	ErrNotHost          = errors.New("player is not the host")
	ErrNotInMatch       = errors.New("player is not in this match")

	// Gameplay errors
	ErrInvalidAction = errors.New("invalid action")

	// Storage errors
	ErrStorageConflict = errors.New("concurrent update conflict")
)
