package storage

import (
	"context"

	"github.com/mcoot/werewolf-go/internal/model"
)

// UpdateFunc mutates a match in place. Returning an error aborts the update
// and leaves the stored match untouched.
type UpdateFunc func(match *model.Match) error

// Storage defines the interface for data persistence
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Match operations

	// CreateMatch stores a new match, failing with ErrMatchExists if the
	// code is taken
	CreateMatch(ctx context.Context, match *model.Match) error
	GetMatch(ctx context.Context, code model.JoinCode) (*model.Match, error)
	// UpdateMatch atomically reads, mutates and writes back one match and
	// returns the stored result
	UpdateMatch(ctx context.Context, code model.JoinCode, fn UpdateFunc) (*model.Match, error)
	DeleteMatch(ctx context.Context, code model.JoinCode) error
	ListMatchCodes(ctx context.Context) ([]model.JoinCode, error)

	// Chat operations
	AppendMessage(ctx context.Context, code model.JoinCode, msg *model.ChatMessage) error
	GetMessages(ctx context.Context, code model.JoinCode) ([]*model.ChatMessage, error)
}
