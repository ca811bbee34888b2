package redis

import (
	"fmt"

	"github.com/mcoot/werewolf-go/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "wwgame"

// Key generation functions for each entity type

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// matchKey returns the Redis key for a Match document
func matchKey(code model.JoinCode) string {
	return fmt.Sprintf("%s:match:%s", keyPrefix, code)
}

// matchKeyPattern matches every match document, for SCAN
func matchKeyPattern() string {
	return fmt.Sprintf("%s:match:*", keyPrefix)
}

// codeFromMatchKey is the inverse of matchKey
func codeFromMatchKey(key string) model.JoinCode {
	return model.JoinCode(key[len(keyPrefix)+len(":match:"):])
}

// messagesKey returns the Redis key for the LIST of chat messages in a match
func messagesKey(code model.JoinCode) string {
	return fmt.Sprintf("%s:messages:%s", keyPrefix, code)
}
