package redis

import (
	"fmt"

	"github.com/harborline/battleship-go/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "bship"

// gameKey returns the Redis key for a Game aggregate
func gameKey(code model.GameCode) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, code)
}

// connectionKey returns the Redis key for a Connection record
func connectionKey(gameCode model.GameCode, playerID model.PlayerID) string {
	return fmt.Sprintf("%s:conn:%s:%s", keyPrefix, gameCode, playerID)
}

// connectionsForGameIndexKey returns the Redis key for the SET of
// connection keys for a game
func connectionsForGameIndexKey(gameCode model.GameCode) string {
	return fmt.Sprintf("%s:idx:conns_for_game:%s", keyPrefix, gameCode)
}

// connectionIndexKey returns the Redis key for the SET of all connection keys
func connectionIndexKey() string {
	return fmt.Sprintf("%s:idx:conns", keyPrefix)
}

// resumeTokenKey returns the Redis key for a resume token digest
func resumeTokenKey(digest string) string {
	return fmt.Sprintf("%s:resume_token:%s", keyPrefix, digest)
}

// resumeTokensForGameIndexKey returns the Redis key for the SET of token
// keys for a game
func resumeTokensForGameIndexKey(gameCode model.GameCode) string {
	return fmt.Sprintf("%s:idx:tokens_for_game:%s", keyPrefix, gameCode)
}
