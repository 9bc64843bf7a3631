package storage

import (
	"context"
	"time"

	"github.com/harborline/battleship-go/internal/model"
)

// Storage defines the interface for data persistence. Boards and shots are
// part of the Game aggregate, so SaveGame persists the whole session
// atomically.
type Storage interface {
	// Game operations
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, code model.GameCode) (*model.Game, error)
	DeleteGame(ctx context.Context, code model.GameCode) error
	GameExists(ctx context.Context, code model.GameCode) (bool, error)

	// Connection operations
	SaveConnection(ctx context.Context, conn *model.Connection) error
	GetConnection(ctx context.Context, gameCode model.GameCode, playerID model.PlayerID) (*model.Connection, error)
	GetConnectionsForGame(ctx context.Context, gameCode model.GameCode) ([]*model.Connection, error)
	DeleteConnection(ctx context.Context, gameCode model.GameCode, playerID model.PlayerID) error

	// PurgeStaleConnections removes disconnected records last seen before
	// the cutoff; returns the number removed
	PurgeStaleConnections(ctx context.Context, cutoff time.Time) (int, error)

	// Resume token operations, keyed by token digest
	SaveResumeToken(ctx context.Context, token *model.ResumeToken) error
	GetResumeToken(ctx context.Context, digest string) (*model.ResumeToken, error)
	DeleteResumeTokensForGame(ctx context.Context, gameCode model.GameCode) error
}
