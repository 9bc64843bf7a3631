package memory

import (
	"context"
	"sync"
	"time"

	"github.com/harborline/battleship-go/internal/model"
	"github.com/harborline/battleship-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	games       map[model.GameCode]*model.Game
	connections map[connectionKey]*model.Connection
	tokens      map[string]*model.ResumeToken
}

type connectionKey struct {
	gameCode model.GameCode
	playerID model.PlayerID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		games:       make(map[model.GameCode]*model.Game),
		connections: make(map[connectionKey]*model.Connection),
		tokens:      make(map[string]*model.ResumeToken),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.Code] = game.Clone()
	return nil
}

func (s *Storage) GetGame(ctx context.Context, code model.GameCode) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[code]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	// Copies on both read and write keep callers isolated from the store
	// and from each other
	return game.Clone(), nil
}

func (s *Storage) DeleteGame(ctx context.Context, code model.GameCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, code)
	return nil
}

func (s *Storage) GameExists(ctx context.Context, code model.GameCode) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.games[code]
	return ok, nil
}

// Connection operations

func (s *Storage) SaveConnection(ctx context.Context, conn *model.Connection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := connectionKey{gameCode: conn.GameCode, playerID: conn.PlayerID}
	s.connections[key] = conn
	return nil
}

func (s *Storage) GetConnection(ctx context.Context, gameCode model.GameCode, playerID model.PlayerID) (*model.Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key := connectionKey{gameCode: gameCode, playerID: playerID}
	conn, ok := s.connections[key]
	if !ok {
		return nil, model.ErrConnectionNotFound
	}
	return conn, nil
}

func (s *Storage) GetConnectionsForGame(ctx context.Context, gameCode model.GameCode) ([]*model.Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var conns []*model.Connection
	for key, conn := range s.connections {
		if key.gameCode == gameCode {
			conns = append(conns, conn)
		}
	}
	return conns, nil
}

func (s *Storage) DeleteConnection(ctx context.Context, gameCode model.GameCode, playerID model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.connections, connectionKey{gameCode: gameCode, playerID: playerID})
	return nil
}

func (s *Storage) PurgeStaleConnections(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, conn := range s.connections {
		if !conn.Connected && conn.LastSeen.Before(cutoff) {
			delete(s.connections, key)
			removed++
		}
	}
	return removed, nil
}

// Resume token operations

func (s *Storage) SaveResumeToken(ctx context.Context, token *model.ResumeToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token.Digest] = token
	return nil
}

func (s *Storage) GetResumeToken(ctx context.Context, digest string) (*model.ResumeToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[digest]
	if !ok {
		return nil, model.ErrTokenNotFound
	}
	return token, nil
}

func (s *Storage) DeleteResumeTokensForGame(ctx context.Context, gameCode model.GameCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for digest, token := range s.tokens {
		if token.GameCode == gameCode {
			delete(s.tokens, digest)
		}
	}
	return nil
}
