package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/harborline/battleship-go/internal/model"
	"github.com/harborline/battleship-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, gameKey(game.Code), data, s.cfg.GameTTL).Err()
}

func (s *Storage) GetGame(ctx context.Context, code model.GameCode) (*model.Game, error) {
	data, err := s.client.Get(ctx, gameKey(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}

	var game model.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Storage) DeleteGame(ctx context.Context, code model.GameCode) error {
	return s.client.Del(ctx, gameKey(code)).Err()
}

func (s *Storage) GameExists(ctx context.Context, code model.GameCode) (bool, error) {
	exists, err := s.client.Exists(ctx, gameKey(code)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// Connection operations

func (s *Storage) SaveConnection(ctx context.Context, conn *model.Connection) error {
	data, err := json.Marshal(conn)
	if err != nil {
		return err
	}

	cKey := connectionKey(conn.GameCode, conn.PlayerID)
	gameIndex := connectionsForGameIndexKey(conn.GameCode)
	allIndex := connectionIndexKey()

	// Use pipeline for atomic save + index updates
	pipe := s.client.Pipeline()
	pipe.Set(ctx, cKey, data, s.cfg.ConnectionTTL)
	pipe.SAdd(ctx, gameIndex, cKey)
	pipe.Expire(ctx, gameIndex, s.cfg.ConnectionTTL) // Keep index TTL in sync
	pipe.SAdd(ctx, allIndex, cKey)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetConnection(ctx context.Context, gameCode model.GameCode, playerID model.PlayerID) (*model.Connection, error) {
	data, err := s.client.Get(ctx, connectionKey(gameCode, playerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrConnectionNotFound
		}
		return nil, err
	}

	var conn model.Connection
	if err := json.Unmarshal(data, &conn); err != nil {
		return nil, err
	}
	return &conn, nil
}

func (s *Storage) GetConnectionsForGame(ctx context.Context, gameCode model.GameCode) ([]*model.Connection, error) {
	indexKey := connectionsForGameIndexKey(gameCode)

	connKeys, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}

	if len(connKeys) == 0 {
		return []*model.Connection{}, nil
	}

	values, err := s.client.MGet(ctx, connKeys...).Result()
	if err != nil {
		return nil, err
	}

	conns := make([]*model.Connection, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // Record may have expired
		}
		var conn model.Connection
		if err := json.Unmarshal([]byte(val.(string)), &conn); err != nil {
			continue // Skip invalid data
		}
		conns = append(conns, &conn)
	}

	return conns, nil
}

func (s *Storage) DeleteConnection(ctx context.Context, gameCode model.GameCode, playerID model.PlayerID) error {
	cKey := connectionKey(gameCode, playerID)

	pipe := s.client.Pipeline()
	pipe.Del(ctx, cKey)
	pipe.SRem(ctx, connectionsForGameIndexKey(gameCode), cKey)
	pipe.SRem(ctx, connectionIndexKey(), cKey)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) PurgeStaleConnections(ctx context.Context, cutoff time.Time) (int, error) {
	allIndex := connectionIndexKey()

	connKeys, err := s.client.SMembers(ctx, allIndex).Result()
	if err != nil {
		return 0, err
	}

	if len(connKeys) == 0 {
		return 0, nil
	}

	values, err := s.client.MGet(ctx, connKeys...).Result()
	if err != nil {
		return 0, err
	}

	removed := 0
	pipe := s.client.Pipeline()
	for i, val := range values {
		if val == nil {
			// Record expired on its own; drop the dangling index entry
			pipe.SRem(ctx, allIndex, connKeys[i])
			continue
		}
		var conn model.Connection
		if err := json.Unmarshal([]byte(val.(string)), &conn); err != nil {
			continue
		}
		if !conn.Connected && conn.LastSeen.Before(cutoff) {
			pipe.Del(ctx, connKeys[i])
			pipe.SRem(ctx, connectionsForGameIndexKey(conn.GameCode), connKeys[i])
			pipe.SRem(ctx, allIndex, connKeys[i])
			removed++
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return removed, nil
}

// Resume token operations

func (s *Storage) SaveResumeToken(ctx context.Context, token *model.ResumeToken) error {
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}

	tKey := resumeTokenKey(token.Digest)
	indexKey := resumeTokensForGameIndexKey(token.GameCode)

	pipe := s.client.Pipeline()
	pipe.Set(ctx, tKey, data, s.cfg.TokenTTL)
	pipe.SAdd(ctx, indexKey, tKey)
	pipe.Expire(ctx, indexKey, s.cfg.TokenTTL)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetResumeToken(ctx context.Context, digest string) (*model.ResumeToken, error) {
	data, err := s.client.Get(ctx, resumeTokenKey(digest)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrTokenNotFound
		}
		return nil, err
	}

	var token model.ResumeToken
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

func (s *Storage) DeleteResumeTokensForGame(ctx context.Context, gameCode model.GameCode) error {
	indexKey := resumeTokensForGameIndexKey(gameCode)

	tokenKeys, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return err
	}

	if len(tokenKeys) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, key := range tokenKeys {
		pipe.Del(ctx, key)
	}
	pipe.Del(ctx, indexKey)
	_, err = pipe.Exec(ctx)
	return err
}
