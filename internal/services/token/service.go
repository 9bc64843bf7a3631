package token

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"log/slog"

	"golang.org/x/crypto/blake2b"

	"github.com/harborline/battleship-go/internal/dependencies/clock"
	"github.com/harborline/battleship-go/internal/model"
	"github.com/harborline/battleship-go/internal/storage"
)

// Service issues and validates resume tokens: opaque per-(game, player)
// secrets that authorize reconnection by possession rather than identity.
// Only a digest of each token is persisted, so a storage dump never leaks
// a usable credential.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new token Service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// Issue creates a resume token for a player in a game and returns the raw
// token. The raw value is not recoverable afterwards.
func (s *Service) Issue(ctx context.Context, gameCode model.GameCode, playerID model.PlayerID) (string, error) {
	raw := generateToken()

	record := &model.ResumeToken{
		Digest:    digest(raw),
		GameCode:  gameCode,
		PlayerID:  playerID,
		CreatedAt: s.clock.Now(),
	}

	if err := s.storage.SaveResumeToken(ctx, record); err != nil {
		return "", err
	}

	s.logger.Info("resume token issued",
		slog.String("game_code", string(gameCode)),
		slog.String("player_id", string(playerID)),
	)

	return raw, nil
}

// Validate resolves a raw token to the (game, player) it was issued for
func (s *Service) Validate(ctx context.Context, raw string) (*model.ResumeToken, error) {
	return s.storage.GetResumeToken(ctx, digest(raw))
}

// RevokeForGame removes all tokens issued for a game
func (s *Service) RevokeForGame(ctx context.Context, gameCode model.GameCode) error {
	return s.storage.DeleteResumeTokensForGame(ctx, gameCode)
}

// generateToken creates a new random token
func generateToken() string {
	b := make([]byte, 24)
	_, _ = rand.Read(b)
	return "rt_" + base64.RawURLEncoding.EncodeToString(b)
}

// digest computes the storage key for a raw token
func digest(raw string) string {
	sum := blake2b.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
