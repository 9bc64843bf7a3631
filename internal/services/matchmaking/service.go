package matchmaking

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/harborline/battleship-go/internal/model"
	"github.com/harborline/battleship-go/internal/services/game"
)

// Service pairs players first-come-first-served. The first enqueued
// player gets a fresh game; the next one fills it, and the slot resets.
// One pending slot is enough for a single-process deployment; a stale
// slot (game gone or no longer joinable) is dropped and replaced.
type Service struct {
	gameController game.ControllerInterface
	logger         *slog.Logger

	mu          sync.Mutex
	pendingCode model.GameCode
}

// NewService creates a new matchmaking Service
func NewService(gameController game.ControllerInterface, logger *slog.Logger) *Service {
	return &Service{
		gameController: gameController,
		logger:         logger,
	}
}

// Enqueue finds or creates a game for the player and joins it. The
// returned game tells the caller whether they are waiting or matched.
func (s *Service) Enqueue(ctx context.Context, displayName string) (*model.Game, *model.Player, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pendingCode != "" {
		g, player, token, err := s.gameController.Join(ctx, s.pendingCode, displayName)
		switch {
		case err == nil:
			if g.IsFull() {
				s.pendingCode = ""
			}
			s.logger.Info("player matched",
				slog.String("game_code", string(g.Code)),
				slog.String("player_id", string(player.ID)),
			)
			return g, player, token, nil
		case errors.Is(err, model.ErrGameNotFound),
			errors.Is(err, model.ErrGameNotJoinable),
			errors.Is(err, model.ErrGameFull):
			// Stale slot; fall through and open a new game
			s.pendingCode = ""
		default:
			return nil, nil, "", err
		}
	}

	g, err := s.gameController.CreateGame(ctx, model.DefaultGameConfig())
	if err != nil {
		return nil, nil, "", err
	}

	g, player, token, err := s.gameController.Join(ctx, g.Code, displayName)
	if err != nil {
		return nil, nil, "", err
	}

	s.pendingCode = g.Code
	s.logger.Info("player queued",
		slog.String("game_code", string(g.Code)),
		slog.String("player_id", string(player.ID)),
	)
	return g, player, token, nil
}

// Interface for dependency injection
type ServiceInterface interface {
	Enqueue(ctx context.Context, displayName string) (*model.Game, *model.Player, string, error)
}

var _ ServiceInterface = (*Service)(nil)
