package connection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/harborline/battleship-go/internal/dependencies/clock"
	"github.com/harborline/battleship-go/internal/events"
	"github.com/harborline/battleship-go/internal/model"
	"github.com/harborline/battleship-go/internal/scheduler"
	"github.com/harborline/battleship-go/internal/services/game"
	"github.com/harborline/battleship-go/internal/storage"
)

// Service tracks live player connections per game and drives the
// grace-period auto-pause. A disconnect never pauses immediately: it
// schedules a re-check after the game's grace period, and the re-check
// pauses only if the player is still gone.
type Service struct {
	storage        storage.Storage
	gameController game.ControllerInterface
	scheduler      scheduler.Scheduler
	publisher      events.Publisher
	clock          clock.Clock
	logger         *slog.Logger
}

// NewService creates a new connection Service
func NewService(
	storage storage.Storage,
	gameController game.ControllerInterface,
	scheduler scheduler.Scheduler,
	publisher events.Publisher,
	clock clock.Clock,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:        storage,
		gameController: gameController,
		scheduler:      scheduler,
		publisher:      publisher,
		clock:          clock,
		logger:         logger,
	}
}

// recheckKey identifies the deferred grace-period job for a player. A
// reconnect cancels the pending job under the same key.
func recheckKey(code model.GameCode, playerID model.PlayerID) string {
	return fmt.Sprintf("%s/%s", code, playerID)
}

// Subscribe registers a session as the live connection for a player. A
// pending grace-period re-check for the player is cancelled, and a
// reconnect after an observed disconnect is announced to the game.
func (s *Service) Subscribe(ctx context.Context, code model.GameCode, playerID model.PlayerID, sessionID model.SessionID) error {
	g, err := s.storage.GetGame(ctx, code)
	if err != nil {
		return err
	}
	if !g.HasPlayer(playerID) {
		return model.ErrNotParticipant
	}

	wasDisconnected := false
	prev, err := s.storage.GetConnection(ctx, code, playerID)
	switch {
	case err == nil:
		wasDisconnected = !prev.Connected
	case errors.Is(err, model.ErrConnectionNotFound):
		// first subscription for this player
	default:
		return err
	}

	conn := &model.Connection{
		GameCode:  code,
		PlayerID:  playerID,
		SessionID: sessionID,
		Connected: true,
		LastSeen:  s.clock.Now(),
	}
	if err := s.storage.SaveConnection(ctx, conn); err != nil {
		return err
	}

	s.scheduler.Cancel(recheckKey(code, playerID))

	s.logger.Info("player subscribed",
		slog.String("game_code", string(code)),
		slog.String("player_id", string(playerID)),
		slog.String("session_id", string(sessionID)),
	)

	if wasDisconnected {
		s.publisher.Notify(code, model.EventPlayerReconnected, model.ConnectionPayload{
			PlayerID:  playerID,
			SessionID: sessionID,
		})
	}

	return nil
}

// Disconnect marks a player's connection as lost and schedules the
// grace-period re-check. A stale session (one that was already replaced
// by a newer subscription) is ignored so a quick reconnect is not undone
// by the old session's teardown.
func (s *Service) Disconnect(ctx context.Context, code model.GameCode, playerID model.PlayerID, sessionID model.SessionID) error {
	conn, err := s.storage.GetConnection(ctx, code, playerID)
	if err != nil {
		return err
	}
	if conn.SessionID != sessionID {
		return nil
	}

	conn.Connected = false
	conn.LastSeen = s.clock.Now()
	if err := s.storage.SaveConnection(ctx, conn); err != nil {
		return err
	}

	g, err := s.storage.GetGame(ctx, code)
	if err != nil {
		return err
	}

	s.logger.Info("player disconnected",
		slog.String("game_code", string(code)),
		slog.String("player_id", string(playerID)),
		slog.Duration("grace_period", g.Config.GracePeriod),
	)

	s.publisher.Notify(code, model.EventPlayerDisconnected, model.ConnectionPayload{
		PlayerID:  playerID,
		SessionID: sessionID,
	})

	s.scheduler.Schedule(recheckKey(code, playerID), g.Config.GracePeriod, func() {
		s.recheck(code, playerID)
	})

	return nil
}

// recheck runs when a grace period elapses. It re-fetches both the
// connection and the game at fire time: the player may have reconnected,
// the game may have ended, or it may already be paused for the other
// player.
func (s *Service) recheck(code model.GameCode, playerID model.PlayerID) {
	ctx := context.Background()

	conn, err := s.storage.GetConnection(ctx, code, playerID)
	if err != nil {
		if !errors.Is(err, model.ErrConnectionNotFound) {
			s.logger.Error("grace period re-check failed",
				slog.String("game_code", string(code)),
				slog.String("player_id", string(playerID)),
				slog.String("error", err.Error()),
			)
		}
		return
	}
	if conn.Connected {
		return
	}

	g, err := s.storage.GetGame(ctx, code)
	if err != nil {
		if !errors.Is(err, model.ErrGameNotFound) {
			s.logger.Error("grace period re-check failed",
				slog.String("game_code", string(code)),
				slog.String("player_id", string(playerID)),
				slog.String("error", err.Error()),
			)
		}
		return
	}
	if g.Status != model.GameStatusRunning && g.Status != model.GameStatusSetup {
		return
	}

	reason := fmt.Sprintf("player %s disconnected", playerID)
	if _, err := s.gameController.Pause(ctx, code, reason); err != nil {
		// A concurrent pause is fine; anything else is worth surfacing
		if !errors.Is(err, model.ErrGameNotPausable) {
			s.logger.Error("auto-pause failed",
				slog.String("game_code", string(code)),
				slog.String("error", err.Error()),
			)
		}
		return
	}

	s.logger.Info("game auto-paused after grace period",
		slog.String("game_code", string(code)),
		slog.String("player_id", string(playerID)),
	)
}

// Connections lists the connection records for a game
func (s *Service) Connections(ctx context.Context, code model.GameCode) ([]*model.Connection, error) {
	return s.storage.GetConnectionsForGame(ctx, code)
}

// PurgeStale removes disconnected records not seen for maxAge. Meant to
// be run periodically by the server's janitor loop.
func (s *Service) PurgeStale(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := s.clock.Now().Add(-maxAge)
	removed, err := s.storage.PurgeStaleConnections(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.Info("purged stale connections", slog.Int("removed", removed))
	}
	return removed, nil
}

// Interface for dependency injection
type ServiceInterface interface {
	Subscribe(ctx context.Context, code model.GameCode, playerID model.PlayerID, sessionID model.SessionID) error
	Disconnect(ctx context.Context, code model.GameCode, playerID model.PlayerID, sessionID model.SessionID) error
	Connections(ctx context.Context, code model.GameCode) ([]*model.Connection, error)
	PurgeStale(ctx context.Context, maxAge time.Duration) (int, error)
}

var _ ServiceInterface = (*Service)(nil)
