package game

import (
	"context"
	"log/slog"

	"github.com/harborline/battleship-go/internal/model"
)

// Fire resolves one shot by the shooter against the opponent's board.
// Repeat shots at a resolved cell are rejected before anything is
// recorded, so the shot log only ever holds effective resolutions.
func (c *Controller) Fire(ctx context.Context, code model.GameCode, shooter model.PlayerID, coord model.Coordinate) (*model.Shot, *model.Game, error) {
	lock := c.locks.get(code)
	lock.Lock()
	defer lock.Unlock()

	game, err := c.storage.GetGame(ctx, code)
	if err != nil {
		return nil, nil, err
	}

	if game.Status != model.GameStatusRunning {
		return nil, nil, model.ErrGameNotRunning
	}
	if !game.HasPlayer(shooter) {
		return nil, nil, model.ErrNotParticipant
	}

	// The turn pointer is the concurrency gate: a request holding a stale
	// turn value fails here instead of being retried or re-ordered
	if game.CurrentTurn != shooter {
		return nil, nil, model.ErrNotPlayerTurn
	}

	target := game.Opponent(shooter)
	board := game.BoardOf(target)
	if board == nil {
		return nil, nil, model.ErrBoardNotFound
	}
	if !board.InBounds(coord) {
		return nil, nil, model.ErrInvalidCoordinate
	}
	if game.IsResolved(target, coord) {
		return nil, nil, model.ErrAlreadyShot
	}

	shot := model.Shot{
		Shooter:    shooter,
		Target:     target,
		Coordinate: coord,
		Order:      len(game.Shots),
		CreatedAt:  c.clock.Now(),
	}

	struck := board.PlacementAt(coord)
	if struck == nil {
		shot.Result = model.ShotResultMiss
	} else {
		shot.Result = model.ShotResultHit
		if shipSunkWith(game, target, *struck, coord) {
			shot.Result = model.ShotResultSunk
		}
	}

	game.Shots = append(game.Shots, shot)

	won := false
	switch shot.Result {
	case model.ShotResultMiss:
		game.CurrentTurn = target
	case model.ShotResultHit, model.ShotResultSunk:
		// Shooter retains the turn; check whether this ended the game
		if game.AllShipsSunk(target) {
			won = true
			game.Status = model.GameStatusFinished
			game.Winner = shooter
			game.CurrentTurn = ""
		}
	}
	game.UpdatedAt = shot.CreatedAt

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, nil, err
	}

	c.logger.Info("shot resolved",
		slog.String("game_code", string(code)),
		slog.String("shooter", string(shooter)),
		slog.Int("x", coord.X),
		slog.Int("y", coord.Y),
		slog.String("result", string(shot.Result)),
	)

	c.publisher.Notify(code, model.EventShotFired, model.ShotFiredPayload{
		Shooter:    shooter,
		Target:     target,
		Coordinate: coord,
		Result:     shot.Result,
	})

	if won {
		// Finished games keep no resume tokens
		if err := c.tokenService.RevokeForGame(ctx, code); err != nil {
			c.logger.Warn("failed to revoke resume tokens",
				slog.String("game_code", string(code)),
				slog.String("error", err.Error()),
			)
		}
		c.publisher.Notify(code, model.EventGameFinished, model.GameFinishedPayload{Winner: shooter})
	} else if shot.Result == model.ShotResultMiss {
		c.publisher.Notify(code, model.EventTurnChanged, model.TurnChangedPayload{CurrentTurn: game.CurrentTurn})
	}

	return &shot, game, nil
}

// shipSunkWith reports whether the placement is fully hit once the cell
// being resolved is counted
func shipSunkWith(game *model.Game, target model.PlayerID, placement model.ShipPlacement, pending model.Coordinate) bool {
	hits := game.HitsOn(target)
	hits[pending] = true
	for _, c := range placement.Coordinates() {
		if !hits[c] {
			return false
		}
	}
	return true
}
