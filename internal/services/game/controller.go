package game

import (
	"context"
	"log/slog"

	"github.com/harborline/battleship-go/internal/dependencies/clock"
	"github.com/harborline/battleship-go/internal/dependencies/random"
	"github.com/harborline/battleship-go/internal/events"
	"github.com/harborline/battleship-go/internal/model"
	"github.com/harborline/battleship-go/internal/services/placement"
	"github.com/harborline/battleship-go/internal/services/token"
	"github.com/harborline/battleship-go/internal/storage"
)

const (
	// GameCodeLength is the length of generated game codes
	GameCodeLength = 6
	// GameCodeAlphabet is the characters used in game codes (avoid confusing chars)
	GameCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	// playerIDLength is the length of generated player identifiers
	playerIDLength = 12
	// playerIDAlphabet is the characters used in player identifiers
	playerIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Controller owns the game state machine: roster, boards, turn pointer,
// shot log, pause/resume handshake, and winner. All mutating operations
// are serialized per game code.
type Controller struct {
	storage          storage.Storage
	placementService *placement.Service
	tokenService     *token.Service
	publisher        events.Publisher
	clock            clock.Clock
	random           random.Random
	logger           *slog.Logger
	locks            *gameLocks
}

// NewController creates a new game Controller
func NewController(
	storage storage.Storage,
	placementService *placement.Service,
	tokenService *token.Service,
	publisher events.Publisher,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:          storage,
		placementService: placementService,
		tokenService:     tokenService,
		publisher:        publisher,
		clock:            clock,
		random:           random,
		logger:           logger,
		locks:            newGameLocks(),
	}
}

// CreateGame initializes a new game in the waiting state. The config is
// validated up front with a trial placement run, so an infeasible
// board/fleet/margin combination fails here rather than at first join.
func (c *Controller) CreateGame(ctx context.Context, cfg model.GameConfig) (*model.Game, error) {
	if cfg.BoardWidth <= 0 || cfg.BoardHeight <= 0 {
		return nil, model.ErrInvalidBoardSize
	}
	if err := cfg.Fleet.Validate(); err != nil {
		return nil, err
	}
	if cfg.GracePeriod <= 0 {
		cfg.GracePeriod = model.DefaultGameConfig().GracePeriod
	}

	// Trial run: proves the fleet fits before anything is persisted
	if _, err := c.placementService.PlaceFleet(cfg.BoardWidth, cfg.BoardHeight, cfg.Fleet, cfg.ShipMargin); err != nil {
		return nil, err
	}

	now := c.clock.Now()

	// Generate unique game code
	var code model.GameCode
	for {
		code = model.GameCode(c.random.String(GameCodeLength, GameCodeAlphabet))
		exists, err := c.storage.GameExists(ctx, code)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
	}

	game := &model.Game{
		Code:      code,
		Config:    cfg,
		Status:    model.GameStatusWaiting,
		Boards:    make(map[model.PlayerID]*model.Board),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_code", string(code)),
		slog.Int("board_width", cfg.BoardWidth),
		slog.Int("board_height", cfg.BoardHeight),
		slog.Int("fleet_ships", cfg.Fleet.ShipCount()),
		slog.Int("ship_margin", cfg.ShipMargin),
	)

	return game, nil
}

// GetGame retrieves a game by code
func (c *Controller) GetGame(ctx context.Context, code model.GameCode) (*model.Game, error) {
	return c.storage.GetGame(ctx, code)
}

// Join adds a player to a waiting game, auto-places their fleet, and
// issues their resume token. The second join advances the game to setup.
func (c *Controller) Join(ctx context.Context, code model.GameCode, displayName string) (*model.Game, *model.Player, string, error) {
	lock := c.locks.get(code)
	lock.Lock()
	defer lock.Unlock()

	game, err := c.storage.GetGame(ctx, code)
	if err != nil {
		return nil, nil, "", err
	}

	// A waiting game mid-resume-handshake is not joinable; the marker
	// distinguishes it from a pre-game waiting state
	if game.Status != model.GameStatusWaiting || game.ResumeRequestedBy != "" {
		return nil, nil, "", model.ErrGameNotJoinable
	}
	if game.IsFull() {
		return nil, nil, "", model.ErrGameFull
	}

	now := c.clock.Now()
	player := model.Player{
		ID:          model.PlayerID("p_" + c.random.String(playerIDLength, playerIDAlphabet)),
		DisplayName: displayName,
		JoinedAt:    now,
	}

	placements, err := c.placementService.PlaceFleet(
		game.Config.BoardWidth, game.Config.BoardHeight, game.Config.Fleet, game.Config.ShipMargin)
	if err != nil {
		return nil, nil, "", err
	}

	board := model.NewBoard(player.ID, game.Config.BoardWidth, game.Config.BoardHeight)
	board.Placements = placements

	game.Players = append(game.Players, player)
	game.Boards[player.ID] = board
	if game.IsFull() {
		game.Status = model.GameStatusSetup
	}
	game.UpdatedAt = now

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, nil, "", err
	}

	// Tokens are issued only for persisted players
	resumeToken, err := c.tokenService.Issue(ctx, code, player.ID)
	if err != nil {
		return nil, nil, "", err
	}

	c.logger.Info("player joined",
		slog.String("game_code", string(code)),
		slog.String("player_id", string(player.ID)),
		slog.Int("player_count", len(game.Players)),
	)

	c.publisher.Notify(code, model.EventPlayerJoined, model.PlayerJoinedPayload{
		PlayerID:    player.ID,
		DisplayName: player.DisplayName,
		PlayerCount: len(game.Players),
		Status:      game.Status,
	})

	return game, &player, resumeToken, nil
}

// ConfirmBoard locks a player's board layout. Once both boards are locked
// the game starts and the first joiner takes the opening turn.
func (c *Controller) ConfirmBoard(ctx context.Context, code model.GameCode, playerID model.PlayerID) (*model.Game, error) {
	lock := c.locks.get(code)
	lock.Lock()
	defer lock.Unlock()

	game, err := c.storage.GetGame(ctx, code)
	if err != nil {
		return nil, err
	}

	if game.Status != model.GameStatusSetup {
		return nil, model.ErrGameNotInSetup
	}
	if !game.HasPlayer(playerID) {
		return nil, model.ErrNotParticipant
	}

	board := game.BoardOf(playerID)
	if board == nil {
		return nil, model.ErrBoardNotFound
	}
	if board.Locked {
		return nil, model.ErrBoardLocked
	}
	if !board.HasCompleteFleet(game.Config.Fleet) {
		return nil, model.ErrFleetIncomplete
	}

	board.Locked = true

	started := true
	for _, p := range game.Players {
		if b := game.BoardOf(p.ID); b == nil || !b.Locked {
			started = false
		}
	}
	if started {
		game.Status = model.GameStatusRunning
		game.CurrentTurn = game.Players[0].ID
	}
	game.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.publisher.Notify(code, model.EventBoardConfirmed, model.BoardConfirmedPayload{PlayerID: playerID})

	if started {
		c.logger.Info("game started",
			slog.String("game_code", string(code)),
			slog.String("first_turn", string(game.CurrentTurn)),
		)
		c.publisher.Notify(code, model.EventGameStarted, model.GameStartedPayload{FirstTurn: game.CurrentTurn})
	}

	return game, nil
}

// RerollBoard discards a player's placements and reruns the placement
// search from empty. Only permitted while the board is unlocked.
func (c *Controller) RerollBoard(ctx context.Context, code model.GameCode, playerID model.PlayerID) (*model.Game, error) {
	lock := c.locks.get(code)
	lock.Lock()
	defer lock.Unlock()

	game, err := c.storage.GetGame(ctx, code)
	if err != nil {
		return nil, err
	}

	if game.Status != model.GameStatusWaiting && game.Status != model.GameStatusSetup {
		return nil, model.ErrGameNotInSetup
	}
	if !game.HasPlayer(playerID) {
		return nil, model.ErrNotParticipant
	}

	board := game.BoardOf(playerID)
	if board == nil {
		return nil, model.ErrBoardNotFound
	}
	if board.Locked {
		return nil, model.ErrBoardLocked
	}

	placements, err := c.placementService.PlaceFleet(
		game.Config.BoardWidth, game.Config.BoardHeight, game.Config.Fleet, game.Config.ShipMargin)
	if err != nil {
		return nil, err
	}

	board.Placements = placements
	game.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.publisher.Notify(code, model.EventBoardRerolled, model.BoardRerolledPayload{PlayerID: playerID})

	return game, nil
}

// Pause halts a running (or setting-up) game after a connection loss or an
// explicit request. Any stale resume handshake marker is cleared.
func (c *Controller) Pause(ctx context.Context, code model.GameCode, reason string) (*model.Game, error) {
	lock := c.locks.get(code)
	lock.Lock()
	defer lock.Unlock()

	game, err := c.storage.GetGame(ctx, code)
	if err != nil {
		return nil, err
	}

	if game.Status != model.GameStatusRunning && game.Status != model.GameStatusSetup {
		return nil, model.ErrGameNotPausable
	}

	game.ResumeRequestedBy = ""
	game.Status = model.GameStatusPaused
	game.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	c.logger.Info("game paused",
		slog.String("game_code", string(code)),
		slog.String("reason", reason),
	)

	c.publisher.Notify(code, model.EventGamePaused, model.GamePausedPayload{Reason: reason})

	return game, nil
}

// Resume processes one half of the token-authenticated resume handshake.
// The first confirming player moves the game from paused back to waiting
// with the handshake marker set; the second, different player completes
// the handshake and play continues.
func (c *Controller) Resume(ctx context.Context, rawToken string) (*model.Game, error) {
	tok, err := c.tokenService.Validate(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	lock := c.locks.get(tok.GameCode)
	lock.Lock()
	defer lock.Unlock()

	game, err := c.storage.GetGame(ctx, tok.GameCode)
	if err != nil {
		return nil, err
	}
	if !game.HasPlayer(tok.PlayerID) {
		return nil, model.ErrNotParticipant
	}

	switch {
	case game.Status == model.GameStatusPaused:
		game.ResumeRequestedBy = tok.PlayerID
		game.Status = model.GameStatusWaiting
		game.UpdatedAt = c.clock.Now()

		if err := c.storage.SaveGame(ctx, game); err != nil {
			return nil, err
		}

		c.publisher.Notify(game.Code, model.EventGameResumePending, model.GameResumePendingPayload{
			ConfirmedBy: tok.PlayerID,
		})
		return game, nil

	case game.Status == model.GameStatusWaiting && game.ResumeRequestedBy != "":
		if game.ResumeRequestedBy == tok.PlayerID {
			return nil, model.ErrResumeAlreadyAcked
		}

		game.ResumeRequestedBy = ""
		// A game paused during setup goes back to setup; play resumes
		// only when both boards were already locked
		game.Status = model.GameStatusRunning
		for _, p := range game.Players {
			if b := game.BoardOf(p.ID); b == nil || !b.Locked {
				game.Status = model.GameStatusSetup
			}
		}
		game.UpdatedAt = c.clock.Now()

		if err := c.storage.SaveGame(ctx, game); err != nil {
			return nil, err
		}

		c.logger.Info("game resumed",
			slog.String("game_code", string(game.Code)),
			slog.String("status", string(game.Status)),
		)

		c.publisher.Notify(game.Code, model.EventGameResumed, model.GameResumedPayload{
			CurrentTurn: game.CurrentTurn,
		})
		return game, nil

	default:
		return nil, model.ErrResumeNotPending
	}
}

// Forfeit ends a running or paused game in favor of the other participant
func (c *Controller) Forfeit(ctx context.Context, code model.GameCode, playerID model.PlayerID) (*model.Game, error) {
	lock := c.locks.get(code)
	lock.Lock()
	defer lock.Unlock()

	game, err := c.storage.GetGame(ctx, code)
	if err != nil {
		return nil, err
	}

	if game.Status != model.GameStatusRunning && game.Status != model.GameStatusPaused {
		return nil, model.ErrForfeitNotPermitted
	}
	if !game.HasPlayer(playerID) {
		return nil, model.ErrNotParticipant
	}

	game.Status = model.GameStatusFinished
	game.Winner = game.Opponent(playerID)
	game.CurrentTurn = ""
	game.ResumeRequestedBy = ""
	game.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveGame(ctx, game); err != nil {
		return nil, err
	}

	if err := c.tokenService.RevokeForGame(ctx, code); err != nil {
		c.logger.Warn("failed to revoke resume tokens",
			slog.String("game_code", string(code)),
			slog.String("error", err.Error()),
		)
	}

	c.logger.Info("game forfeited",
		slog.String("game_code", string(code)),
		slog.String("forfeited_by", string(playerID)),
		slog.String("winner", string(game.Winner)),
	)

	c.publisher.Notify(code, model.EventGameForfeited, model.GameForfeitedPayload{
		ForfeitedBy: playerID,
		Winner:      game.Winner,
	})

	return game, nil
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateGame(ctx context.Context, cfg model.GameConfig) (*model.Game, error)
	GetGame(ctx context.Context, code model.GameCode) (*model.Game, error)
	Join(ctx context.Context, code model.GameCode, displayName string) (*model.Game, *model.Player, string, error)
	ConfirmBoard(ctx context.Context, code model.GameCode, playerID model.PlayerID) (*model.Game, error)
	RerollBoard(ctx context.Context, code model.GameCode, playerID model.PlayerID) (*model.Game, error)
	Fire(ctx context.Context, code model.GameCode, shooter model.PlayerID, coord model.Coordinate) (*model.Shot, *model.Game, error)
	Pause(ctx context.Context, code model.GameCode, reason string) (*model.Game, error)
	Resume(ctx context.Context, rawToken string) (*model.Game, error)
	Forfeit(ctx context.Context, code model.GameCode, playerID model.PlayerID) (*model.Game, error)
}

var _ ControllerInterface = (*Controller)(nil)
