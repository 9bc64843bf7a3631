package model

import "errors"

// Common errors used across the application
var (
	// Not-found errors
	ErrGameNotFound       = errors.New("game not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrBoardNotFound      = errors.New("board not found")
	ErrConnectionNotFound = errors.New("connection not found")
	ErrTokenNotFound      = errors.New("resume token not found")

	// Invalid-transition errors: the operation is outside its legal state set
	ErrGameFull            = errors.New("game already has two players")
	ErrGameNotJoinable     = errors.New("game is not accepting players")
	ErrGameNotRunning      = errors.New("game is not running")
	ErrGameNotInSetup      = errors.New("game is not in setup")
	ErrGameNotPausable     = errors.New("game cannot be paused in its current state")
	ErrGameFinished        = errors.New("game is already finished")
	ErrBoardLocked         = errors.New("board is already locked")
	ErrFleetIncomplete     = errors.New("board does not hold a complete fleet")
	ErrNotPlayerTurn       = errors.New("not this player's turn")
	ErrAlreadyShot         = errors.New("coordinate was already shot")
	ErrResumeNotPending    = errors.New("no resume handshake is pending")
	ErrResumeAlreadyAcked  = errors.New("player has already confirmed the resume")
	ErrForfeitNotPermitted = errors.New("game cannot be forfeited in its current state")

	// Invalid-argument errors
	ErrInvalidCoordinate = errors.New("coordinate is out of bounds")
	ErrInvalidBoardSize  = errors.New("invalid board dimensions")
	ErrInvalidFleet      = errors.New("invalid fleet definition")

	// Authorization errors
	ErrNotParticipant = errors.New("player is not a participant in this game")

	// ErrPlacementInfeasible means the fleet cannot fit the board under the
	// configured margin; fatal at creation or reroll time
	ErrPlacementInfeasible = errors.New("fleet cannot be placed on the board")
)
