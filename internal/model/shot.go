package model

import "time"

// ShotResult classifies a resolved shot
type ShotResult string

const (
	ShotResultMiss ShotResult = "MISS"
	ShotResultHit  ShotResult = "HIT"
	ShotResultSunk ShotResult = "SUNK"

	// ShotResultAlreadyShot is returned to a caller re-targeting a resolved
	// cell. It is never recorded in the shot log: a repeated shot is
	// rejected before any state changes.
	ShotResultAlreadyShot ShotResult = "ALREADY_SHOT"
)

// Shot is an immutable record of one resolved shot against a board
type Shot struct {
	Shooter    PlayerID
	Target     PlayerID // owner of the board that was fired on
	Coordinate Coordinate
	Result     ShotResult
	Order      int // position in the game's shot log, 0-indexed
	CreatedAt  time.Time
}
