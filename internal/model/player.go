package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// SessionID identifies a single transport connection for a player.
// A player may reconnect with a new session after a network drop.
type SessionID string

// Player represents a game participant
type Player struct {
	ID          PlayerID
	DisplayName string
	JoinedAt    time.Time
}
