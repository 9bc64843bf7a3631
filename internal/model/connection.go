package model

import "time"

// Connection tracks the transport liveness of one player in one game.
// It is best-effort telemetry for the pause/resume protocol, not part of
// the game aggregate.
type Connection struct {
	GameCode  GameCode
	PlayerID  PlayerID
	SessionID SessionID
	Connected bool
	LastSeen  time.Time
}

// ResumeToken is the stored form of a possession-based resume credential.
// Only a keyed digest of the token is persisted; the raw token is handed
// to the player once at issuance.
type ResumeToken struct {
	Digest    string
	GameCode  GameCode
	PlayerID  PlayerID
	CreatedAt time.Time
}
