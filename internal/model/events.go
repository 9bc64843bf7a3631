package model

// EventType identifies the type of event published to game subscribers
type EventType string

const (
	// Roster and setup events
	EventPlayerJoined   EventType = "player_joined"
	EventBoardConfirmed EventType = "board_confirmed"
	EventBoardRerolled  EventType = "board_rerolled"
	EventGameStarted    EventType = "game_started"

	// Play events
	EventShotFired    EventType = "shot_fired"
	EventTurnChanged  EventType = "turn_changed"
	EventGameFinished EventType = "game_finished"

	// Pause/resume events
	EventGamePaused        EventType = "game_paused"
	EventGameResumePending EventType = "game_resume_pending"
	EventGameResumed       EventType = "game_resumed"
	EventGameForfeited     EventType = "game_forfeited"

	// Connection events
	EventPlayerDisconnected EventType = "player_disconnected"
	EventPlayerReconnected  EventType = "player_reconnected"

	// Chat relay
	EventChatMessage EventType = "chat_message"
)

// PlayerJoinedPayload contains data for player joined events
type PlayerJoinedPayload struct {
	PlayerID    PlayerID   `json:"player_id"`
	DisplayName string     `json:"display_name"`
	PlayerCount int        `json:"player_count"`
	Status      GameStatus `json:"status"`
}

// BoardConfirmedPayload contains data for board confirmed events
type BoardConfirmedPayload struct {
	PlayerID PlayerID `json:"player_id"`
}

// BoardRerolledPayload contains data for board rerolled events
type BoardRerolledPayload struct {
	PlayerID PlayerID `json:"player_id"`
}

// GameStartedPayload contains data for game started events
type GameStartedPayload struct {
	FirstTurn PlayerID `json:"first_turn"`
}

// ShotFiredPayload contains data for shot fired events
type ShotFiredPayload struct {
	Shooter    PlayerID   `json:"shooter"`
	Target     PlayerID   `json:"target"`
	Coordinate Coordinate `json:"coordinate"`
	Result     ShotResult `json:"result"`
}

// TurnChangedPayload contains data for turn changed events
type TurnChangedPayload struct {
	CurrentTurn PlayerID `json:"current_turn"`
}

// GameFinishedPayload contains data for game finished events
type GameFinishedPayload struct {
	Winner PlayerID `json:"winner"`
}

// GamePausedPayload contains data for game paused events
type GamePausedPayload struct {
	Reason string `json:"reason"`
}

// GameResumePendingPayload contains data for the first half of the
// resume handshake
type GameResumePendingPayload struct {
	ConfirmedBy PlayerID `json:"confirmed_by"`
}

// GameResumedPayload contains data for game resumed events
type GameResumedPayload struct {
	CurrentTurn PlayerID `json:"current_turn"`
}

// GameForfeitedPayload contains data for game forfeited events
type GameForfeitedPayload struct {
	ForfeitedBy PlayerID `json:"forfeited_by"`
	Winner      PlayerID `json:"winner"`
}

// ConnectionPayload contains data for player connection events
type ConnectionPayload struct {
	PlayerID  PlayerID  `json:"player_id"`
	SessionID SessionID `json:"session_id"`
}

// ChatMessagePayload contains data for relayed chat messages
type ChatMessagePayload struct {
	PlayerID    PlayerID `json:"player_id"`
	DisplayName string   `json:"display_name"`
	Message     string   `json:"message"`
}
