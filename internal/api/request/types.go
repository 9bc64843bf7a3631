package request

// CreateGameRequest is the request body for creating a game. Omitted
// fields fall back to the default configuration.
type CreateGameRequest struct {
	BoardWidth  int            `json:"board_width,omitempty"`
	BoardHeight int            `json:"board_height,omitempty"`
	Fleet       map[string]int `json:"fleet,omitempty"`
	ShipMargin  *int           `json:"ship_margin,omitempty"`
	GraceSecs   int            `json:"grace_period_seconds,omitempty"`
}

// JoinRequest is the request body for joining a game
type JoinRequest struct {
	DisplayName string `json:"display_name"`
}

// EnqueueRequest is the request body for the matchmaking queue
type EnqueueRequest struct {
	DisplayName string `json:"display_name"`
}

// FireRequest is the request body for firing a shot
type FireRequest struct {
	PlayerID string `json:"player_id"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

// ConfirmBoardRequest is the request body for confirming a board layout
type ConfirmBoardRequest struct {
	PlayerID string `json:"player_id"`
}

// RerollBoardRequest is the request body for rerolling a board layout
type RerollBoardRequest struct {
	PlayerID string `json:"player_id"`
}

// PauseRequest is the request body for pausing a game
type PauseRequest struct {
	Reason string `json:"reason,omitempty"`
}

// ResumeRequest is the request body for one half of the resume handshake
type ResumeRequest struct {
	Token string `json:"token"`
}

// ForfeitRequest is the request body for forfeiting a game
type ForfeitRequest struct {
	PlayerID string `json:"player_id"`
}

// ChatRequest is the request body for relaying a chat message
type ChatRequest struct {
	PlayerID string `json:"player_id"`
	Message  string `json:"message"`
}
