package stream

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/harborline/battleship-go/internal/events"
	"github.com/harborline/battleship-go/internal/model"
)

// Publisher bridges game events onto the SSE hubs. Each event goes out
// as a named SSE event whose data is the JSON envelope below.
type Publisher struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// Ensure Publisher implements events.Publisher
var _ events.Publisher = (*Publisher)(nil)

// NewPublisher creates a new SSE Publisher
func NewPublisher(hubManager *HubManager, logger *slog.Logger) *Publisher {
	return &Publisher{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-publisher")),
	}
}

// Envelope is the JSON shape of every broadcast event
type Envelope struct {
	Type      model.EventType `json:"type"`
	GameCode  model.GameCode  `json:"game_code"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   any             `json:"payload,omitempty"`
}

// Notify broadcasts the event to every client subscribed to the game.
// Events for games with no hub are dropped silently; nobody is listening.
func (p *Publisher) Notify(gameCode model.GameCode, eventType model.EventType, payload any) {
	hub := p.hubManager.GetHub(gameCode)
	if hub == nil {
		return
	}

	data, err := json.Marshal(Envelope{
		Type:      eventType,
		GameCode:  gameCode,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
	if err != nil {
		p.logger.Error("sse failed to marshal event",
			slog.String("game_code", string(gameCode)),
			slog.String("event_type", string(eventType)),
			slog.Any("error", err))
		return
	}

	hub.BroadcastEvent(string(eventType), string(data))
}
