package events

import (
	"github.com/harborline/battleship-go/internal/model"
)

// Publisher fans game events out to whoever is listening. Notify is
// fire-and-forget: publishers never block game operations and delivery
// failures are not surfaced to the core.
type Publisher interface {
	Notify(gameCode model.GameCode, eventType model.EventType, payload any)
}

// NopPublisher discards all events
type NopPublisher struct{}

// Ensure NopPublisher implements Publisher
var _ Publisher = (*NopPublisher)(nil)

// NewNopPublisher creates a publisher that discards everything
func NewNopPublisher() *NopPublisher {
	return &NopPublisher{}
}

// Notify discards the event
func (p *NopPublisher) Notify(gameCode model.GameCode, eventType model.EventType, payload any) {
}
