package mocks

import (
	"sync"

	"github.com/harborline/battleship-go/internal/events"
	"github.com/harborline/battleship-go/internal/model"
)

// PublishedEvent is one recorded Notify call
type PublishedEvent struct {
	GameCode  model.GameCode
	EventType model.EventType
	Payload   any
}

// MockPublisher records every published event for assertions
type MockPublisher struct {
	mu     sync.Mutex
	events []PublishedEvent
}

// Ensure MockPublisher implements Publisher
var _ events.Publisher = (*MockPublisher)(nil)

// NewMockPublisher creates a new MockPublisher
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// Notify records the event
func (p *MockPublisher) Notify(gameCode model.GameCode, eventType model.EventType, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, PublishedEvent{
		GameCode:  gameCode,
		EventType: eventType,
		Payload:   payload,
	})
}

// Events returns a copy of all recorded events
func (p *MockPublisher) Events() []PublishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PublishedEvent, len(p.events))
	copy(out, p.events)
	return out
}

// EventsOfType returns recorded events matching the given type
func (p *MockPublisher) EventsOfType(eventType model.EventType) []PublishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []PublishedEvent
	for _, e := range p.events {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

// Reset clears all recorded events
func (p *MockPublisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}
