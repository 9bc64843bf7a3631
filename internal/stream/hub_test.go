package stream

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/harborline/battleship-go/internal/model"
	"github.com/harborline/battleship-go/internal/testutil"
)

func TestFormatSSEMessage(t *testing.T) {
	tests := []struct {
		name      string
		eventName string
		data      string
		expected  string
	}{
		{
			name:      "single line data",
			eventName: "shot_fired",
			data:      `{"x":3,"y":4}`,
			expected:  "event: shot_fired\ndata: {\"x\":3,\"y\":4}\n\n",
		},
		{
			name:      "multi-line data",
			eventName: "chat_message",
			data:      "line1\nline2",
			expected:  "event: chat_message\ndata: line1\ndata: line2\n\n",
		},
		{
			name:      "empty data",
			eventName: "ping",
			data:      "",
			expected:  "event: ping\ndata: \n\n",
		},
		{
			name:      "data with carriage returns",
			eventName: "test",
			data:      "line1\r\nline2",
			expected:  "event: test\ndata: line1\ndata: line2\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatSSEMessage(tt.eventName, tt.data)
			if string(result) != tt.expected {
				t.Errorf("formatSSEMessage(%q, %q)\ngot:  %q\nwant: %q",
					tt.eventName, tt.data, string(result), tt.expected)
			}
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "single line",
			input:    "hello",
			expected: []string{"hello"},
		},
		{
			name:     "two lines",
			input:    "line1\nline2",
			expected: []string{"line1", "line2"},
		},
		{
			name:     "trailing newline",
			input:    "line1\n",
			expected: []string{"line1"},
		},
		{
			name:     "empty string",
			input:    "",
			expected: []string{""},
		},
		{
			name:     "crlf line endings",
			input:    "line1\r\nline2\r\n",
			expected: []string{"line1", "line2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitLines(tt.input)
			if len(result) != len(tt.expected) {
				t.Errorf("splitLines(%q) returned %d lines, want %d",
					tt.input, len(result), len(tt.expected))
				return
			}
			for i, line := range result {
				if line != tt.expected[i] {
					t.Errorf("splitLines(%q)[%d] = %q, want %q",
						tt.input, i, line, tt.expected[i])
				}
			}
		})
	}
}

func TestHub_RegisterAndBroadcast(t *testing.T) {
	hub := NewHub("GAME01", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	client := NewClient(hub, "p_alice", "sess-1")
	hub.Register(client)

	// Give the hub time to process registration
	time.Sleep(10 * time.Millisecond)

	if hub.ClientCount() != 1 {
		t.Errorf("ClientCount() = %d, want 1", hub.ClientCount())
	}

	hub.BroadcastEvent("shot_fired", "test data")

	select {
	case msg := <-client.send:
		expected := "event: shot_fired\ndata: test data\n\n"
		if string(msg) != expected {
			t.Errorf("client received %q, want %q", string(msg), expected)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("client did not receive message")
	}
}

func TestHub_Unregister(t *testing.T) {
	hub := NewHub("GAME01", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	client := NewClient(hub, "p_alice", "sess-1")
	hub.Register(client)

	time.Sleep(10 * time.Millisecond)

	if hub.ClientCount() != 1 {
		t.Errorf("ClientCount() = %d, want 1", hub.ClientCount())
	}

	hub.Unregister(client)
	time.Sleep(10 * time.Millisecond)

	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d after unregister, want 0", hub.ClientCount())
	}
}

func TestHub_BroadcastToMultipleClients(t *testing.T) {
	hub := NewHub("GAME01", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	client1 := NewClient(hub, "p_alice", "sess-1")
	client2 := NewClient(hub, "p_bob", "sess-2")

	hub.Register(client1)
	hub.Register(client2)

	time.Sleep(10 * time.Millisecond)

	if hub.ClientCount() != 2 {
		t.Errorf("ClientCount() = %d, want 2", hub.ClientCount())
	}

	hub.BroadcastEvent("turn_changed", "data")

	for i, client := range []*Client{client1, client2} {
		select {
		case msg := <-client.send:
			expected := "event: turn_changed\ndata: data\n\n"
			if string(msg) != expected {
				t.Errorf("client %d received %q, want %q", i+1, string(msg), expected)
			}
		case <-time.After(100 * time.Millisecond):
			t.Errorf("client %d did not receive message", i+1)
		}
	}
}

func TestHubManager_GetOrCreateHub(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())

	hub1 := manager.GetOrCreateHub("GAME01")
	if hub1 == nil {
		t.Fatal("GetOrCreateHub returned nil")
	}

	// Same code returns the same hub
	hub2 := manager.GetOrCreateHub("GAME01")
	if hub1 != hub2 {
		t.Error("GetOrCreateHub returned different hub for same code")
	}

	hub3 := manager.GetOrCreateHub("GAME02")
	if hub3 == hub1 {
		t.Error("GetOrCreateHub returned same hub for different code")
	}

	manager.RemoveHub("GAME01")
	manager.RemoveHub("GAME02")
}

func TestHubManager_GetHubMissing(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())

	if hub := manager.GetHub("GAME01"); hub != nil {
		t.Error("GetHub returned a hub for a code that was never created")
	}
}

func TestHubManager_CleanupEmptyHubs(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())

	empty := manager.GetOrCreateHub("GAME01")
	busy := manager.GetOrCreateHub("GAME02")

	client := NewClient(busy, "p_alice", "sess-1")
	busy.Register(client)
	time.Sleep(10 * time.Millisecond)

	manager.CleanupEmptyHubs()

	if manager.GetHub("GAME01") != nil {
		t.Error("empty hub survived cleanup")
	}
	if manager.GetHub("GAME02") != busy {
		t.Error("hub with a client was removed by cleanup")
	}
	_ = empty
}

func TestPublisher_NotifyBroadcastsEnvelope(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	publisher := NewPublisher(manager, testutil.NopLogger())

	hub := manager.GetOrCreateHub("GAME01")
	client := NewClient(hub, "p_alice", "sess-1")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	publisher.Notify("GAME01", model.EventShotFired, model.ShotFiredPayload{
		Shooter: "p_alice",
		Result:  model.ShotResultMiss,
	})

	select {
	case msg := <-client.send:
		lines := splitLines(string(msg))
		if lines[0] != "event: "+string(model.EventShotFired) {
			t.Errorf("unexpected event line %q", lines[0])
		}
		var env Envelope
		if err := json.Unmarshal([]byte(lines[1][len("data: "):]), &env); err != nil {
			t.Fatalf("envelope did not parse: %v", err)
		}
		if env.Type != model.EventShotFired || env.GameCode != "GAME01" {
			t.Errorf("unexpected envelope %+v", env)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("client did not receive event")
	}
}

func TestPublisher_NotifyWithoutHubIsNoop(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	publisher := NewPublisher(manager, testutil.NopLogger())

	// No hub exists for the game; nothing to deliver, nothing to panic
	publisher.Notify("GAME09", model.EventGameStarted, nil)
}
