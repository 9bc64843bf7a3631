package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/harborline/battleship-go/internal/api/request"
	"github.com/harborline/battleship-go/internal/api/response"
	"github.com/harborline/battleship-go/internal/dependencies/random"
	"github.com/harborline/battleship-go/internal/events"
	"github.com/harborline/battleship-go/internal/model"
	"github.com/harborline/battleship-go/internal/services/connection"
	"github.com/harborline/battleship-go/internal/services/game"
	"github.com/harborline/battleship-go/internal/stream"
)

const (
	sessionIDLength   = 16
	sessionIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

	maxChatMessageLength = 500
)

// StreamHandler handles the SSE event stream and the chat relay
type StreamHandler struct {
	gameController    game.ControllerInterface
	connectionService connection.ServiceInterface
	hubManager        *stream.HubManager
	publisher         events.Publisher
	random            random.Random
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(
	gameController game.ControllerInterface,
	connectionService connection.ServiceInterface,
	hubManager *stream.HubManager,
	publisher events.Publisher,
	random random.Random,
) *StreamHandler {
	return &StreamHandler{
		gameController:    gameController,
		connectionService: connectionService,
		hubManager:        hubManager,
		publisher:         publisher,
		random:            random,
	}
}

// Events handles GET /api/v1/games/{code}/events. The SSE stream doubles
// as the liveness signal: opening it marks the player connected, and the
// stream ending marks them disconnected and starts the grace period.
func (h *StreamHandler) Events(w http.ResponseWriter, r *http.Request) {
	code := model.GameCode(mux.Vars(r)["code"])
	playerID := model.PlayerID(r.URL.Query().Get("player_id"))
	if playerID == "" {
		WriteError(w, NewInvalidRequestError("player_id is required"))
		return
	}

	sessionID := model.SessionID(h.random.String(sessionIDLength, sessionIDAlphabet))

	if err := h.connectionService.Subscribe(r.Context(), code, playerID, sessionID); err != nil {
		WriteError(w, err)
		return
	}

	hub := h.hubManager.GetOrCreateHub(code)

	// Blocks until the client goes away
	stream.ServeSSE(w, r, hub, playerID, sessionID)

	// The request context is done at this point; use a fresh one so the
	// disconnect is still recorded
	_ = h.connectionService.Disconnect(context.Background(), code, playerID, sessionID)
}

// Chat handles POST /api/v1/games/{code}/chat. Messages are relayed to
// subscribers as events and never persisted.
func (h *StreamHandler) Chat(w http.ResponseWriter, r *http.Request) {
	code := model.GameCode(mux.Vars(r)["code"])

	var req request.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Message == "" {
		WriteError(w, NewInvalidRequestError("message is required"))
		return
	}
	if len(req.Message) > maxChatMessageLength {
		WriteError(w, NewInvalidRequestError("message is too long"))
		return
	}

	g, err := h.gameController.GetGame(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	playerID := model.PlayerID(req.PlayerID)
	if !g.HasPlayer(playerID) {
		WriteError(w, model.ErrNotParticipant)
		return
	}

	displayName := ""
	for _, p := range g.Players {
		if p.ID == playerID {
			displayName = p.DisplayName
		}
	}

	h.publisher.Notify(code, model.EventChatMessage, model.ChatMessagePayload{
		PlayerID:    playerID,
		DisplayName: displayName,
		Message:     req.Message,
	})

	response.NoContent(w)
}
