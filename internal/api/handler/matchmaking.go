package handler

import (
	"encoding/json"
	"net/http"

	"github.com/harborline/battleship-go/internal/api/request"
	"github.com/harborline/battleship-go/internal/api/response"
	"github.com/harborline/battleship-go/internal/services/matchmaking"
)

// MatchmakingHandler handles the quick-match queue
type MatchmakingHandler struct {
	matchmakingService matchmaking.ServiceInterface
}

// NewMatchmakingHandler creates a new matchmaking handler
func NewMatchmakingHandler(matchmakingService matchmaking.ServiceInterface) *MatchmakingHandler {
	return &MatchmakingHandler{
		matchmakingService: matchmakingService,
	}
}

// Enqueue handles POST /api/v1/matchmaking. The caller either opens a
// fresh game and waits, or fills the pending one and both players move
// to setup.
func (h *MatchmakingHandler) Enqueue(w http.ResponseWriter, r *http.Request) {
	var req request.EnqueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.DisplayName == "" {
		WriteError(w, NewInvalidRequestError("display_name is required"))
		return
	}

	g, player, token, err := h.matchmakingService.Enqueue(r.Context(), req.DisplayName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.JoinResponse{
		Game:        response.GameFromModel(g, player.ID),
		Player:      response.PlayerFromModel(player),
		ResumeToken: token,
	})
}
