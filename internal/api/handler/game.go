package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/harborline/battleship-go/internal/api/request"
	"github.com/harborline/battleship-go/internal/api/response"
	"github.com/harborline/battleship-go/internal/model"
	"github.com/harborline/battleship-go/internal/services/game"
)

// GameHandler handles game lifecycle endpoints
type GameHandler struct {
	gameController game.ControllerInterface
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameController game.ControllerInterface) *GameHandler {
	return &GameHandler{
		gameController: gameController,
	}
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, NewInvalidRequestError("invalid request body"))
			return
		}
	}

	cfg := model.DefaultGameConfig()
	if req.BoardWidth > 0 {
		cfg.BoardWidth = req.BoardWidth
	}
	if req.BoardHeight > 0 {
		cfg.BoardHeight = req.BoardHeight
	}
	if len(req.Fleet) > 0 {
		fleet := make(model.FleetDefinition, len(req.Fleet))
		for ship, count := range req.Fleet {
			fleet[model.ShipType(ship)] = count
		}
		cfg.Fleet = fleet
	}
	if req.ShipMargin != nil {
		cfg.ShipMargin = *req.ShipMargin
	}
	if req.GraceSecs > 0 {
		cfg.GracePeriod = time.Duration(req.GraceSecs) * time.Second
	}

	g, err := h.gameController.CreateGame(r.Context(), cfg)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameFromModel(g, ""))
}

// Get handles GET /api/v1/games/{code}. The optional player_id query
// parameter selects whose ship positions are revealed.
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := model.GameCode(mux.Vars(r)["code"])
	viewer := model.PlayerID(r.URL.Query().Get("player_id"))

	g, err := h.gameController.GetGame(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g, viewer))
}

// Join handles POST /api/v1/games/{code}/join
func (h *GameHandler) Join(w http.ResponseWriter, r *http.Request) {
	code := model.GameCode(mux.Vars(r)["code"])

	var req request.JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.DisplayName == "" {
		WriteError(w, NewInvalidRequestError("display_name is required"))
		return
	}

	g, player, token, err := h.gameController.Join(r.Context(), code, req.DisplayName)
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

// ConfirmBoard handles POST /api/v1/games/{code}/board/confirm
func (h *GameHandler) ConfirmBoard(w http.ResponseWriter, r *http.Request) {
	code := model.GameCode(mux.Vars(r)["code"])

	var req request.ConfirmBoardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	playerID := model.PlayerID(req.PlayerID)
	g, err := h.gameController.ConfirmBoard(r.Context(), code, playerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g, playerID))
}

// RerollBoard handles POST /api/v1/games/{code}/board/reroll
func (h *GameHandler) RerollBoard(w http.ResponseWriter, r *http.Request) {
	code := model.GameCode(mux.Vars(r)["code"])

	var req request.RerollBoardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	playerID := model.PlayerID(req.PlayerID)
	g, err := h.gameController.RerollBoard(r.Context(), code, playerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g, playerID))
}

// Fire handles POST /api/v1/games/{code}/fire
func (h *GameHandler) Fire(w http.ResponseWriter, r *http.Request) {
	code := model.GameCode(mux.Vars(r)["code"])

	var req request.FireRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	playerID := model.PlayerID(req.PlayerID)
	coord := model.Coordinate{X: req.X, Y: req.Y}
	shot, g, err := h.gameController.Fire(r.Context(), code, playerID, coord)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.FireResponse{
		Shot: response.ShotFromModel(*shot),
		Game: response.GameFromModel(g, playerID),
	})
}

// Pause handles POST /api/v1/games/{code}/pause
func (h *GameHandler) Pause(w http.ResponseWriter, r *http.Request) {
	code := model.GameCode(mux.Vars(r)["code"])

	var req request.PauseRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, NewInvalidRequestError("invalid request body"))
			return
		}
	}
	if req.Reason == "" {
		req.Reason = "requested"
	}

	g, err := h.gameController.Pause(r.Context(), code, req.Reason)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g, ""))
}

// Resume handles POST /api/v1/resume. The resume token in the body both
// authenticates the caller and identifies the game; no other credential
// is needed.
func (h *GameHandler) Resume(w http.ResponseWriter, r *http.Request) {
	var req request.ResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Token == "" {
		WriteError(w, NewInvalidRequestError("token is required"))
		return
	}

	g, err := h.gameController.Resume(r.Context(), req.Token)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g, ""))
}

// Forfeit handles POST /api/v1/games/{code}/forfeit
func (h *GameHandler) Forfeit(w http.ResponseWriter, r *http.Request) {
	code := model.GameCode(mux.Vars(r)["code"])

	var req request.ForfeitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	playerID := model.PlayerID(req.PlayerID)
	g, err := h.gameController.Forfeit(r.Context(), code, playerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g, playerID))
}
