package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/harborline/battleship-go/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeInvalidCoordinate   = "INVALID_COORDINATE"
	CodeInvalidBoardSize    = "INVALID_BOARD_SIZE"
	CodeInvalidFleet        = "INVALID_FLEET"
	CodeInvalidToken        = "INVALID_TOKEN"
	CodeGameNotFound        = "GAME_NOT_FOUND"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeBoardNotFound       = "BOARD_NOT_FOUND"
	CodeGameFull            = "GAME_FULL"
	CodeGameNotJoinable     = "GAME_NOT_JOINABLE"
	CodeGameNotRunning      = "GAME_NOT_RUNNING"
	CodeGameNotInSetup      = "GAME_NOT_IN_SETUP"
	CodeGameNotPausable     = "GAME_NOT_PAUSABLE"
	CodeGameFinished        = "GAME_FINISHED"
	CodeBoardLocked         = "BOARD_LOCKED"
	CodeFleetIncomplete     = "FLEET_INCOMPLETE"
	CodeNotYourTurn         = "NOT_YOUR_TURN"
	CodeAlreadyShot         = "ALREADY_SHOT"
	CodeResumeNotPending    = "RESUME_NOT_PENDING"
	CodeResumeAlreadyAcked  = "RESUME_ALREADY_ACKED"
	CodeForfeitNotPermitted = "FORFEIT_NOT_PERMITTED"
	CodeNotParticipant      = "NOT_PARTICIPANT"
	CodePlacementInfeasible = "PLACEMENT_INFEASIBLE"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrBoardNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeBoardNotFound, "Board not found"}}
	case errors.Is(err, model.ErrTokenNotFound):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidToken, "Invalid or revoked resume token"}}
	case errors.Is(err, model.ErrGameFull):
		return &httpError{http.StatusConflict, APIError{CodeGameFull, "Game already has two players"}}
	case errors.Is(err, model.ErrGameNotJoinable):
		return &httpError{http.StatusConflict, APIError{CodeGameNotJoinable, "Game is not accepting players"}}
	case errors.Is(err, model.ErrGameNotRunning):
		return &httpError{http.StatusConflict, APIError{CodeGameNotRunning, "Game is not running"}}
	case errors.Is(err, model.ErrGameNotInSetup):
		return &httpError{http.StatusConflict, APIError{CodeGameNotInSetup, "Game is not in setup"}}
	case errors.Is(err, model.ErrGameNotPausable):
		return &httpError{http.StatusConflict, APIError{CodeGameNotPausable, "Game cannot be paused right now"}}
	case errors.Is(err, model.ErrGameFinished):
		return &httpError{http.StatusConflict, APIError{CodeGameFinished, "Game is already finished"}}
	case errors.Is(err, model.ErrBoardLocked):
		return &httpError{http.StatusConflict, APIError{CodeBoardLocked, "Board layout is already confirmed"}}
	case errors.Is(err, model.ErrFleetIncomplete):
		return &httpError{http.StatusConflict, APIError{CodeFleetIncomplete, "Board does not hold a complete fleet"}}
	case errors.Is(err, model.ErrNotPlayerTurn):
		return &httpError{http.StatusForbidden, APIError{CodeNotYourTurn, "Not your turn"}}
	case errors.Is(err, model.ErrAlreadyShot):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyShot, "Coordinate was already shot"}}
	case errors.Is(err, model.ErrResumeNotPending):
		return &httpError{http.StatusConflict, APIError{CodeResumeNotPending, "No resume handshake is pending"}}
	case errors.Is(err, model.ErrResumeAlreadyAcked):
		return &httpError{http.StatusConflict, APIError{CodeResumeAlreadyAcked, "You have already confirmed the resume"}}
	case errors.Is(err, model.ErrForfeitNotPermitted):
		return &httpError{http.StatusConflict, APIError{CodeForfeitNotPermitted, "Game cannot be forfeited right now"}}
	case errors.Is(err, model.ErrNotParticipant):
		return &httpError{http.StatusForbidden, APIError{CodeNotParticipant, "You are not a participant in this game"}}
	case errors.Is(err, model.ErrInvalidCoordinate):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidCoordinate, "Coordinate is out of bounds"}}
	case errors.Is(err, model.ErrInvalidBoardSize):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidBoardSize, "Invalid board dimensions"}}
	case errors.Is(err, model.ErrInvalidFleet):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidFleet, "Invalid fleet definition"}}
	case errors.Is(err, model.ErrPlacementInfeasible):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodePlacementInfeasible, "Fleet cannot be placed on a board of this size"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
