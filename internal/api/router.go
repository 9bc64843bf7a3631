package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/harborline/battleship-go/internal/api/handler"
	apimiddleware "github.com/harborline/battleship-go/internal/api/middleware"
	"github.com/harborline/battleship-go/internal/dependencies/random"
	"github.com/harborline/battleship-go/internal/events"
	"github.com/harborline/battleship-go/internal/middleware"
	"github.com/harborline/battleship-go/internal/services/connection"
	"github.com/harborline/battleship-go/internal/services/game"
	"github.com/harborline/battleship-go/internal/services/matchmaking"
	"github.com/harborline/battleship-go/internal/stream"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger             *slog.Logger
	GameController     game.ControllerInterface
	ConnectionService  connection.ServiceInterface
	MatchmakingService matchmaking.ServiceInterface
	HubManager         *stream.HubManager
	Publisher          events.Publisher
	Random             random.Random
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	gameHandler := handler.NewGameHandler(cfg.GameController)
	streamHandler := handler.NewStreamHandler(
		cfg.GameController, cfg.ConnectionService, cfg.HubManager, cfg.Publisher, cfg.Random)
	matchmakingHandler := handler.NewMatchmakingHandler(cfg.MatchmakingService)

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Game lifecycle
	games := api.PathPrefix("/games").Subrouter()
	games.HandleFunc("", gameHandler.Create).Methods(http.MethodPost)
	games.HandleFunc("/{code}", gameHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("/{code}/join", gameHandler.Join).Methods(http.MethodPost)
	games.HandleFunc("/{code}/board/confirm", gameHandler.ConfirmBoard).Methods(http.MethodPost)
	games.HandleFunc("/{code}/board/reroll", gameHandler.RerollBoard).Methods(http.MethodPost)
	games.HandleFunc("/{code}/fire", gameHandler.Fire).Methods(http.MethodPost)
	games.HandleFunc("/{code}/pause", gameHandler.Pause).Methods(http.MethodPost)
	games.HandleFunc("/{code}/forfeit", gameHandler.Forfeit).Methods(http.MethodPost)

	// Event stream and chat relay
	games.HandleFunc("/{code}/events", streamHandler.Events).Methods(http.MethodGet)
	games.HandleFunc("/{code}/chat", streamHandler.Chat).Methods(http.MethodPost)

	// The resume token identifies the game, so resume lives off the
	// game subtree
	api.HandleFunc("/resume", gameHandler.Resume).Methods(http.MethodPost)

	// Quick-match queue
	api.HandleFunc("/matchmaking", matchmakingHandler.Enqueue).Methods(http.MethodPost)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
