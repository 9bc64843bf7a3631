package e2e_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborline/battleship-go/internal/api"
	"github.com/harborline/battleship-go/internal/factory"
	"github.com/harborline/battleship-go/internal/model"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "bship-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/bshipctl")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	// Create temp token file
	tokenFile := filepath.Join(t.TempDir(), "token")

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  tokenFile,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	app      *factory.App
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:             logger,
		GameController:     app.GameController,
		ConnectionService:  app.ConnectionService,
		MatchmakingService: app.MatchmakingService,
		HubManager:         app.HubManager,
		Publisher:          app.Publisher,
		Random:             app.Random,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		app:  app,
		addr: serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing

type playerResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type boardResponse struct {
	Owner      string `json:"owner"`
	Locked     bool   `json:"locked"`
	Placements []struct {
		Ship        string `json:"ship"`
		X           int    `json:"x"`
		Y           int    `json:"y"`
		Orientation string `json:"orientation"`
	} `json:"placements"`
}

type gameResponse struct {
	Code   string `json:"code"`
	Status string `json:"status"`
	Config struct {
		BoardWidth  int `json:"board_width"`
		BoardHeight int `json:"board_height"`
	} `json:"config"`
	Players     []playerResponse `json:"players"`
	Boards      []boardResponse  `json:"boards"`
	CurrentTurn *string          `json:"current_turn"`
	Winner      *string          `json:"winner"`
}

type joinResponse struct {
	Game        gameResponse   `json:"game"`
	Player      playerResponse `json:"player"`
	ResumeToken string         `json:"resume_token"`
}

type fireResponse struct {
	Shot struct {
		Result string `json:"result"`
		Order  int    `json:"order"`
	} `json:"shot"`
	Game gameResponse `json:"game"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// Helpers

// setupGame creates a game and joins both players via the CLI
func setupGame(t *testing.T, cli *cliRunner) (string, joinResponse, joinResponse) {
	t.Helper()

	output, err := cli.run("game", "create")
	require.NoError(t, err, "output: %s", output)
	var game gameResponse
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	code := game.Code

	output, err = cli.run("game", "join", code, "--name", "Alice")
	require.NoError(t, err, "output: %s", output)
	var alice joinResponse
	require.NoError(t, json.Unmarshal([]byte(output), &alice))

	output, err = cli.run("game", "join", code, "--name", "Bob")
	require.NoError(t, err, "output: %s", output)
	var bob joinResponse
	require.NoError(t, json.Unmarshal([]byte(output), &bob))

	return code, alice, bob
}

// confirmBoards locks both boards, starting the game
func confirmBoards(t *testing.T, cli *cliRunner, code string, players ...string) gameResponse {
	t.Helper()

	var game gameResponse
	for _, playerID := range players {
		output, err := cli.run("game", "confirm", code, "--player", playerID)
		require.NoError(t, err, "output: %s", output)
		require.NoError(t, json.Unmarshal([]byte(output), &game))
	}
	return game
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_GameLifecycle(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Create with custom dimensions
	output, err := cli.run("game", "create", "--width", "12", "--height", "12")
	require.NoError(t, err, "output: %s", output)
	var game gameResponse
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	assert.Equal(t, "waiting", game.Status)
	assert.Equal(t, 12, game.Config.BoardWidth)
	code := game.Code

	// Alice joins and gets a dealt fleet plus a resume token
	output, err = cli.run("game", "join", code, "--name", "Alice")
	require.NoError(t, err, "output: %s", output)
	var alice joinResponse
	require.NoError(t, json.Unmarshal([]byte(output), &alice))
	assert.Equal(t, "Alice", alice.Player.DisplayName)
	assert.NotEmpty(t, alice.ResumeToken)
	require.Len(t, alice.Game.Boards, 1)
	assert.NotEmpty(t, alice.Game.Boards[0].Placements)

	// Alice can reroll before confirming
	output, err = cli.run("game", "reroll", code, "--player", alice.Player.ID)
	require.NoError(t, err, "output: %s", output)

	// Bob joins; game enters setup
	output, err = cli.run("game", "join", code, "--name", "Bob")
	require.NoError(t, err, "output: %s", output)
	var bob joinResponse
	require.NoError(t, json.Unmarshal([]byte(output), &bob))
	assert.Equal(t, "setup", bob.Game.Status)

	// Both confirm; game starts with Alice (first joiner) to move
	game = confirmBoards(t, cli, code, alice.Player.ID, bob.Player.ID)
	assert.Equal(t, "running", game.Status)
	require.NotNil(t, game.CurrentTurn)
	assert.Equal(t, alice.Player.ID, *game.CurrentTurn)

	// Bob cannot fire out of turn
	output, err = cli.run("game", "fire", code, "0", "0", "--player", bob.Player.ID)
	assert.Error(t, err, "out-of-turn shot should fail")
	assert.Contains(t, strings.ToLower(output), "turn")

	// Alice fires
	output, err = cli.run("game", "fire", code, "0", "0", "--player", alice.Player.ID)
	require.NoError(t, err, "output: %s", output)
	var fire fireResponse
	require.NoError(t, json.Unmarshal([]byte(output), &fire))
	assert.Contains(t, []string{"MISS", "HIT", "SUNK"}, fire.Shot.Result)
	assert.Equal(t, 0, fire.Shot.Order)

	// Chat relays for participants
	output, err = cli.run("game", "chat", code, "gl hf", "--player", alice.Player.ID)
	require.NoError(t, err, "output: %s", output)
}

func TestCLI_FullGameToVictory(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	code, alice, bob := setupGame(t, cli)
	confirmBoards(t, cli, code, alice.Player.ID, bob.Player.ID)

	// Read Bob's fleet from storage; the API hides it from Alice mid-game
	g, err := ts.app.Storage.GetGame(context.Background(), model.GameCode(code))
	require.NoError(t, err)

	var final fireResponse
	for _, placement := range g.Boards[model.PlayerID(bob.Player.ID)].Placements {
		for _, cell := range placement.Coordinates() {
			output, err := cli.run("game", "fire", code,
				fmt.Sprintf("%d", cell.X), fmt.Sprintf("%d", cell.Y),
				"--player", alice.Player.ID)
			require.NoError(t, err, "output: %s", output)
			require.NoError(t, json.Unmarshal([]byte(output), &final))
			require.NotEqual(t, "MISS", final.Shot.Result)
		}
	}

	assert.Equal(t, "finished", final.Game.Status)
	require.NotNil(t, final.Game.Winner)
	assert.Equal(t, alice.Player.ID, *final.Game.Winner)

	// No further shots are accepted
	output, err := cli.run("game", "fire", code, "9", "9", "--player", alice.Player.ID)
	assert.Error(t, err, "shot after finish should fail")
	assert.Contains(t, strings.ToLower(output), "not running")

	// The finished game reveals both fleets to a spectator
	output, err = cli.run("game", "get", code)
	require.NoError(t, err, "output: %s", output)
	var spectator gameResponse
	require.NoError(t, json.Unmarshal([]byte(output), &spectator))
	for _, board := range spectator.Boards {
		assert.NotEmpty(t, board.Placements, "board %s should be revealed", board.Owner)
	}
}

func TestCLI_PauseAndResume(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	code, alice, bob := setupGame(t, cli)
	confirmBoards(t, cli, code, alice.Player.ID, bob.Player.ID)

	// Pause
	output, err := cli.run("game", "pause", code, "--reason", "afk")
	require.NoError(t, err, "output: %s", output)
	var game gameResponse
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	assert.Equal(t, "paused", game.Status)

	// First resume ack parks the game waiting for the other player
	output, err = cli.run("game", "resume", "--resume-token", alice.ResumeToken)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	assert.Equal(t, "waiting", game.Status)

	// The same token again is rejected
	output, err = cli.run("game", "resume", "--resume-token", alice.ResumeToken)
	assert.Error(t, err, "double ack should fail")
	assert.Contains(t, strings.ToLower(output), "resume")

	// Bob's ack completes the handshake
	output, err = cli.run("game", "resume", "--resume-token", bob.ResumeToken)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	assert.Equal(t, "running", game.Status)
}

func TestCLI_ResumeUsesSavedToken(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	code, alice, bob := setupGame(t, cli)
	confirmBoards(t, cli, code, alice.Player.ID, bob.Player.ID)

	output, err := cli.run("game", "pause", code)
	require.NoError(t, err, "output: %s", output)

	// Bob joined last on this runner, so his token is the one on disk
	output, err = cli.run("game", "resume")
	require.NoError(t, err, "output: %s", output)
	var game gameResponse
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	assert.Equal(t, "waiting", game.Status)

	// Alice's token still has to come in explicitly
	output, err = cli.run("game", "resume", "--resume-token", alice.ResumeToken)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	assert.Equal(t, "running", game.Status)
}

func TestCLI_Forfeit(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	code, alice, bob := setupGame(t, cli)
	confirmBoards(t, cli, code, alice.Player.ID, bob.Player.ID)

	output, err := cli.run("game", "forfeit", code, "--player", alice.Player.ID)
	require.NoError(t, err, "output: %s", output)
	var game gameResponse
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	assert.Equal(t, "finished", game.Status)
	require.NotNil(t, game.Winner)
	assert.Equal(t, bob.Player.ID, *game.Winner)
}

func TestCLI_Matchmaking(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("game", "match", "--name", "Alice")
	require.NoError(t, err, "output: %s", output)
	var first joinResponse
	require.NoError(t, json.Unmarshal([]byte(output), &first))
	assert.Equal(t, "waiting", first.Game.Status)

	output, err = cli.run("game", "match", "--name", "Bob")
	require.NoError(t, err, "output: %s", output)
	var second joinResponse
	require.NoError(t, json.Unmarshal([]byte(output), &second))
	assert.Equal(t, first.Game.Code, second.Game.Code)
	assert.Equal(t, "setup", second.Game.Status)
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Non-existent game
	output, err := cli.run("game", "get", "NOPE99")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")

	// Joining a full game
	code, _, _ := setupGame(t, cli)
	output, err = cli.run("game", "join", code, "--name", "Carol")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "joinable")

	// Resume with a bogus token
	output, err = cli.run("game", "resume", "--resume-token", "rt_bogus")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "token")
}
