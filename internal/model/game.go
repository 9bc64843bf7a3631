package model

import "time"

// GameCode is a human-readable identifier for joining games
type GameCode string

// GameStatus represents the current phase of a game
type GameStatus string

const (
	// GameStatusWaiting covers two phases that share a label: pre-game
	// with fewer than two players, and mid-resume-handshake. The two are
	// disambiguated by ResumeRequestedBy: the handshake is in progress
	// iff the marker is non-empty.
	GameStatusWaiting  GameStatus = "waiting"
	GameStatusSetup    GameStatus = "setup"    // players confirming board layouts
	GameStatusRunning  GameStatus = "running"  // shots being exchanged
	GameStatusPaused   GameStatus = "paused"   // halted after a connection loss
	GameStatusFinished GameStatus = "finished" // terminal
)

// MaxPlayers is the number of participants in a game
const MaxPlayers = 2

// GameConfig holds the immutable per-game settings supplied at creation
type GameConfig struct {
	BoardWidth  int
	BoardHeight int
	Fleet       FleetDefinition

	// ShipMargin is the minimum Chebyshev distance between cells of
	// different ships; 0 disables the margin rule
	ShipMargin int

	// GracePeriod is how long a disconnected player has to reconnect
	// before the game is auto-paused
	GracePeriod time.Duration
}

// DefaultGameConfig returns the standard 10x10 game configuration
func DefaultGameConfig() GameConfig {
	return GameConfig{
		BoardWidth:  10,
		BoardHeight: 10,
		Fleet:       DefaultFleet(),
		ShipMargin:  1,
		GracePeriod: 15 * time.Second,
	}
}

// Game is the aggregate for a single battleship session. Boards and the
// shot log live inside the aggregate so a save persists the whole session
// atomically.
type Game struct {
	Code   GameCode
	Config GameConfig
	Status GameStatus

	// Players in join order; the first joiner takes the opening turn
	Players []Player
	Boards  map[PlayerID]*Board

	// Shots in resolution order; append-only, written only by the shot
	// resolution engine
	Shots []Shot

	CurrentTurn PlayerID // empty until the game starts
	Winner      PlayerID // set iff Status is finished with a decided winner

	// ResumeRequestedBy is the player who confirmed the first half of the
	// resume handshake; empty when no handshake is pending
	ResumeRequestedBy PlayerID

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy of the aggregate. The copy shares no mutable
// state with the original.
func (g *Game) Clone() *Game {
	clone := *g

	if g.Config.Fleet != nil {
		clone.Config.Fleet = make(FleetDefinition, len(g.Config.Fleet))
		for ship, count := range g.Config.Fleet {
			clone.Config.Fleet[ship] = count
		}
	}

	clone.Players = append([]Player(nil), g.Players...)
	clone.Shots = append([]Shot(nil), g.Shots...)

	clone.Boards = make(map[PlayerID]*Board, len(g.Boards))
	for id, board := range g.Boards {
		b := *board
		b.Placements = append([]ShipPlacement(nil), board.Placements...)
		clone.Boards[id] = &b
	}

	return &clone
}

// HasPlayer returns true if the player is a registered participant
func (g *Game) HasPlayer(id PlayerID) bool {
	for _, p := range g.Players {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Opponent returns the other participant's ID, or empty if the game does
// not yet have two players
func (g *Game) Opponent(id PlayerID) PlayerID {
	for _, p := range g.Players {
		if p.ID != id {
			return p.ID
		}
	}
	return ""
}

// IsFull returns true if the roster is complete
func (g *Game) IsFull() bool {
	return len(g.Players) >= MaxPlayers
}

// BoardOf returns the board owned by the given player, or nil
func (g *Game) BoardOf(id PlayerID) *Board {
	return g.Boards[id]
}

// HitsOn returns the set of cells on the target board that have been hit
func (g *Game) HitsOn(target PlayerID) map[Coordinate]bool {
	hits := make(map[Coordinate]bool)
	for _, shot := range g.Shots {
		if shot.Target == target && (shot.Result == ShotResultHit || shot.Result == ShotResultSunk) {
			hits[shot.Coordinate] = true
		}
	}
	return hits
}

// IsResolved returns true if a cell on the target board has already been
// resolved by an earlier shot
func (g *Game) IsResolved(target PlayerID, c Coordinate) bool {
	for _, shot := range g.Shots {
		if shot.Target == target && shot.Coordinate == c {
			return true
		}
	}
	return false
}

// IsShipSunk returns true if every cell of the placement has been hit
func (g *Game) IsShipSunk(target PlayerID, placement ShipPlacement) bool {
	hits := g.HitsOn(target)
	for _, c := range placement.Coordinates() {
		if !hits[c] {
			return false
		}
	}
	return true
}

// AllShipsSunk returns true if every ship on the target board is fully hit
func (g *Game) AllShipsSunk(target PlayerID) bool {
	board := g.BoardOf(target)
	if board == nil || len(board.Placements) == 0 {
		return false
	}
	hits := g.HitsOn(target)
	for _, placement := range board.Placements {
		for _, c := range placement.Coordinates() {
			if !hits[c] {
				return false
			}
		}
	}
	return true
}
