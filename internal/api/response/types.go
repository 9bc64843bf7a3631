package response

import (
	"time"

	"github.com/harborline/battleship-go/internal/model"
)

// Player represents a player in API responses
type Player struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	JoinedAt    time.Time `json:"joined_at"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		JoinedAt:    p.JoinedAt,
	}
}

// GameConfig represents game configuration
type GameConfig struct {
	BoardWidth  int            `json:"board_width"`
	BoardHeight int            `json:"board_height"`
	Fleet       map[string]int `json:"fleet"`
	ShipMargin  int            `json:"ship_margin"`
	GraceSecs   int            `json:"grace_period_seconds"`
}

// GameConfigFromModel converts model.GameConfig
func GameConfigFromModel(c model.GameConfig) GameConfig {
	fleet := make(map[string]int, len(c.Fleet))
	for ship, count := range c.Fleet {
		fleet[string(ship)] = count
	}
	return GameConfig{
		BoardWidth:  c.BoardWidth,
		BoardHeight: c.BoardHeight,
		Fleet:       fleet,
		ShipMargin:  c.ShipMargin,
		GraceSecs:   int(c.GracePeriod.Seconds()),
	}
}

// Placement represents one ship's position on a board
type Placement struct {
	Ship        string `json:"ship"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Orientation string `json:"orientation"`
}

// PlacementFromModel converts model.ShipPlacement
func PlacementFromModel(p model.ShipPlacement) Placement {
	return Placement{
		Ship:        string(p.Ship),
		X:           p.Start.X,
		Y:           p.Start.Y,
		Orientation: string(p.Orientation),
	}
}

// Board represents a board in API responses. Placements are only
// populated for boards the viewer is allowed to see into.
type Board struct {
	Owner      string      `json:"owner"`
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	Locked     bool        `json:"locked"`
	Placements []Placement `json:"placements,omitempty"`
}

// BoardFromModel converts model.Board; revealPlacements controls whether
// ship positions are included
func BoardFromModel(b *model.Board, revealPlacements bool) Board {
	resp := Board{
		Owner:  string(b.Owner),
		Width:  b.Width,
		Height: b.Height,
		Locked: b.Locked,
	}
	if revealPlacements {
		resp.Placements = make([]Placement, len(b.Placements))
		for i, p := range b.Placements {
			resp.Placements[i] = PlacementFromModel(p)
		}
	}
	return resp
}

// Shot represents a resolved shot
type Shot struct {
	Shooter string `json:"shooter"`
	Target  string `json:"target"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Result  string `json:"result"`
	Order   int    `json:"order"`
}

// ShotFromModel converts model.Shot
func ShotFromModel(s model.Shot) Shot {
	return Shot{
		Shooter: string(s.Shooter),
		Target:  string(s.Target),
		X:       s.Coordinate.X,
		Y:       s.Coordinate.Y,
		Result:  string(s.Result),
		Order:   s.Order,
	}
}

// Game represents a game in API responses, filtered for a viewer. The
// viewer sees their own ship positions; the opponent's are withheld
// until the game is finished.
type Game struct {
	Code        string     `json:"code"`
	Status      string     `json:"status"`
	Config      GameConfig `json:"config"`
	Players     []Player   `json:"players"`
	Boards      []Board    `json:"boards"`
	Shots       []Shot     `json:"shots"`
	CurrentTurn *string    `json:"current_turn"`
	Winner      *string    `json:"winner,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// GameFromModel converts model.Game to a viewer-specific response. An
// empty viewer (a spectator) sees no placements until the game ends.
func GameFromModel(g *model.Game, viewer model.PlayerID) Game {
	players := make([]Player, len(g.Players))
	boards := make([]Board, 0, len(g.Players))
	finished := g.Status == model.GameStatusFinished
	for i, p := range g.Players {
		players[i] = PlayerFromModel(&p)
		if b := g.BoardOf(p.ID); b != nil {
			boards = append(boards, BoardFromModel(b, finished || p.ID == viewer))
		}
	}

	shots := make([]Shot, len(g.Shots))
	for i, s := range g.Shots {
		shots[i] = ShotFromModel(s)
	}

	var currentTurn *string
	if g.CurrentTurn != "" {
		t := string(g.CurrentTurn)
		currentTurn = &t
	}
	var winner *string
	if g.Winner != "" {
		w := string(g.Winner)
		winner = &w
	}

	return Game{
		Code:        string(g.Code),
		Status:      string(g.Status),
		Config:      GameConfigFromModel(g.Config),
		Players:     players,
		Boards:      boards,
		Shots:       shots,
		CurrentTurn: currentTurn,
		Winner:      winner,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

// JoinResponse is the response after joining a game. The resume token is
// issued exactly once and never retrievable again.
type JoinResponse struct {
	Game        Game   `json:"game"`
	Player      Player `json:"player"`
	ResumeToken string `json:"resume_token"`
}

// FireResponse is the response after firing a shot
type FireResponse struct {
	Shot Shot `json:"shot"`
	Game Game `json:"game"`
}
