package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case Game:
		o.printGame(v)
	case JoinResult:
		o.printJoinResult(v)
	case FireResult:
		o.printFireResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// GameConfig response type
type GameConfig struct {
	BoardWidth  int            `json:"board_width"`
	BoardHeight int            `json:"board_height"`
	Fleet       map[string]int `json:"fleet"`
	ShipMargin  int            `json:"ship_margin"`
	GraceSecs   int            `json:"grace_period_seconds"`
}

// Placement response type
type Placement struct {
	Ship        string `json:"ship"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Orientation string `json:"orientation"`
}

// Board response type
type Board struct {
	Owner      string      `json:"owner"`
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	Locked     bool        `json:"locked"`
	Placements []Placement `json:"placements,omitempty"`
}

// Shot response type
type Shot struct {
	Shooter string `json:"shooter"`
	Target  string `json:"target"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Result  string `json:"result"`
	Order   int    `json:"order"`
}

// Game response type
type Game struct {
	Code        string     `json:"code"`
	Status      string     `json:"status"`
	Config      GameConfig `json:"config"`
	Players     []Player   `json:"players"`
	Boards      []Board    `json:"boards"`
	Shots       []Shot     `json:"shots"`
	CurrentTurn *string    `json:"current_turn"`
	Winner      *string    `json:"winner,omitempty"`
}

// JoinResult response type
type JoinResult struct {
	Game        Game   `json:"game"`
	Player      Player `json:"player"`
	ResumeToken string `json:"resume_token"`
}

// FireResult response type
type FireResult struct {
	Shot Shot `json:"shot"`
	Game Game `json:"game"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	fmt.Printf("Player: %s (%s)\n", p.DisplayName, p.ID)
}

func (o *Output) printGame(g Game) {
	fmt.Printf("Game: %s\n", g.Code)
	fmt.Printf("Status: %s\n", g.Status)
	fmt.Printf("Board: %dx%d\n", g.Config.BoardWidth, g.Config.BoardHeight)

	fmt.Printf("Players (%d):\n", len(g.Players))
	for _, p := range g.Players {
		turnStr := ""
		if g.CurrentTurn != nil && *g.CurrentTurn == p.ID {
			turnStr = " [to move]"
		}
		fmt.Printf("  - %s (%s)%s\n", p.DisplayName, p.ID, turnStr)
	}

	for _, b := range g.Boards {
		fmt.Printf("\nBoard (%s):\n", b.Owner)
		o.printBoard(&b, g.Shots)
	}

	if g.Winner != nil {
		fmt.Printf("\nWinner: %s\n", *g.Winner)
	}
}

func (o *Output) printJoinResult(j JoinResult) {
	o.printPlayer(j.Player)
	fmt.Printf("Resume token: %s\n", j.ResumeToken)
	fmt.Println()
	o.printGame(j.Game)
}

func (o *Output) printFireResult(f FireResult) {
	fmt.Printf("Shot at (%d,%d): %s\n", f.Shot.X, f.Shot.Y, f.Shot.Result)
	if f.Game.Winner != nil {
		fmt.Printf("Winner: %s\n", *f.Game.Winner)
	} else if f.Game.CurrentTurn != nil {
		fmt.Printf("Next to move: %s\n", *f.Game.CurrentTurn)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}

// printBoard renders a grid: S for (revealed) ship cells, X for hits,
// o for misses, . for unknown water
func (o *Output) printBoard(b *Board, shots []Shot) {
	if b.Width <= 0 || b.Height <= 0 {
		return
	}

	cells := make([][]string, b.Height)
	for y := range cells {
		cells[y] = make([]string, b.Width)
		for x := range cells[y] {
			cells[y][x] = "."
		}
	}

	for _, p := range b.Placements {
		for i := 0; i < shipSize(p.Ship); i++ {
			x, y := p.X, p.Y
			if p.Orientation == "horizontal" {
				x += i
			} else {
				y += i
			}
			if y >= 0 && y < b.Height && x >= 0 && x < b.Width {
				cells[y][x] = "S"
			}
		}
	}

	for _, s := range shots {
		if s.Target != b.Owner {
			continue
		}
		if s.Y < 0 || s.Y >= b.Height || s.X < 0 || s.X >= b.Width {
			continue
		}
		if s.Result == "MISS" {
			cells[s.Y][s.X] = "o"
		} else {
			cells[s.Y][s.X] = "X"
		}
	}

	// Column headers
	fmt.Print("    ")
	for x := 0; x < b.Width; x++ {
		fmt.Printf("%2d ", x)
	}
	fmt.Println()

	for y := 0; y < b.Height; y++ {
		fmt.Printf(" %2d ", y)
		for x := 0; x < b.Width; x++ {
			fmt.Printf(" %s ", cells[y][x])
		}
		fmt.Println()
	}
}

func shipSize(ship string) int {
	switch ship {
	case "destroyer":
		return 2
	case "cruiser":
		return 3
	case "battleship":
		return 4
	case "carrier":
		return 5
	default:
		return 1
	}
}
