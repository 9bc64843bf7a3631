package model

// Coordinate identifies a cell on a board
type Coordinate struct {
	X int // 0-indexed from the left
	Y int // 0-indexed from the top
}

// Chebyshev returns the Chebyshev distance (max of axis deltas) to another cell.
// This is the distance metric for the inter-ship margin rule.
func (c Coordinate) Chebyshev(other Coordinate) int {
	dx := c.X - other.X
	if dx < 0 {
		dx = -dx
	}
	dy := c.Y - other.Y
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

// Orientation is the axis a ship lies along
type Orientation string

const (
	OrientationHorizontal Orientation = "horizontal" // extends along +X
	OrientationVertical   Orientation = "vertical"   // extends along +Y
)

// Orientations lists all valid orientations
var Orientations = []Orientation{OrientationHorizontal, OrientationVertical}
