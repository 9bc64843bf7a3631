package model

// ShipPlacement is a ship anchored at a start cell with an orientation.
// The covered cells are derived, never stored.
type ShipPlacement struct {
	Ship        ShipType
	Start       Coordinate
	Orientation Orientation
}

// Coordinates returns the cells the placement covers, starting at the anchor
// and extending along the orientation axis
func (p ShipPlacement) Coordinates() []Coordinate {
	size := p.Ship.Size()
	coords := make([]Coordinate, 0, size)
	for i := 0; i < size; i++ {
		c := p.Start
		if p.Orientation == OrientationHorizontal {
			c.X += i
		} else {
			c.Y += i
		}
		coords = append(coords, c)
	}
	return coords
}

// Covers returns true if the placement occupies the given cell
func (p ShipPlacement) Covers(c Coordinate) bool {
	for _, covered := range p.Coordinates() {
		if covered == c {
			return true
		}
	}
	return false
}

// Board is one player's fleet grid.
// Invariant: placements never overlap and all covered cells are in bounds;
// the placement engine is the only writer of Placements.
type Board struct {
	Owner  PlayerID
	Width  int
	Height int

	Placements []ShipPlacement

	// Locked is set when the owner confirms the layout; a locked board
	// can no longer be rerolled
	Locked bool
}

// NewBoard creates an empty board owned by the given player
func NewBoard(owner PlayerID, width, height int) *Board {
	return &Board{
		Owner:  owner,
		Width:  width,
		Height: height,
	}
}

// InBounds returns true if the cell lies within [0,width)x[0,height)
func (b *Board) InBounds(c Coordinate) bool {
	return c.X >= 0 && c.X < b.Width && c.Y >= 0 && c.Y < b.Height
}

// PlacementAt returns the placement covering the given cell, or nil
func (b *Board) PlacementAt(c Coordinate) *ShipPlacement {
	for i := range b.Placements {
		if b.Placements[i].Covers(c) {
			return &b.Placements[i]
		}
	}
	return nil
}

// HasCompleteFleet returns true if the board holds exactly the ships the
// fleet definition requires
func (b *Board) HasCompleteFleet(fleet FleetDefinition) bool {
	counts := make(map[ShipType]int)
	for _, p := range b.Placements {
		counts[p.Ship]++
	}
	if len(counts) != len(fleet) {
		return false
	}
	for shipType, required := range fleet {
		if counts[shipType] != required {
			return false
		}
	}
	return true
}
