package model

import "sort"

// ShipType is the class of a ship; its size is derived from the type
type ShipType string

const (
	ShipDestroyer  ShipType = "destroyer"  // size 2
	ShipCruiser    ShipType = "cruiser"    // size 3
	ShipBattleship ShipType = "battleship" // size 4
	ShipCarrier    ShipType = "carrier"    // size 5
)

var shipSizes = map[ShipType]int{
	ShipDestroyer:  2,
	ShipCruiser:    3,
	ShipBattleship: 4,
	ShipCarrier:    5,
}

// Size returns the number of cells the ship type covers, or 0 for an unknown type
func (t ShipType) Size() int {
	return shipSizes[t]
}

// IsValid returns true if the ship type is a known class
func (t ShipType) IsValid() bool {
	_, ok := shipSizes[t]
	return ok
}

// FleetDefinition is the declarative multiset of ships required per game,
// keyed by ship type with the required count of each
type FleetDefinition map[ShipType]int

// DefaultFleet returns the standard fleet:
// 2 destroyers, 2 cruisers, 1 battleship, 1 carrier (19 cells)
func DefaultFleet() FleetDefinition {
	return FleetDefinition{
		ShipDestroyer:  2,
		ShipCruiser:    2,
		ShipBattleship: 1,
		ShipCarrier:    1,
	}
}

// Ships expands the definition into a flat list ordered by descending size.
// Descending order is what the placement search wants: big ships are the
// hardest to fit and should be placed first.
func (f FleetDefinition) Ships() []ShipType {
	var ships []ShipType
	for shipType, count := range f {
		for i := 0; i < count; i++ {
			ships = append(ships, shipType)
		}
	}
	sort.Slice(ships, func(i, j int) bool {
		if ships[i].Size() != ships[j].Size() {
			return ships[i].Size() > ships[j].Size()
		}
		return ships[i] < ships[j]
	})
	return ships
}

// ShipCount returns the total number of ships in the fleet
func (f FleetDefinition) ShipCount() int {
	total := 0
	for _, count := range f {
		total += count
	}
	return total
}

// CellCount returns the total number of cells the fleet covers
func (f FleetDefinition) CellCount() int {
	total := 0
	for shipType, count := range f {
		total += shipType.Size() * count
	}
	return total
}

// Validate checks that the definition is non-empty with known types and
// positive counts
func (f FleetDefinition) Validate() error {
	if len(f) == 0 {
		return ErrInvalidFleet
	}
	for shipType, count := range f {
		if !shipType.IsValid() || count <= 0 {
			return ErrInvalidFleet
		}
	}
	return nil
}
