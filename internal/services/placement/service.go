package placement

import (
	"log/slog"

	"github.com/harborline/battleship-go/internal/dependencies/random"
	"github.com/harborline/battleship-go/internal/model"
)

// Service generates randomized fleet layouts via backtracking search.
// The search is complete: if any valid layout exists for the given
// board/fleet/margin it will be found, and ErrPlacementInfeasible is
// returned only when the whole search space is exhausted.
type Service struct {
	random random.Random
	logger *slog.Logger
}

// New creates a new placement Service
func New(random random.Random, logger *slog.Logger) *Service {
	return &Service{
		random: random,
		logger: logger,
	}
}

// PlaceFleet produces a complete, valid set of placements for the fleet on
// a width x height board honoring the inter-ship Chebyshev margin
func (s *Service) PlaceFleet(width, height int, fleet model.FleetDefinition, margin int) ([]model.ShipPlacement, error) {
	if width <= 0 || height <= 0 {
		return nil, model.ErrInvalidBoardSize
	}
	if err := fleet.Validate(); err != nil {
		return nil, err
	}

	// Biggest ships first: they have the fewest candidate positions, so
	// placing them early prunes the search fastest
	ships := fleet.Ships()

	search := &fleetSearch{
		random:   s.random,
		width:    width,
		height:   height,
		margin:   margin,
		ships:    ships,
		occupied: make(map[model.Coordinate]bool),
	}

	if !search.place(0) {
		s.logger.Warn("fleet placement search exhausted",
			slog.Int("width", width),
			slog.Int("height", height),
			slog.Int("ships", len(ships)),
			slog.Int("margin", margin),
		)
		return nil, model.ErrPlacementInfeasible
	}

	return search.placed, nil
}

// fleetSearch carries the mutable state of one backtracking run
type fleetSearch struct {
	random random.Random
	width  int
	height int
	margin int
	ships  []model.ShipType

	placed   []model.ShipPlacement
	occupied map[model.Coordinate]bool
}

// place tries every (orientation, start) candidate for ship idx in random
// order, recursing on success and backtracking on exhaustion
func (f *fleetSearch) place(idx int) bool {
	if idx == len(f.ships) {
		return true
	}

	orientations := f.shuffledOrientations()
	starts := f.shuffledStarts()

	for _, orientation := range orientations {
		for _, start := range starts {
			candidate := model.ShipPlacement{
				Ship:        f.ships[idx],
				Start:       start,
				Orientation: orientation,
			}
			if !f.fits(candidate) {
				continue
			}

			f.push(candidate)
			if f.place(idx + 1) {
				return true
			}
			f.pop()
		}
	}

	return false
}

// fits checks bounds, overlap, and the Chebyshev margin against every
// already-placed cell
func (f *fleetSearch) fits(p model.ShipPlacement) bool {
	for _, c := range p.Coordinates() {
		if c.X < 0 || c.X >= f.width || c.Y < 0 || c.Y >= f.height {
			return false
		}
		if f.occupied[c] {
			return false
		}
		if f.margin > 0 {
			for placed := range f.occupied {
				if c.Chebyshev(placed) < f.margin {
					return false
				}
			}
		}
	}
	return true
}

func (f *fleetSearch) push(p model.ShipPlacement) {
	f.placed = append(f.placed, p)
	for _, c := range p.Coordinates() {
		f.occupied[c] = true
	}
}

func (f *fleetSearch) pop() {
	last := f.placed[len(f.placed)-1]
	f.placed = f.placed[:len(f.placed)-1]
	for _, c := range last.Coordinates() {
		delete(f.occupied, c)
	}
}

func (f *fleetSearch) shuffledOrientations() []model.Orientation {
	orientations := make([]model.Orientation, len(model.Orientations))
	copy(orientations, model.Orientations)
	f.random.Shuffle(len(orientations), func(i, j int) {
		orientations[i], orientations[j] = orientations[j], orientations[i]
	})
	return orientations
}

func (f *fleetSearch) shuffledStarts() []model.Coordinate {
	starts := make([]model.Coordinate, 0, f.width*f.height)
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			starts = append(starts, model.Coordinate{X: x, Y: y})
		}
	}
	f.random.Shuffle(len(starts), func(i, j int) {
		starts[i], starts[j] = starts[j], starts[i]
	})
	return starts
}
