// internal/game/engine.go
//
// Core game engine for a single Battleship session.
// Responsibilities:
//   - Create new games with a freshly placed fleet.
//   - Register shots: reject duplicates, record hits on the matching ship.
//   - Classify each shot: miss → hit → sunk → victory, plus the duplicate
//     and game-over no-op results.
//
// Notes:
//   - Sunk and over are always derived from the hit and shot sets, never stored.
//   - Once every ship is sunk no further shot changes state.
package game

import (
	"slices"

	"github.com/google/uuid"

	"github.com/robalobadob/battleship/internal/board"
)

// New constructs a new game with a randomly placed fleet.
func New() (*Game, error) {
	return NewWithRand(globalRand{})
}

// NewWithRand is New with an explicit random source (seeded in tests).
func NewWithRand(r Rand) (*Game, error) {
	g := &Game{
		id:    uuid.NewString(),
		shots: make(map[board.Coordinate]struct{}),
	}
	if err := g.placeFleet(r); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) ID() string { return g.id }

// Ships returns the fleet in placement order. The slice is a copy; ships
// expose read-only accessors.
func (g *Game) Ships() []*Ship {
	return slices.Clone(g.ships)
}

// Shots returns every coordinate fired at, ordered by column then row.
func (g *Game) Shots() []board.Coordinate {
	out := make([]board.Coordinate, 0, len(g.shots))
	for c := range g.shots {
		out = append(out, c)
	}
	slices.SortFunc(out, board.Compare)
	return out
}

// HasShot reports whether c has already been fired at.
func (g *Game) HasShot(c board.Coordinate) bool {
	_, ok := g.shots[c]
	return ok
}

// IsOver reports whether the whole fleet is sunk.
func (g *Game) IsOver() bool {
	for _, s := range g.ships {
		if !s.IsSunk() {
			return false
		}
	}
	return true
}

// ShipAt returns the ship occupying c, or nil.
func (g *Game) ShipAt(c board.Coordinate) *Ship {
	for _, s := range g.ships {
		if s.Occupies(c) {
			return s
		}
	}
	return nil
}

// RegisterShot records a shot at c.
// Returns registered=false (and no state change) when c was already shot or
// the game is over. Otherwise the shot is recorded and hitShip is the ship
// occupying c, or nil for a miss.
func (g *Game) RegisterShot(c board.Coordinate) (registered bool, hitShip *Ship) {
	if !c.Valid() || g.IsOver() || g.HasShot(c) {
		return false, nil
	}
	g.shots[c] = struct{}{}

	hitShip = g.ShipAt(c)
	if hitShip != nil {
		hitShip.hit(c)
	}
	return true, hitShip
}

// Fire registers a shot and classifies it.
//
// Precedence:
//   - c is not a board cell (zero Coordinate) → OutcomeInvalid (no mutation).
//   - Game already over before the shot → OutcomeGameOver (no mutation).
//   - Coordinate already shot → OutcomeDuplicate (no mutation).
//   - No ship at c → OutcomeMiss.
//   - Fleet destroyed by this shot → OutcomeVictory (wins over Sunk/Hit).
//   - Hit ship now sunk → OutcomeSunk.
//   - Otherwise → OutcomeHit.
func (g *Game) Fire(c board.Coordinate) Outcome {
	if !c.Valid() {
		return OutcomeInvalid
	}
	if g.IsOver() {
		return OutcomeGameOver
	}
	ok, ship := g.RegisterShot(c)
	switch {
	case !ok:
		return OutcomeDuplicate
	case ship == nil:
		return OutcomeMiss
	case g.IsOver():
		return OutcomeVictory
	case ship.IsSunk():
		return OutcomeSunk
	default:
		return OutcomeHit
	}
}

// Status reports a coarse string representation of the game: "playing" or "won".
func (g *Game) Status() string {
	if g.IsOver() {
		return "won"
	}
	return "playing"
}
