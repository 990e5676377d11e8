// internal/game/types.go
//
// Core type definitions for the Battleship game engine.
// Defines:
//   - ShipType: the two hull classes and their lengths.
//   - Ship: occupied cells plus the cells that have been hit.
//   - Game: aggregate root owning the fleet and every shot fired.
//   - Outcome: classification of a single shot.

package game

import (
	"slices"

	"github.com/robalobadob/battleship/internal/board"
)

// ShipType names a hull class. The value is what gets persisted.
type ShipType string

const (
	Battleship ShipType = "Battleship"
	Destroyer  ShipType = "Destroyer"
)

// Length returns the number of cells a ship of this type occupies,
// or 0 for an unknown type.
func (t ShipType) Length() int {
	switch t {
	case Battleship:
		return 5
	case Destroyer:
		return 4
	default:
		return 0
	}
}

// Fleet is the fixed composition of every game, in placement order.
var Fleet = []ShipType{Battleship, Destroyer, Destroyer}

// Outcome is the result of firing at a coordinate.
// Duplicate and GameOver are ordinary results, not errors.
type Outcome string

const (
	OutcomeMiss      Outcome = "miss"
	OutcomeHit       Outcome = "hit"
	OutcomeSunk      Outcome = "sunk"
	OutcomeVictory   Outcome = "victory"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeGameOver  Outcome = "game_over"
	OutcomeInvalid   Outcome = "invalid"
)

// Registered reports whether the shot was recorded on the board.
func (o Outcome) Registered() bool {
	switch o {
	case OutcomeMiss, OutcomeHit, OutcomeSunk, OutcomeVictory:
		return true
	default:
		return false
	}
}

// Ship is a placed hull. Only the owning Game mutates its hit set.
type Ship struct {
	id        string
	kind      ShipType
	positions []board.Coordinate
	hits      map[board.Coordinate]struct{}
}

func (s *Ship) ID() string     { return s.id }
func (s *Ship) Type() ShipType { return s.kind }

// Positions returns a copy of the occupied cells in placement order.
func (s *Ship) Positions() []board.Coordinate {
	return slices.Clone(s.positions)
}

// Occupies reports whether the ship covers c.
func (s *Ship) Occupies(c board.Coordinate) bool {
	return slices.Contains(s.positions, c)
}

// IsHit reports whether c is one of the ship's hit cells.
func (s *Ship) IsHit(c board.Coordinate) bool {
	_, ok := s.hits[c]
	return ok
}

// Hits returns the hit cells, ordered by column then row.
func (s *Ship) Hits() []board.Coordinate {
	out := make([]board.Coordinate, 0, len(s.hits))
	for c := range s.hits {
		out = append(out, c)
	}
	slices.SortFunc(out, board.Compare)
	return out
}

// IsSunk is derived: every occupied cell has been hit.
func (s *Ship) IsSunk() bool {
	for _, p := range s.positions {
		if _, ok := s.hits[p]; !ok {
			return false
		}
	}
	return true
}

// hit records c if the ship occupies it. Returns false for a cell outside
// the ship or one already hit.
func (s *Ship) hit(c board.Coordinate) bool {
	if !s.Occupies(c) || s.IsHit(c) {
		return false
	}
	s.hits[c] = struct{}{}
	return true
}

// Game holds the state of a single Battleship session.
type Game struct {
	id    string                        // Unique game identifier (uuid).
	ships []*Ship                       // Fleet, exclusively owned.
	shots map[board.Coordinate]struct{} // Every coordinate ever fired at.
}
