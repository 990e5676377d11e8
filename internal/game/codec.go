// internal/game/codec.go
//
// Persisted representation of a Game.
//
// Shape:
//   {"id":"…","ships":[{"id":"…","type":"Battleship","positions":["A1",…],"hits":["A1"]}],"shots":["A1",…]}
//
// Decoding validates every aggregate invariant so a corrupted row can never
// become a live game.

package game

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/robalobadob/battleship/internal/board"
)

// ErrCorruptState is returned when persisted data violates a game invariant.
var ErrCorruptState = errors.New("game: corrupt persisted state")

type gameJSON struct {
	ID    string             `json:"id"`
	Ships []shipJSON         `json:"ships"`
	Shots []board.Coordinate `json:"shots"`
}

type shipJSON struct {
	ID        string             `json:"id"`
	Type      ShipType           `json:"type"`
	Positions []board.Coordinate `json:"positions"`
	Hits      []board.Coordinate `json:"hits"`
}

// MarshalJSON encodes the full aggregate, including hidden ship positions.
func (g *Game) MarshalJSON() ([]byte, error) {
	out := gameJSON{
		ID:    g.id,
		Ships: make([]shipJSON, 0, len(g.ships)),
		Shots: g.Shots(),
	}
	for _, s := range g.ships {
		out.Ships = append(out.Ships, shipJSON{
			ID:        s.id,
			Type:      s.kind,
			Positions: s.Positions(),
			Hits:      s.Hits(),
		})
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes and validates a persisted game.
func (g *Game) UnmarshalJSON(data []byte) error {
	var in gameJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.ID == "" {
		return fmt.Errorf("%w: missing id", ErrCorruptState)
	}
	if len(in.Ships) == 0 {
		return fmt.Errorf("%w: empty fleet", ErrCorruptState)
	}

	shots := make(map[board.Coordinate]struct{}, len(in.Shots))
	for _, c := range in.Shots {
		shots[c] = struct{}{}
	}

	occupied := make(map[board.Coordinate]struct{})
	ships := make([]*Ship, 0, len(in.Ships))
	for i, sj := range in.Ships {
		if sj.Type.Length() == 0 || len(sj.Positions) != sj.Type.Length() {
			return fmt.Errorf("%w: ship %d has type %q with %d cells", ErrCorruptState, i, sj.Type, len(sj.Positions))
		}
		if !straightRun(sj.Positions) {
			return fmt.Errorf("%w: ship %d is not a straight run of adjacent cells", ErrCorruptState, i)
		}
		s := &Ship{
			id:        sj.ID,
			kind:      sj.Type,
			positions: sj.Positions,
			hits:      make(map[board.Coordinate]struct{}, len(sj.Hits)),
		}
		for _, c := range sj.Positions {
			if _, dup := occupied[c]; dup {
				return fmt.Errorf("%w: ships overlap at %s", ErrCorruptState, c)
			}
			occupied[c] = struct{}{}
		}
		for _, c := range sj.Hits {
			if !s.Occupies(c) {
				return fmt.Errorf("%w: hit %s outside ship %d", ErrCorruptState, c, i)
			}
			if _, ok := shots[c]; !ok {
				return fmt.Errorf("%w: hit %s was never shot", ErrCorruptState, c)
			}
			s.hits[c] = struct{}{}
		}
		ships = append(ships, s)
	}
	if !matchesFleet(ships) {
		return fmt.Errorf("%w: fleet does not match %v", ErrCorruptState, Fleet)
	}

	g.id = in.ID
	g.ships = ships
	g.shots = shots
	return nil
}

// matchesFleet reports whether ships has exactly the composition of Fleet.
func matchesFleet(ships []*Ship) bool {
	if len(ships) != len(Fleet) {
		return false
	}
	want := make(map[ShipType]int, len(Fleet))
	for _, t := range Fleet {
		want[t]++
	}
	for _, s := range ships {
		want[s.kind]--
	}
	for _, n := range want {
		if n != 0 {
			return false
		}
	}
	return true
}
