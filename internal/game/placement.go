// internal/game/placement.go
//
// Randomized, collision-free fleet placement.
//
// Each ship picks an orientation and a starting cell such that the whole
// run fits on the board. A run that touches an already placed ship is
// discarded and a fresh one drawn. 13 occupied cells on a 100-cell board
// leave plenty of room, so retries are few; maxPlacementAttempts only exists
// to turn a geometry bug into an error instead of a hung request.

package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/battleship/internal/board"
)

const maxPlacementAttempts = 10_000

// ErrPlacementExhausted means a ship could not be placed within
// maxPlacementAttempts. It indicates a bug, not a normal outcome.
var ErrPlacementExhausted = errors.New("game: ship placement exhausted attempts")

// Rand is the uniform integer source used for placement.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	// IntN returns a uniform value in [0, n).
	IntN(n int) int
}

// globalRand draws from the concurrency-safe math/rand/v2 top-level source.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// placeFleet places every ship in Fleet on g, in order.
func (g *Game) placeFleet(r Rand) error {
	occupied := make(map[board.Coordinate]struct{}, 13)
	for _, t := range Fleet {
		run, attempts, err := placeShip(r, t.Length(), occupied)
		if err != nil {
			return fmt.Errorf("place %s: %w", t, err)
		}
		for _, c := range run {
			occupied[c] = struct{}{}
		}
		g.ships = append(g.ships, &Ship{
			id:        uuid.NewString(),
			kind:      t,
			positions: run,
			hits:      make(map[board.Coordinate]struct{}, len(run)),
		})
		log.Debug().Str("gameId", g.id).Str("ship", string(t)).Int("attempts", attempts).Msg("ship placed")
	}
	return nil
}

// placeShip draws runs until one avoids every occupied cell.
// Returns the run and the number of attempts it took.
func placeShip(r Rand, length int, occupied map[board.Coordinate]struct{}) ([]board.Coordinate, int, error) {
	for attempt := 1; attempt <= maxPlacementAttempts; attempt++ {
		run, err := randomRun(r, length)
		if err != nil {
			return nil, attempt, err
		}
		if !collides(run, occupied) {
			return run, attempt, nil
		}
		if attempt%10 == 0 {
			log.Warn().Int("length", length).Int("attempts", attempt).Msg("still trying to place ship")
		}
	}
	return nil, maxPlacementAttempts, ErrPlacementExhausted
}

// randomRun picks an orientation and a start cell so the run stays on the board.
func randomRun(r Rand, length int) ([]board.Coordinate, error) {
	if length < 1 || length > board.Size {
		return nil, fmt.Errorf("ship length %d does not fit a %dx%d board", length, board.Size, board.Size)
	}
	horizontal := r.IntN(2) == 0

	maxCol, maxRow := board.Size-1, board.Size-1
	if horizontal {
		maxCol = board.Size - length
	} else {
		maxRow = board.Size - length
	}
	col := r.IntN(maxCol + 1)
	row := r.IntN(maxRow + 1)

	run := make([]board.Coordinate, length)
	for i := range run {
		c, rr := col, row
		if horizontal {
			c += i
		} else {
			rr += i
		}
		cell, err := board.At(c, rr)
		if err != nil {
			return nil, err
		}
		run[i] = cell
	}
	return run, nil
}

// straightRun reports whether cells form one horizontal or vertical line of
// adjacent, distinct cells, in any order.
func straightRun(cells []board.Coordinate) bool {
	if len(cells) == 0 {
		return false
	}
	sorted := slices.Clone(cells)
	slices.SortFunc(sorted, board.Compare)
	sameCol, sameRow := true, true
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		sameCol = sameCol && cur.ColumnIndex() == prev.ColumnIndex() && cur.RowIndex() == prev.RowIndex()+1
		sameRow = sameRow && cur.RowIndex() == prev.RowIndex() && cur.ColumnIndex() == prev.ColumnIndex()+1
	}
	return sameCol || sameRow
}

func collides(run []board.Coordinate, occupied map[board.Coordinate]struct{}) bool {
	for _, c := range run {
		if _, ok := occupied[c]; ok {
			return true
		}
	}
	return false
}
