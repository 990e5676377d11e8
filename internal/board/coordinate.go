// internal/board/coordinate.go
//
// Board geometry for the Battleship engine.
// Responsibilities:
//   - Coordinate value type (column A–J, row 1–10) usable as a map key.
//   - Parsing of player input ("a1", " J10 ") with strict validation.
//   - Text (un)marshalling so coordinates persist as "C6"-style strings.
//
// Notes:
//   - The zero Coordinate is not a valid cell; every valid value comes from
//     Parse or At.
package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	Size = 10

	MinColumn = 'A'
	MaxColumn = 'J'
	MinRow    = 1
	MaxRow    = 10
)

// ErrInvalidCoordinate is returned for malformed or out-of-range input.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Coordinate identifies a single cell. Two coordinates are equal (==) iff
// their column and row are equal.
type Coordinate struct {
	col byte  // 'A'..'J'
	row uint8 // 1..10
}

// Parse converts text such as "A1" or " j10" into a Coordinate.
// Input is trimmed and case-insensitive; anything else is rejected.
func Parse(text string) (Coordinate, error) {
	s := strings.ToUpper(strings.TrimSpace(text))
	if len(s) < 2 || len(s) > 3 {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrInvalidCoordinate, text)
	}
	col := s[0]
	if col < MinColumn || col > MaxColumn {
		return Coordinate{}, fmt.Errorf("%w: column out of range in %q", ErrInvalidCoordinate, text)
	}
	if !isDigits(s[1:]) {
		return Coordinate{}, fmt.Errorf("%w: row is not a number in %q", ErrInvalidCoordinate, text)
	}
	row, err := strconv.Atoi(s[1:])
	if err != nil || row < MinRow || row > MaxRow {
		return Coordinate{}, fmt.Errorf("%w: row out of range in %q", ErrInvalidCoordinate, text)
	}
	return Coordinate{col: col, row: uint8(row)}, nil
}

// At returns the coordinate for zero-based column and row indexes.
func At(colIndex, rowIndex int) (Coordinate, error) {
	if colIndex < 0 || colIndex >= Size || rowIndex < 0 || rowIndex >= Size {
		return Coordinate{}, fmt.Errorf("%w: index (%d,%d) outside board", ErrInvalidCoordinate, colIndex, rowIndex)
	}
	return Coordinate{col: byte(MinColumn + colIndex), row: uint8(rowIndex + MinRow)}, nil
}

// All returns every cell of the board, column-major (A1, A2, ... J10).
func All() []Coordinate {
	out := make([]Coordinate, 0, Size*Size)
	for c := 0; c < Size; c++ {
		for r := 0; r < Size; r++ {
			out = append(out, Coordinate{col: byte(MinColumn + c), row: uint8(r + MinRow)})
		}
	}
	return out
}

// Column returns the column letter ('A'..'J').
func (c Coordinate) Column() rune { return rune(c.col) }

// Row returns the one-based row number (1..10).
func (c Coordinate) Row() int { return int(c.row) }

// ColumnIndex and RowIndex return zero-based indexes.
func (c Coordinate) ColumnIndex() int { return int(c.col) - MinColumn }
func (c Coordinate) RowIndex() int    { return int(c.row) - MinRow }

// Valid reports whether c lies on the board. Only the zero value is invalid.
func (c Coordinate) Valid() bool {
	return c.col >= MinColumn && c.col <= MaxColumn && c.row >= MinRow && c.row <= MaxRow
}

func (c Coordinate) String() string {
	if !c.Valid() {
		return "??"
	}
	return string(rune(c.col)) + strconv.Itoa(int(c.row))
}

// Compare orders coordinates by column, then row.
func Compare(a, b Coordinate) int {
	if a.col != b.col {
		return int(a.col) - int(b.col)
	}
	return int(a.row) - int(b.row)
}

// MarshalText encodes c as "C6".
func (c Coordinate) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: zero coordinate", ErrInvalidCoordinate)
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes the output of MarshalText using Parse rules.
func (c *Coordinate) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// isDigits reports whether s is non-empty and ASCII 0–9 only (no sign).
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
