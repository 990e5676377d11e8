// Package store persists Battleship games.
//
// Implementations must serialize mutations per game ID: two concurrent
// Update calls for the same game never interleave their load and save, so
// every shot is applied exactly once against the latest state.
package store

import (
	"context"
	"errors"

	"github.com/robalobadob/battleship/internal/game"
)

var (
	// ErrNotFound is returned when no game has the requested ID.
	ErrNotFound = errors.New("game not found")
	// ErrExists is returned by Create when the ID is already taken.
	ErrExists = errors.New("game already exists")
)

// Store defines the persistence interface for game sessions.
// Implementations may be backed by memory, SQLite, etc.
type Store interface {
	// Create persists a brand new game.
	Create(ctx context.Context, g *game.Game) error

	// Get retrieves a game by ID.
	// Returns ErrNotFound if the game is not found.
	Get(ctx context.Context, id string) (*game.Game, error)

	// Update loads the game, applies fn and persists the result as one
	// serialized step. An error from fn aborts without saving.
	Update(ctx context.Context, id string, fn func(*game.Game) error) error

	// Recent lists the newest games first, at most limit (default 20).
	Recent(ctx context.Context, limit int) ([]Summary, error)
}

// Summary is the history view of a stored game.
type Summary struct {
	ID         string `json:"id"`
	Status     string `json:"status"` // "playing" | "won"
	Shots      int    `json:"shots"`
	StartedAt  string `json:"startedAt"`
	FinishedAt string `json:"finishedAt,omitempty"`
}
