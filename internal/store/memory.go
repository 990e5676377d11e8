// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// This is a lightweight persistence layer used for ephemeral game sessions,
// primarily in development/testing, or when durability is not required.
//
// Characteristics:
//   - Stores games as their JSON encoding keyed by ID, so callers never share
//     a live *game.Game and every save/load exercises the persisted form.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//     Update holds the write lock across load → fn → save; readers copy the
//     encoded bytes out before releasing the read lock.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robalobadob/battleship/internal/game"
)

// memEntry is one stored game plus its history columns.
type memEntry struct {
	data    []byte
	summary Summary
	started time.Time
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu    sync.RWMutex         // guards games map
	games map[string]*memEntry // keyed by Game.ID
	now   func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{
		games: make(map[string]*memEntry),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a new game; the ID must not exist yet.
func (m *memory) Create(ctx context.Context, g *game.Game) error {
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encode game %s: %w", g.ID(), err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.games[g.ID()]; exists {
		return fmt.Errorf("%w: %s", ErrExists, g.ID())
	}
	now := m.now()
	m.games[g.ID()] = &memEntry{
		data:    data,
		started: now,
		summary: Summary{
			ID:        g.ID(),
			Status:    g.Status(),
			Shots:     len(g.Shots()),
			StartedAt: now.Format(time.RFC3339),
		},
	}
	return nil
}

// Get looks up a game by ID and returns a fresh copy.
func (m *memory) Get(ctx context.Context, id string) (*game.Game, error) {
	m.mu.RLock()
	e, ok := m.games[id]
	var data []byte
	if ok {
		data = e.data
	}
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return decode(data)
}

// Update applies fn to the stored game and saves the result, all under the
// write lock. If fn returns an error nothing is saved.
func (m *memory) Update(ctx context.Context, id string, fn func(*game.Game) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.games[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	g, err := decode(e.data)
	if err != nil {
		return err
	}
	if err := fn(g); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	out, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encode game %s: %w", id, err)
	}
	e.data = out
	e.summary.Status = g.Status()
	e.summary.Shots = len(g.Shots())
	if g.IsOver() && e.summary.FinishedAt == "" {
		e.summary.FinishedAt = m.now().Format(time.RFC3339)
	}
	return nil
}

// Recent lists the latest games, newest first. Default limit is 20.
func (m *memory) Recent(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 20
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]*memEntry, 0, len(m.games))
	for _, e := range m.games {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].started.Equal(entries[j].started) {
			return entries[i].started.After(entries[j].started)
		}
		return entries[i].summary.ID < entries[j].summary.ID
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]Summary, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.summary)
	}
	return out, nil
}

func decode(data []byte) (*game.Game, error) {
	var g game.Game
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("decode game: %w", err)
	}
	return &g, nil
}
