package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/battleship/assets"
	"github.com/robalobadob/battleship/internal/board"
	"github.com/robalobadob/battleship/internal/game"
)

func newSQLite(t *testing.T) (Store, *sql.DB) {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(context.Background(), db, assets.Migrations()))
	return NewSQLiteStore(db), db
}

func stores(t *testing.T) map[string]Store {
	sq, _ := newSQLite(t)
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sq,
	}
}

func mustParse(t *testing.T, s string) board.Coordinate {
	t.Helper()
	c, err := board.Parse(s)
	require.NoError(t, err)
	return c
}

func TestStore_CreateGet(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			g, err := game.New()
			require.NoError(t, err)

			require.NoError(t, st.Create(ctx, g))

			got, err := st.Get(ctx, g.ID())
			require.NoError(t, err)
			assert.Equal(t, g.ID(), got.ID())
			require.Len(t, got.Ships(), 3)
			for i, s := range g.Ships() {
				assert.Equal(t, s.Positions(), got.Ships()[i].Positions())
			}

			err = st.Create(ctx, g)
			assert.ErrorIs(t, err, ErrExists)
		})
	}
}

func TestStore_GetMissing(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := st.Get(context.Background(), "nope")
			assert.ErrorIs(t, err, ErrNotFound)

			err = st.Update(context.Background(), "nope", func(*game.Game) error { return nil })
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStore_Update(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			g, err := game.New()
			require.NoError(t, err)
			require.NoError(t, st.Create(ctx, g))

			target := g.Ships()[0].Positions()[0]
			var out game.Outcome
			require.NoError(t, st.Update(ctx, g.ID(), func(g *game.Game) error {
				out = g.Fire(target)
				return nil
			}))
			assert.Equal(t, game.OutcomeHit, out)

			got, err := st.Get(ctx, g.ID())
			require.NoError(t, err)
			assert.True(t, got.HasShot(target))
			assert.True(t, got.Ships()[0].IsHit(target))
		})
	}
}

func TestStore_UpdateErrorDiscardsChanges(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			g, err := game.New()
			require.NoError(t, err)
			require.NoError(t, st.Create(ctx, g))

			boom := assert.AnError
			err = st.Update(ctx, g.ID(), func(g *game.Game) error {
				g.Fire(mustParse(t, "A1"))
				return boom
			})
			assert.ErrorIs(t, err, boom)

			got, err := st.Get(ctx, g.ID())
			require.NoError(t, err)
			assert.Empty(t, got.Shots())
		})
	}
}

func TestStore_ConcurrentShotsApplyOnce(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			g, err := game.New()
			require.NoError(t, err)
			require.NoError(t, st.Create(ctx, g))

			// every cell in column A fired by 4 goroutines each
			var (
				wg         sync.WaitGroup
				mu         sync.Mutex
				registered = map[board.Coordinate]int{}
			)
			for row := 0; row < board.Size; row++ {
				c, err := board.At(0, row)
				require.NoError(t, err)
				for i := 0; i < 4; i++ {
					wg.Add(1)
					go func() {
						defer wg.Done()
						err := st.Update(ctx, g.ID(), func(g *game.Game) error {
							if g.Fire(c).Registered() {
								mu.Lock()
								registered[c]++
								mu.Unlock()
							}
							return nil
						})
						assert.NoError(t, err)
					}()
				}
			}
			wg.Wait()

			got, err := st.Get(ctx, g.ID())
			require.NoError(t, err)
			assert.False(t, got.IsOver())
			assert.Len(t, got.Shots(), board.Size)
			for c, n := range registered {
				assert.Equal(t, 1, n, "cell %s registered %d times", c, n)
			}
			assert.Len(t, registered, board.Size)
		})
	}
}

func TestStore_GetDuringUpdate(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			// given
			ctx := context.Background()
			g, err := game.New()
			require.NoError(t, err)
			require.NoError(t, st.Create(ctx, g))

			// when
			var wg sync.WaitGroup
			wg.Add(2)
			go func() {
				defer wg.Done()
				for _, c := range board.All() {
					err := st.Update(ctx, g.ID(), func(g *game.Game) error {
						g.Fire(c)
						return nil
					})
					assert.NoError(t, err)
				}
			}()
			go func() {
				defer wg.Done()
				for i := 0; i < 200; i++ {
					got, err := st.Get(ctx, g.ID())
					if assert.NoError(t, err) {
						assert.Equal(t, g.ID(), got.ID())
					}
				}
			}()
			wg.Wait()

			// then
			got, err := st.Get(ctx, g.ID())
			require.NoError(t, err)
			assert.True(t, got.IsOver())
		})
	}
}

func TestStore_Recent(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			ids := map[string]bool{}
			for i := 0; i < 3; i++ {
				g, err := game.New()
				require.NoError(t, err)
				require.NoError(t, st.Create(ctx, g))
				ids[g.ID()] = true
			}

			rows, err := st.Recent(ctx, 2)
			require.NoError(t, err)
			assert.Len(t, rows, 2)

			rows, err = st.Recent(ctx, 0)
			require.NoError(t, err)
			require.Len(t, rows, 3)
			for _, r := range rows {
				assert.True(t, ids[r.ID])
				assert.Equal(t, "playing", r.Status)
				assert.Zero(t, r.Shots)
				assert.NotEmpty(t, r.StartedAt)
				assert.Empty(t, r.FinishedAt)
			}
		})
	}
}

func TestStore_FinishedGameHistory(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			g, err := game.New()
			require.NoError(t, err)
			require.NoError(t, st.Create(ctx, g))

			var last game.Outcome
			require.NoError(t, st.Update(ctx, g.ID(), func(g *game.Game) error {
				for _, s := range g.Ships() {
					for _, p := range s.Positions() {
						last = g.Fire(p)
					}
				}
				return nil
			}))
			assert.Equal(t, game.OutcomeVictory, last)

			rows, err := st.Recent(ctx, 10)
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, "won", rows[0].Status)
			assert.Equal(t, 13, rows[0].Shots)
			assert.NotEmpty(t, rows[0].FinishedAt)
		})
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	_, db := newSQLite(t)

	require.NoError(t, Migrate(context.Background(), db, assets.Migrations()))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n))
	assert.Equal(t, 1, n)
}
