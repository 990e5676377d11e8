// internal/store/sqlite.go
//
// SQLite implementation of the Store interface.
//
// Each game is one row in `games`; the aggregate is kept as JSON in `state`
// and status/shots/finished_at are refreshed on every save so history can be
// queried without decoding. Update runs inside an IMMEDIATE transaction
// (see OpenSQLite), which takes the database write lock before reading and
// so serializes concurrent shots against the same game.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/battleship/internal/game"
)

type sqliteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore returns a Store backed by db. The schema must already be
// migrated (see Migrate and assets.Migrations).
func NewSQLiteStore(db *sql.DB) Store {
	return &sqliteStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (s *sqliteStore) Create(ctx context.Context, g *game.Game) error {
	state, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encode game %s: %w", g.ID(), err)
	}
	now := s.now().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO games (id, state, status, shots, started_at)
        VALUES (?, ?, ?, ?, ?)`,
		g.ID(), string(state), g.Status(), len(g.Shots()), now,
	)
	if err != nil {
		return fmt.Errorf("insert game %s: %w", g.ID(), err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrExists, g.ID())
	}
	log.Debug().Str("gameId", g.ID()).Msg("game row created")
	return nil
}

func (s *sqliteStore) Get(ctx context.Context, id string) (*game.Game, error) {
	var state string
	err := s.db.QueryRowContext(ctx, `SELECT state FROM games WHERE id=?`, id).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("select game %s: %w", id, err)
	}
	return decode([]byte(state))
}

func (s *sqliteStore) Update(ctx context.Context, id string, fn func(*game.Game) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var state string
	err = tx.QueryRowContext(ctx, `SELECT state FROM games WHERE id=?`, id).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("select game %s: %w", id, err)
	}
	g, err := decode([]byte(state))
	if err != nil {
		return err
	}
	wasOver := g.IsOver()

	if err := fn(g); err != nil {
		return err
	}

	out, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encode game %s: %w", id, err)
	}
	var finishedAt any
	if g.IsOver() && !wasOver {
		finishedAt = s.now().Format(time.RFC3339)
	}
	res, err := tx.ExecContext(ctx, `
        UPDATE games
        SET state=?, status=?, shots=?, finished_at=COALESCE(finished_at, ?)
        WHERE id=?`,
		string(out), g.Status(), len(g.Shots()), finishedAt, id,
	)
	if err != nil {
		return fmt.Errorf("update game %s: %w", id, err)
	}
	// The row was read inside this transaction; losing it here means the
	// database changed underneath us.
	if n, _ := res.RowsAffected(); n != 1 {
		return fmt.Errorf("update game %s: %d rows affected", id, n)
	}
	return tx.Commit()
}

// Recent lists the latest games, newest first. Default limit is 20.
func (s *sqliteStore) Recent(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, status, shots, started_at, COALESCE(finished_at, '')
        FROM games
        ORDER BY started_at DESC, id
        LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Summary, 0, limit)
	for rows.Next() {
		var r Summary
		if err := rows.Scan(&r.ID, &r.Status, &r.Shots, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
