// internal/store/sqlite.go
//
// SQLite implementation of the EventLog interface.
// Events live in the `events` table (see assets/sql), one row per event:
//
//	game_id TEXT, seq INTEGER, type TEXT, payload TEXT, created_at TEXT
//	PRIMARY KEY (game_id, seq)
//
// seq starts at 0 and equals the event's position in the history, so the
// primary key doubles as the optimistic concurrency guard: two writers that
// loaded the same history cannot both insert the same seq.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/game"
)

type sqliteLog struct {
	db *sql.DB
}

// NewSQLiteStore returns an EventLog backed by db.
// The events table must exist (db.Migrate).
func NewSQLiteStore(db *sql.DB) EventLog {
	return &sqliteLog{db: db}
}

func (s *sqliteLog) Load(ctx context.Context, id game.GameID) (game.Game, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT type, payload FROM events WHERE game_id=? ORDER BY seq ASC`, string(id))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", id, err)
	}
	defer rows.Close()

	var out game.Game
	for rows.Next() {
		var typ, payload string
		if err := rows.Scan(&typ, &payload); err != nil {
			return nil, fmt.Errorf("scan %s: %w", id, err)
		}
		e, err := Decode(Envelope{Type: typ, GameID: id, Data: json.RawMessage(payload)})
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *sqliteLog) Append(ctx context.Context, id game.GameID, expectedLen int, events ...game.Event) error {
	if len(events) == 0 {
		return ErrEmptyAppend
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM events WHERE game_id=?`, string(id)).Scan(&n); err != nil {
		return fmt.Errorf("count %s: %w", id, err)
	}
	if n != expectedLen {
		return ErrConflict
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for i, e := range events {
		env, err := Encode(e)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO events (game_id, seq, type, payload, created_at) VALUES (?,?,?,?,?)`,
			string(id), expectedLen+i, env.Type, string(env.Data), now,
		); err != nil {
			if isConstraint(err) {
				return ErrConflict
			}
			return fmt.Errorf("insert %s #%d: %w", id, expectedLen+i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		if isConstraint(err) {
			return ErrConflict
		}
		return fmt.Errorf("commit %s: %w", id, err)
	}
	log.Debug().Str("gameId", string(id)).Int("seq", expectedLen).Int("events", len(events)).Msg("appended")
	return nil
}

// isConstraint reports whether err is a SQLite constraint violation,
// e.g. a duplicate (game_id, seq).
func isConstraint(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.Code == sqlite3.ErrConstraint
}
