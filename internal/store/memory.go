// internal/store/memory.go
//
// In-memory implementation of the EventLog interface.
// Used for ephemeral games in development/testing, or when durability is not
// required.
//
// Characteristics:
//   - Stores event histories keyed by game ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Histories are copied on the way in and out; callers never share slices.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/robalobadob/mastermind/internal/game"
)

var (
	// ErrConflict is returned by Append when the log grew since it was loaded.
	ErrConflict = errors.New("store: event log changed concurrently")
	// ErrEmptyAppend is returned by Append when no events are given.
	ErrEmptyAppend = errors.New("store: nothing to append")
)

// EventLog stores the append-only event history of each game.
// Implementations may be backed by memory (this file), SQLite, etc.
type EventLog interface {
	// Load returns the ordered history of a game.
	// An unknown game yields an empty history and no error.
	Load(ctx context.Context, id game.GameID) (game.Game, error)

	// Append adds events to the end of a game's history if, and only if,
	// the history currently holds expectedLen events. Either all events
	// are stored or none.
	Append(ctx context.Context, id game.GameID, expectedLen int, events ...game.Event) error
}

// memory is an in-memory map-based EventLog implementation.
type memory struct {
	mu    sync.RWMutex               // guards games map
	games map[game.GameID]game.Game // keyed by GameID
}

// NewMemoryStore constructs a new in-memory EventLog.
func NewMemoryStore() EventLog {
	return &memory{games: make(map[game.GameID]game.Game)}
}

// Load returns a copy of the stored history.
func (m *memory) Load(ctx context.Context, id game.GameID) (game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append(game.Game(nil), m.games[id]...), nil
}

// Append checks the expected length and extends the history.
func (m *memory) Append(ctx context.Context, id game.GameID, expectedLen int, events ...game.Event) error {
	if len(events) == 0 {
		return ErrEmptyAppend
	}
	values := make([]game.Event, len(events))
	for i, e := range events {
		values[i] = game.Value(e)
		if TypeOf(values[i]) == "" {
			return fmt.Errorf("append: unknown event %T", e)
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cur := m.games[id]
	if len(cur) != expectedLen {
		return ErrConflict
	}
	next := make(game.Game, 0, len(cur)+len(values))
	next = append(next, cur...)
	m.games[id] = append(next, values...)
	return nil
}
