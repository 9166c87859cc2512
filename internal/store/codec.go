package store

import (
	"encoding/json"
	"fmt"

	"github.com/robalobadob/mastermind/internal/game"
)

// Event type names used on disk and on the wire.
const (
	TypeGameStarted = "game_started"
	TypeGuessMade   = "guess_made"
	TypeGameWon     = "game_won"
	TypeGameLost    = "game_lost"
)

// Envelope is the serialized form of a game.Event.
type Envelope struct {
	Type   string          `json:"type"`
	GameID game.GameID     `json:"gameId"`
	Data   json.RawMessage `json:"data"`
}

// TypeOf returns the stored type name of e; pointer events share the
// name of their value type.
func TypeOf(e game.Event) string {
	switch game.Value(e).(type) {
	case game.GameStarted:
		return TypeGameStarted
	case game.GuessMade:
		return TypeGuessMade
	case game.GameWon:
		return TypeGameWon
	case game.GameLost:
		return TypeGameLost
	}
	return ""
}

// Encode wraps e into an Envelope.
func Encode(e game.Event) (Envelope, error) {
	e = game.Value(e)
	typ := TypeOf(e)
	if typ == "" {
		return Envelope{}, fmt.Errorf("encode: unknown event %T", e)
	}
	data, err := json.Marshal(e)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s: %w", typ, err)
	}
	return Envelope{Type: typ, GameID: e.GameID(), Data: data}, nil
}

// Decode turns an Envelope back into its game.Event.
func Decode(env Envelope) (game.Event, error) {
	var (
		e   game.Event
		err error
	)
	switch env.Type {
	case TypeGameStarted:
		var v game.GameStarted
		err = json.Unmarshal(env.Data, &v)
		e = v
	case TypeGuessMade:
		var v game.GuessMade
		err = json.Unmarshal(env.Data, &v)
		e = v
	case TypeGameWon:
		var v game.GameWon
		err = json.Unmarshal(env.Data, &v)
		e = v
	case TypeGameLost:
		var v game.GameLost
		err = json.Unmarshal(env.Data, &v)
		e = v
	default:
		return nil, fmt.Errorf("decode: unknown event type %q", env.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", env.Type, err)
	}
	return e, nil
}
