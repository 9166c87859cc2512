// internal/game/types.go
//
// Core type definitions for the Mastermind rules engine.
// Defines:
//   - Peg, Code, PegSet: the symbols a secret or guess is built from.
//   - FeedbackPeg, Outcome, Feedback, Guess: the result of scoring a guess.
//   - Command and Event: closed unions describing intent and recorded facts.
//
// A Game is nothing more than the ordered list of events recorded for one
// GameID; every queryable property is projected from it (see projection.go).

package game

import (
	"encoding/json"
	"sort"
)

// GameID identifies a single game. The engine never generates one.
type GameID string

// Peg is a named code symbol. Two pegs are equal when their names are equal.
type Peg string

// Colours of the default peg vocabulary.
const (
	Red    Peg = "Red"
	Green  Peg = "Green"
	Blue   Peg = "Blue"
	Yellow Peg = "Yellow"
	Purple Peg = "Purple"
	Pink   Peg = "Pink"
)

// Code is an ordered sequence of pegs, either a secret or a guess.
type Code []Peg

// CodeOf builds a Code from peg names.
func CodeOf(names ...string) Code {
	c := make(Code, len(names))
	for i, n := range names {
		c[i] = Peg(n)
	}
	return c
}

// PegSet is the legal peg vocabulary of a game.
type PegSet map[Peg]struct{}

// NewPegSet returns a set holding the given pegs.
func NewPegSet(pegs ...Peg) PegSet {
	s := make(PegSet, len(pegs))
	for _, p := range pegs {
		s[p] = struct{}{}
	}
	return s
}

// Contains reports whether p is part of the set.
func (s PegSet) Contains(p Peg) bool {
	_, ok := s[p]
	return ok
}

// ContainsAll reports whether every peg of c is part of the set.
func (s PegSet) ContainsAll(c Code) bool {
	for _, p := range c {
		if !s.Contains(p) {
			return false
		}
	}
	return true
}

// Sorted returns the pegs in lexical order.
func (s PegSet) Sorted() []Peg {
	out := make([]Peg, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// MarshalJSON encodes the set as a sorted array.
func (s PegSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes the set from an array of peg names.
func (s *PegSet) UnmarshalJSON(b []byte) error {
	var pegs []Peg
	if err := json.Unmarshal(b, &pegs); err != nil {
		return err
	}
	*s = NewPegSet(pegs...)
	return nil
}

// FeedbackPeg is a single scoring marker.
//   - "black": right peg in the right position.
//   - "white": right peg in a different position.
type FeedbackPeg string

const (
	Black FeedbackPeg = "black"
	White FeedbackPeg = "white"
)

// FormattedName returns the marker name with a leading capital ("Black").
func (p FeedbackPeg) FormattedName() string {
	switch p {
	case Black:
		return "Black"
	case White:
		return "White"
	}
	return string(p)
}

// Outcome is the state of the round after a guess was scored.
type Outcome string

const (
	InProgress Outcome = "in_progress"
	Won        Outcome = "won"
	Lost       Outcome = "lost"
)

// Feedback is the outcome of a guess plus its scoring markers,
// all black markers first, then all white ones.
type Feedback struct {
	Outcome Outcome       `json:"outcome"`
	Pegs    []FeedbackPeg `json:"pegs"`
}

// NewFeedback builds a Feedback from an outcome and its markers.
func NewFeedback(outcome Outcome, pegs ...FeedbackPeg) Feedback {
	return Feedback{Outcome: outcome, Pegs: pegs}
}

// Count returns the number of black and white markers.
func (f Feedback) Count() (blacks, whites int) {
	for _, p := range f.Pegs {
		switch p {
		case Black:
			blacks++
		case White:
			whites++
		}
	}
	return blacks, whites
}

// Guess pairs a guessed code with the feedback it received.
type Guess struct {
	Code     Code     `json:"code"`
	Feedback Feedback `json:"feedback"`
}

// ------------------------------ commands -----------------------------------

// Command is the intent to change a game. It is never persisted.
// The set of commands is closed: JoinGame and MakeGuess.
type Command interface {
	GameID() GameID
	command()
}

// JoinGame starts a game with a fixed secret, attempt budget and vocabulary.
type JoinGame struct {
	ID            GameID
	Secret        Code
	TotalAttempts int
	AvailablePegs PegSet
}

// MakeGuess submits a guess against a started game.
type MakeGuess struct {
	ID    GameID
	Guess Code
}

func (c JoinGame) GameID() GameID  { return c.ID }
func (c MakeGuess) GameID() GameID { return c.ID }

func (JoinGame) command()  {}
func (MakeGuess) command() {}

// ------------------------------- events ------------------------------------

// Event is a recorded fact about a game. The set of events is closed:
// GameStarted, GuessMade, GameWon and GameLost.
type Event interface {
	GameID() GameID
	event()
}

// GameStarted fixes the secret, attempt budget and vocabulary of a game.
type GameStarted struct {
	ID            GameID `json:"gameId"`
	Secret        Code   `json:"secret"`
	TotalAttempts int    `json:"totalAttempts"`
	AvailablePegs PegSet `json:"availablePegs"`
}

// GuessMade records an accepted guess together with its feedback.
type GuessMade struct {
	ID    GameID `json:"gameId"`
	Guess Guess  `json:"guess"`
}

// GameWon marks the game as won.
type GameWon struct {
	ID GameID `json:"gameId"`
}

// GameLost marks the game as lost.
type GameLost struct {
	ID GameID `json:"gameId"`
}

func (e GameStarted) GameID() GameID { return e.ID }
func (e GuessMade) GameID() GameID   { return e.ID }
func (e GameWon) GameID() GameID     { return e.ID }
func (e GameLost) GameID() GameID    { return e.ID }

func (GameStarted) event() {}
func (GuessMade) event()   {}
func (GameWon) event()     {}
func (GameLost) event()    {}

// Game is the ordered event history of one game.
type Game []Event

// NotStartedGame returns the history of a game nobody joined yet.
func NotStartedGame() Game { return nil }
