// internal/game/projection.go
//
// Read-side queries over a game's event history.
// Every property (started, won, lost, secret, attempts, vocabulary) is
// derived by scanning the events; nothing is cached. Pointer events are
// read like their values, and a nil event is skipped.

package game

// Status is the coarse lifecycle state of a game, derived from its events.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusLost       Status = "lost"
)

// Value returns the event e points to, or e itself for a value event.
// A nil pointer yields nil.
func Value(e Event) Event {
	switch v := e.(type) {
	case *GameStarted:
		if v == nil {
			return nil
		}
		return *v
	case *GuessMade:
		if v == nil {
			return nil
		}
		return *v
	case *GameWon:
		if v == nil {
			return nil
		}
		return *v
	case *GameLost:
		if v == nil {
			return nil
		}
		return *v
	}
	return e
}

// started returns the first GameStarted event, if any.
// Later duplicates are ignored.
func (g Game) started() (GameStarted, bool) {
	for _, e := range g {
		if s, ok := Value(e).(GameStarted); ok {
			return s, true
		}
	}
	return GameStarted{}, false
}

// IsStarted reports whether the game was joined.
func (g Game) IsStarted() bool {
	_, ok := g.started()
	return ok
}

// IsWon reports whether a GameWon event was recorded.
func (g Game) IsWon() bool {
	for _, e := range g {
		if _, ok := Value(e).(GameWon); ok {
			return true
		}
	}
	return false
}

// IsLost reports whether a GameLost event was recorded.
func (g Game) IsLost() bool {
	for _, e := range g {
		if _, ok := Value(e).(GameLost); ok {
			return true
		}
	}
	return false
}

// Secret returns the secret code and whether the game was started.
func (g Game) Secret() (Code, bool) {
	s, ok := g.started()
	return s.Secret, ok
}

// SecretLength is the number of pegs in the secret; 0 before the game started.
func (g Game) SecretLength() int { return len(g.SecretPegs()) }

// SecretPegs returns the secret as a peg slice.
func (g Game) SecretPegs() []Peg {
	s, _ := g.started()
	return s.Secret
}

// TotalAttempts is the attempt budget fixed when the game started.
func (g Game) TotalAttempts() int {
	s, _ := g.started()
	return s.TotalAttempts
}

// AvailablePegs returns the legal vocabulary; empty before the game started.
func (g Game) AvailablePegs() PegSet {
	s, ok := g.started()
	if !ok || s.AvailablePegs == nil {
		return PegSet{}
	}
	return s.AvailablePegs
}

// Attempts counts the guesses made so far.
func (g Game) Attempts() int {
	n := 0
	for _, e := range g {
		if _, ok := Value(e).(GuessMade); ok {
			n++
		}
	}
	return n
}

// Guesses returns the recorded guesses in order.
func (g Game) Guesses() []Guess {
	var out []Guess
	for _, e := range g {
		if m, ok := Value(e).(GuessMade); ok {
			out = append(out, m.Guess)
		}
	}
	return out
}

// Status derives the lifecycle state. Won takes precedence over lost.
func (g Game) Status() Status {
	switch {
	case !g.IsStarted():
		return StatusNotStarted
	case g.IsWon():
		return StatusWon
	case g.IsLost():
		return StatusLost
	default:
		return StatusInProgress
	}
}
