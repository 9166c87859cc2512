// internal/game/engine.go
//
// Core rules engine for Mastermind games.
// Responsibilities:
//   - Decide which events a command produces given the game's history.
//   - Validate guesses in a fixed order (lifecycle first, then shape, then pegs).
//   - Score guesses: exact hits first, then colour hits with duplicate handling.
//   - Derive the round outcome: in progress → won/lost.
//
// Notes:
//   - Execute is pure. It performs no I/O, generates no identifiers and keeps
//     no state between calls. Callers own the log and append the returned
//     events atomically; nothing is appended when an error is returned.
package game

import "errors"

// ErrUnknownCommand is returned for a nil command or a nil *JoinGame / *MakeGuess.
var ErrUnknownCommand = errors.New("game: unknown command")

// Execute applies a command to the history of its game.
// On success it returns one or two new events in append order:
// GameStarted for JoinGame, GuessMade (optionally followed by GameWon or
// GameLost) for MakeGuess. Pointer commands are accepted as well.
// On failure the event list is nil and the error is either one of the
// types in errors.go or ErrUnknownCommand.
func Execute(cmd Command, history Game) ([]Event, error) {
	switch c := cmd.(type) {
	case JoinGame:
		return joinGame(c), nil
	case *JoinGame:
		if c == nil {
			return nil, ErrUnknownCommand
		}
		return joinGame(*c), nil
	case MakeGuess:
		return playGuess(c, history)
	case *MakeGuess:
		if c == nil {
			return nil, ErrUnknownCommand
		}
		return playGuess(*c, history)
	}
	return nil, ErrUnknownCommand
}

func playGuess(c MakeGuess, history Game) ([]Event, error) {
	made, err := makeGuess(c, history)
	if err != nil {
		return nil, err
	}
	return withOutcome(made), nil
}

// joinGame is unconditional: joining always starts the game.
func joinGame(c JoinGame) []Event {
	return []Event{GameStarted{
		ID:            c.ID,
		Secret:        c.Secret,
		TotalAttempts: c.TotalAttempts,
		AvailablePegs: c.AvailablePegs,
	}}
}

func makeGuess(c MakeGuess, g Game) (GuessMade, error) {
	if err := startedNotFinished(c, g); err != nil {
		return GuessMade{}, err
	}
	if err := validGuess(c, g); err != nil {
		return GuessMade{}, err
	}
	return GuessMade{
		ID:    c.ID,
		Guess: Guess{Code: c.Guess, Feedback: g.feedbackOn(c.Guess)},
	}, nil
}

func startedNotFinished(c MakeGuess, g Game) error {
	switch {
	case !g.IsStarted():
		return GameNotStartedError{ID: c.ID}
	case g.IsWon():
		return GameAlreadyWonError{ID: c.ID}
	case g.IsLost():
		return GameAlreadyLostError{ID: c.ID}
	}
	return nil
}

func validGuess(c MakeGuess, g Game) error {
	n := g.SecretLength()
	switch {
	case len(c.Guess) < n:
		return GuessTooShortError{ID: c.ID, Guess: c.Guess, RequiredLength: n}
	case len(c.Guess) > n:
		return GuessTooLongError{ID: c.ID, Guess: c.Guess, RequiredLength: n}
	}
	if pegs := g.AvailablePegs(); !pegs.ContainsAll(c.Guess) {
		return InvalidPegGuessError{ID: c.ID, Guess: c.Guess, AvailablePegs: pegs}
	}
	return nil
}

// withOutcome appends the terminal event matching the guess outcome, if any.
func withOutcome(made GuessMade) []Event {
	events := []Event{made}
	switch made.Guess.Feedback.Outcome {
	case Won:
		events = append(events, GameWon{ID: made.ID})
	case Lost:
		events = append(events, GameLost{ID: made.ID})
	}
	return events
}

func (g Game) feedbackOn(guess Code) Feedback {
	exact, colour := Score(g.SecretPegs(), guess)
	pegs := make([]FeedbackPeg, 0, exact+colour)
	for i := 0; i < exact; i++ {
		pegs = append(pegs, Black)
	}
	for i := 0; i < colour; i++ {
		pegs = append(pegs, White)
	}
	if len(pegs) == 0 {
		pegs = nil
	}
	return Feedback{Outcome: g.outcomeFor(exact), Pegs: pegs}
}

// outcomeFor decides the round outcome. A full match wins even on the
// final attempt.
func (g Game) outcomeFor(exact int) Outcome {
	switch {
	case exact == g.SecretLength():
		return Won
	case g.Attempts()+1 == g.TotalAttempts():
		return Lost
	default:
		return InProgress
	}
}

// Score counts exact hits and colour hits of guess against secret.
// Codes of different lengths score (0, 0).
//
// Pass 1:
//   - Count positions where secret and guess agree (exact hits).
//   - Collect the remaining secret pegs into a multiset.
//
// Pass 2:
//   - Walk the remaining guess pegs in order; each one that still has an
//     occurrence in the multiset consumes it and counts as a colour hit.
//
// This keeps duplicates from being counted more than once.
func Score(secret, guess Code) (exact, colour int) {
	if len(secret) != len(guess) {
		return 0, 0
	}
	remaining := make(map[Peg]int, len(secret))
	var unmatched []Peg
	for i := range secret {
		if secret[i] == guess[i] {
			exact++
			continue
		}
		remaining[secret[i]]++
		unmatched = append(unmatched, guess[i])
	}
	for _, p := range unmatched {
		if remaining[p] > 0 {
			remaining[p]--
			colour++
		}
	}
	return exact, colour
}
