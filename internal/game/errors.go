package game

import (
	"fmt"
	"strings"
)

// Error is a rule violation that prevented a command from being applied.
// The set is closed; every implementation lives in this file.
type Error interface {
	error
	GameID() GameID
	// Kind is a stable machine-readable name, e.g. "guess_too_short".
	Kind() string
	gameError()
}

// FinishError is an Error raised because the game has already ended:
// GameAlreadyWonError or GameAlreadyLostError.
type FinishError interface {
	Error
	finishError()
}

// GuessError is an Error raised because the guess cannot be played:
// the game is not started, the guess has the wrong length or uses an
// unknown peg.
type GuessError interface {
	Error
	guessError()
}

// GameNotStartedError: a guess was made before anyone joined the game.
type GameNotStartedError struct{ ID GameID }

// GameAlreadyWonError: a guess was made after the game was won.
type GameAlreadyWonError struct{ ID GameID }

// GameAlreadyLostError: a guess was made after the game was lost.
type GameAlreadyLostError struct{ ID GameID }

// GuessTooShortError: the guess has fewer pegs than the secret.
type GuessTooShortError struct {
	ID             GameID
	Guess          Code
	RequiredLength int
}

// GuessTooLongError: the guess has more pegs than the secret.
type GuessTooLongError struct {
	ID             GameID
	Guess          Code
	RequiredLength int
}

// InvalidPegGuessError: the guess uses a peg outside the game's vocabulary.
type InvalidPegGuessError struct {
	ID            GameID
	Guess         Code
	AvailablePegs PegSet
}

func (e GameNotStartedError) GameID() GameID  { return e.ID }
func (e GameAlreadyWonError) GameID() GameID  { return e.ID }
func (e GameAlreadyLostError) GameID() GameID { return e.ID }
func (e GuessTooShortError) GameID() GameID   { return e.ID }
func (e GuessTooLongError) GameID() GameID    { return e.ID }
func (e InvalidPegGuessError) GameID() GameID { return e.ID }

func (GameNotStartedError) Kind() string  { return "game_not_started" }
func (GameAlreadyWonError) Kind() string  { return "game_already_won" }
func (GameAlreadyLostError) Kind() string { return "game_already_lost" }
func (GuessTooShortError) Kind() string   { return "guess_too_short" }
func (GuessTooLongError) Kind() string    { return "guess_too_long" }
func (InvalidPegGuessError) Kind() string { return "invalid_peg_guess" }

func (e GameNotStartedError) Error() string {
	return fmt.Sprintf("game %s: not started", e.ID)
}

func (e GameAlreadyWonError) Error() string {
	return fmt.Sprintf("game %s: already won", e.ID)
}

func (e GameAlreadyLostError) Error() string {
	return fmt.Sprintf("game %s: already lost", e.ID)
}

func (e GuessTooShortError) Error() string {
	return fmt.Sprintf("game %s: guess has %d pegs, need %d", e.ID, len(e.Guess), e.RequiredLength)
}

func (e GuessTooLongError) Error() string {
	return fmt.Sprintf("game %s: guess has %d pegs, need %d", e.ID, len(e.Guess), e.RequiredLength)
}

func (e InvalidPegGuessError) Error() string {
	names := make([]string, 0, len(e.AvailablePegs))
	for _, p := range e.AvailablePegs.Sorted() {
		names = append(names, string(p))
	}
	return fmt.Sprintf("game %s: guess uses pegs outside [%s]", e.ID, strings.Join(names, ", "))
}

func (GameNotStartedError) gameError()  {}
func (GameAlreadyWonError) gameError()  {}
func (GameAlreadyLostError) gameError() {}
func (GuessTooShortError) gameError()   {}
func (GuessTooLongError) gameError()    {}
func (InvalidPegGuessError) gameError() {}

func (GameAlreadyWonError) finishError()  {}
func (GameAlreadyLostError) finishError() {}

func (GameNotStartedError) guessError()  {}
func (GuessTooShortError) guessError()   {}
func (GuessTooLongError) guessError()    {}
func (InvalidPegGuessError) guessError() {}
