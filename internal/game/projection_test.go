package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjection_NotStartedGame(t *testing.T) {
	g := NotStartedGame()
	assert.False(t, g.IsStarted())
	assert.False(t, g.IsWon())
	assert.False(t, g.IsLost())
	assert.Equal(t, 0, g.SecretLength())
	assert.Equal(t, 0, g.TotalAttempts())
	assert.Equal(t, 0, g.Attempts())
	assert.Empty(t, g.AvailablePegs())
	assert.Equal(t, StatusNotStarted, g.Status())

	_, ok := g.Secret()
	assert.False(t, ok)
}

func TestProjection_StartedGame(t *testing.T) {
	g := startedGame()
	s, ok := g.Secret()
	assert.True(t, ok)
	assert.Equal(t, secret, s)
	assert.Equal(t, 4, g.SecretLength())
	assert.Equal(t, 12, g.TotalAttempts())
	assert.Equal(t, availablePegs, g.AvailablePegs())
	assert.Equal(t, StatusInProgress, g.Status())
}

func TestProjection_FirstGameStartedWins(t *testing.T) {
	g := Game{
		GameStarted{ID: gameID, Secret: Code{Red, Red}, TotalAttempts: 2, AvailablePegs: NewPegSet(Red)},
		GameStarted{ID: gameID, Secret: Code{Blue, Blue, Blue}, TotalAttempts: 9, AvailablePegs: NewPegSet(Blue)},
	}
	assert.Equal(t, 2, g.SecretLength())
	assert.Equal(t, 2, g.TotalAttempts())
	assert.Equal(t, NewPegSet(Red), g.AvailablePegs())
}

func TestProjection_GuessesAndTerminalState(t *testing.T) {
	wrong := Guess{Code: Code{Pink, Pink, Pink, Pink}, Feedback: NewFeedback(InProgress)}
	right := Guess{Code: secret, Feedback: NewFeedback(Won, Black, Black, Black, Black)}
	g := append(startedGame(),
		GuessMade{ID: gameID, Guess: wrong},
		GuessMade{ID: gameID, Guess: right},
		GameWon{ID: gameID},
	)
	assert.Equal(t, 2, g.Attempts())
	assert.Equal(t, []Guess{wrong, right}, g.Guesses())
	assert.True(t, g.IsWon())
	assert.False(t, g.IsLost())
	assert.Equal(t, StatusWon, g.Status())

	lost := append(startedGame(), GuessMade{ID: gameID, Guess: wrong}, GameLost{ID: gameID})
	assert.Equal(t, StatusLost, lost.Status())
}

func TestProjection_PointerEvents(t *testing.T) {
	wrong := Guess{Code: Code{Pink, Pink, Pink, Pink}, Feedback: NewFeedback(Lost)}
	var missing *GuessMade
	g := Game{
		&GameStarted{ID: gameID, Secret: secret, TotalAttempts: 1, AvailablePegs: availablePegs},
		missing,
		&GuessMade{ID: gameID, Guess: wrong},
		&GameLost{ID: gameID},
	}
	assert.True(t, g.IsStarted())
	assert.Equal(t, 4, g.SecretLength())
	assert.Equal(t, 1, g.Attempts())
	assert.Equal(t, []Guess{wrong}, g.Guesses())
	assert.True(t, g.IsLost())
	assert.Equal(t, StatusLost, g.Status())
	assert.Equal(t, GameLost{ID: gameID}, Value(g[3]))
	assert.Nil(t, Value(missing))
}
