package daily

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/mastermind/assets"
	"github.com/robalobadob/mastermind/internal/db"
	"github.com/robalobadob/mastermind/internal/game"
)

var vocab = []game.Peg{game.Red, game.Green, game.Blue, game.Yellow, game.Purple, game.Pink}

func TestSecret_IsStablePerDate(t *testing.T) {
	day := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	later := time.Date(2026, 10, 18, 23, 59, 0, 0, time.UTC)

	a := Secret(day, "salt", vocab, 4)
	assert.Len(t, a, 4)
	assert.Equal(t, a, Secret(later, "salt", vocab, 4))
	assert.True(t, game.NewPegSet(vocab...).ContainsAll(a))
	assert.Empty(t, Secret(day, "salt", nil, 4))
}

func TestGameID(t *testing.T) {
	assert.Equal(t, GameID("u1", "2026-10-18"), GameID("u1", "2026-10-18"))
	assert.NotEqual(t, GameID("u1", "2026-10-18"), GameID("u2", "2026-10-18"))
	assert.NotEqual(t, GameID("u1", "2026-10-18"), GameID("u1", "2026-10-19"))
}

func TestStore_Results(t *testing.T) {
	sqlDB, err := db.Open(filepath.Join(t.TempDir(), "daily.db"))
	require.NoError(t, err)
	defer sqlDB.Close()
	require.NoError(t, db.Migrate(sqlDB, assets.Migrations()))

	ctx := context.Background()
	s := NewStore(sqlDB)
	date := "2026-10-18"

	played, err := s.AlreadyPlayed(ctx, "u1", date)
	require.NoError(t, err)
	assert.False(t, played)

	require.NoError(t, s.InsertResult(ctx, Result{UserID: "u1", Date: date, GameID: "g1", Guesses: 5, ElapsedMs: 1000}))
	require.NoError(t, s.InsertResult(ctx, Result{UserID: "u1", Date: date, GameID: "g1", Guesses: 1, ElapsedMs: 1}))
	require.NoError(t, s.InsertResult(ctx, Result{UserID: "u2", Date: date, GameID: "g2", Guesses: 3, ElapsedMs: 9000}))

	played, err = s.AlreadyPlayed(ctx, "u1", date)
	require.NoError(t, err)
	assert.True(t, played)

	top, err := s.Leaderboard(ctx, date, 0)
	require.NoError(t, err)
	assert.Equal(t, []LBRow{
		{UserID: "u2", Guesses: 3, ElapsedMs: 9000},
		{UserID: "u1", Guesses: 5, ElapsedMs: 1000},
	}, top)
}
