package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/mastermind/assets"
	"github.com/robalobadob/mastermind/internal/db"
	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/store"
)

func testConfig() Config {
	return Config{
		CodeLength:    4,
		TotalAttempts: 3,
		DailySalt:     "test_salt",
		JWTSecret:     "test_secret",
		JWTExpiry:     time.Hour,
		CookieName:    "mastermind_token",
		ClientOrigin:  "http://localhost:5173",
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	t.Setenv("PEGS_FILE", "")
	sqlDB, err := db.Open(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(sqlDB, assets.Migrations()))
	return New(store.NewMemoryStore(), sqlDB, testConfig())
}

type client struct {
	t       *testing.T
	srv     *Server
	cookies []*http.Cookie
}

func (c *client) do(method, path string, body any, out any) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.srv.Router().ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		c.cookies = append(c.cookies, ck)
	}
	if out != nil {
		require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

func TestHealth(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t)}
	var body map[string]bool
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/health", nil, &body))
	assert.True(t, body["ok"])
}

func TestGameFlow_Win(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t)}

	var created newGameRes
	code := c.do(http.MethodPost, "/game/new", map[string]any{"secret": []string{"Red", "Green", "Blue", "Yellow"}}, &created)
	require.Equal(t, http.StatusOK, code)
	require.NotEmpty(t, created.GameID)
	assert.Equal(t, 4, created.Length)
	assert.Equal(t, 3, created.TotalAttempts)

	var res guessRes
	code = c.do(http.MethodPost, "/game/guess", guessReq{GameID: created.GameID, Guess: []string{"Red", "Purple", "Blue", "Blue"}}, &res)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, game.InProgress, res.State)
	assert.Equal(t, []game.FeedbackPeg{game.Black, game.Black}, res.Feedback.Pegs)
	assert.Equal(t, 2, res.Blacks)
	assert.Equal(t, 0, res.Whites)
	assert.Equal(t, 2, res.AttemptsLeft)
	assert.Empty(t, res.Secret)

	code = c.do(http.MethodPost, "/game/guess", guessReq{GameID: created.GameID, Guess: []string{"Red", "Green", "Blue", "Yellow"}}, &res)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, game.Won, res.State)
	assert.Equal(t, game.Code{game.Red, game.Green, game.Blue, game.Yellow}, res.Secret)

	var errBody map[string]any
	code = c.do(http.MethodPost, "/game/guess", guessReq{GameID: created.GameID, Guess: []string{"Red", "Green", "Blue", "Yellow"}}, &errBody)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "game_already_won", errBody["error"])

	var view gameView
	code = c.do(http.MethodGet, "/game/"+created.GameID, nil, &view)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, game.StatusWon, view.Status)
	assert.Equal(t, 2, view.Attempts)
	assert.Len(t, view.Guesses, 2)
}

func TestGameFlow_Errors(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t)}

	var errBody map[string]any
	code := c.do(http.MethodPost, "/game/guess", guessReq{GameID: "nope", Guess: []string{"Red"}}, &errBody)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "game_not_started", errBody["error"])

	var created newGameRes
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/new", nil, &created))

	errBody = nil
	code = c.do(http.MethodPost, "/game/guess", guessReq{GameID: created.GameID, Guess: []string{"Red", "Red", "Red"}}, &errBody)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "guess_too_short", errBody["error"])
	assert.EqualValues(t, 4, errBody["requiredLength"])

	errBody = nil
	code = c.do(http.MethodPost, "/game/guess", guessReq{GameID: created.GameID, Guess: []string{"Red", "Red", "Red", "Red", "Red"}}, &errBody)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "guess_too_long", errBody["error"])

	errBody = nil
	code = c.do(http.MethodPost, "/game/guess", guessReq{GameID: created.GameID, Guess: []string{"Red", "Red", "Red", "Orange"}}, &errBody)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "invalid_peg_guess", errBody["error"])
	assert.Len(t, errBody["availablePegs"], 6)

	var view gameView
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/game/"+created.GameID, nil, &view))
	assert.Equal(t, 0, view.Attempts)
	assert.Empty(t, view.Secret)

	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/game/nope", nil, nil))
}

func TestGameFlow_LossUpdatesStats(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t)}

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/auth/signup", credentials{Username: "codebreaker", Password: "hunter2hunter2"}, nil))

	var created newGameRes
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/new", map[string]any{"secret": []string{"Red", "Green", "Blue", "Yellow"}, "attempts": 2}, &created))

	wrong := []string{"Pink", "Pink", "Pink", "Pink"}
	var res guessRes
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/guess", guessReq{GameID: created.GameID, Guess: wrong}, &res))
	assert.Equal(t, game.InProgress, res.State)
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/guess", guessReq{GameID: created.GameID, Guess: wrong}, &res))
	assert.Equal(t, game.Lost, res.State)

	var stats map[string]any
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/stats/me", nil, &stats))
	assert.EqualValues(t, 1, stats["gamesPlayed"])
	assert.EqualValues(t, 0, stats["wins"])

	var mine []map[string]any
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/games/mine", nil, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, "lost", mine[0]["status"])
}

func TestAuth(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t)}

	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/auth/me", nil, nil))
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/auth/signup", credentials{Username: "x", Password: "short"}, nil))
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/auth/signup", credentials{Username: "alice", Password: "correct-horse"}, nil))
	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/auth/signup", credentials{Username: "ALICE", Password: "correct-horse"}, nil))

	fresh := &client{t: t, srv: c.srv}
	assert.Equal(t, http.StatusUnauthorized, fresh.do(http.MethodPost, "/auth/login", credentials{Username: "alice", Password: "wrong-password"}, nil))
	require.Equal(t, http.StatusOK, fresh.do(http.MethodPost, "/auth/login", credentials{Username: "alice", Password: "correct-horse"}, nil))

	var me authUser
	require.Equal(t, http.StatusOK, fresh.do(http.MethodGet, "/auth/me", nil, &me))
	assert.Equal(t, "alice", me.Username)
}

func TestDaily(t *testing.T) {
	srv := newTestServer(t)
	c := &client{t: t, srv: srv}

	var started dailyNewRes
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/daily/new", nil, &started))
	require.NotEmpty(t, started.GameID)
	assert.False(t, started.Played)
	assert.Equal(t, 4, started.Length)

	// Starting again resumes the same game.
	var again dailyNewRes
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/daily/new", nil, &again))
	assert.Equal(t, started.GameID, again.GameID)

	// Play the secret straight from the log.
	g, err := srv.events.Load(context.Background(), game.GameID(started.GameID))
	require.NoError(t, err)
	secret, ok := g.Secret()
	require.True(t, ok)
	names := make([]string, len(secret))
	for i, p := range secret {
		names[i] = string(p)
	}

	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/daily/guess", guessReq{GameID: "other", Guess: names}, nil))

	var res guessRes
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/daily/guess", guessReq{GameID: started.GameID, Guess: names}, &res))
	assert.Equal(t, game.Won, res.State)

	var done dailyNewRes
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/daily/new", nil, &done))
	assert.True(t, done.Played)

	var lb lbRes
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/daily/leaderboard", nil, &lb))
	require.Len(t, lb.Top, 1)
	assert.Equal(t, 1, lb.Top[0].Guesses)
}

func pendingDaily(srv *Server) int {
	srv.dailyAPI.mu.Lock()
	defer srv.dailyAPI.mu.Unlock()
	return len(srv.dailyAPI.starts)
}

func TestDaily_LossForgetsStartTime(t *testing.T) {
	srv := newTestServer(t)
	c := &client{t: t, srv: srv}

	var started dailyNewRes
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/daily/new", nil, &started))
	assert.Equal(t, 1, pendingDaily(srv))

	g, err := srv.events.Load(context.Background(), game.GameID(started.GameID))
	require.NoError(t, err)
	secret, _ := g.Secret()
	filler := string(started.AvailablePegs[0])
	if secret[0] == started.AvailablePegs[0] {
		filler = string(started.AvailablePegs[1])
	}
	wrong := []string{filler, filler, filler, filler}

	var res guessRes
	for i := 0; i < testConfig().TotalAttempts; i++ {
		require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/daily/guess", guessReq{GameID: started.GameID, Guess: wrong}, &res))
	}
	assert.Equal(t, game.Lost, res.State)
	assert.Equal(t, 0, pendingDaily(srv))
}

func TestDaily_NewDayDropsOldStartTimes(t *testing.T) {
	srv := newTestServer(t)
	day := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	srv.dailyAPI.now = func() time.Time { return day }

	for i := 0; i < 3; i++ {
		c := &client{t: t, srv: srv}
		require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/daily/new", nil, nil))
	}
	assert.Equal(t, 3, pendingDaily(srv))

	day = day.AddDate(0, 0, 1)
	c := &client{t: t, srv: srv}
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/daily/new", nil, nil))
	assert.Equal(t, 1, pendingDaily(srv))
}

func TestGameFlow_MyGamesListsOwnedGames(t *testing.T) {
	c := &client{t: t, srv: newTestServer(t)}
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/auth/signup", credentials{Username: "lister", Password: "hunter2hunter2"}, nil))

	var created newGameRes
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/game/new", nil, &created))

	var mine []map[string]any
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/games/mine", nil, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, created.GameID, mine[0]["id"])
	assert.Equal(t, "in_progress", mine[0]["status"])
}
