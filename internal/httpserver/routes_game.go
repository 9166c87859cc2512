// internal/httpserver/routes_game.go
//
// HTTP routes for regular games:
//   - POST /game/new   → JoinGame with a random (or supplied) secret
//   - POST /game/guess → MakeGuess against the stored history
//   - GET  /game/{id}  → projected view of a game
//
// Rule violations come back from game.Execute as typed errors and are mapped
// to JSON bodies by writeEngineError.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/pegs"
	"github.com/robalobadob/mastermind/internal/store"
)

const (
	maxCodeLength    = 10
	maxTotalAttempts = 50
)

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Length   int      `json:"length"`   // optional, defaults to Config.CodeLength
	Attempts int      `json:"attempts"` // optional, defaults to Config.TotalAttempts
	Secret   []string `json:"secret"`   // optional fixed secret (testing)
}
type newGameRes struct {
	GameID        string     `json:"gameId"`
	Length        int        `json:"length"`
	TotalAttempts int        `json:"totalAttempts"`
	AvailablePegs []game.Peg `json:"availablePegs"`
}

// handleNewGame starts a new game under a fresh UUID and, for logged-in
// players, records ownership so finished games count towards their stats.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	attempts := req.Attempts
	if attempts == 0 {
		attempts = s.cfg.TotalAttempts
	}
	if attempts < 1 || attempts > maxTotalAttempts {
		writeError(w, http.StatusBadRequest, "invalid_attempts")
		return
	}

	vocab := pegs.Set()
	var secret game.Code
	if len(req.Secret) > 0 {
		secret = game.CodeOf(req.Secret...)
		if !vocab.ContainsAll(secret) || len(secret) > maxCodeLength {
			writeError(w, http.StatusBadRequest, "invalid_secret")
			return
		}
	} else {
		length := req.Length
		if length == 0 {
			length = s.cfg.CodeLength
		}
		if length < 1 || length > maxCodeLength {
			writeError(w, http.StatusBadRequest, "invalid_length")
			return
		}
		var err error
		if secret, err = pegs.RandomSecret(length); err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("random secret")
			writeError(w, http.StatusInternalServerError, "secret_failed")
			return
		}
	}

	id := game.GameID(uuid.NewString())
	events, err := game.Execute(game.JoinGame{
		ID:            id,
		Secret:        secret,
		TotalAttempts: attempts,
		AvailablePegs: vocab,
	}, game.NotStartedGame())
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	if err := s.events.Append(r.Context(), id, 0, events...); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("gameId", string(id)).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	if me := currentUser(r); me != nil {
		s.claimGame(r.Context(), id, me.ID)
	}

	writeJSON(w, http.StatusOK, newGameRes{
		GameID:        string(id),
		Length:        len(secret),
		TotalAttempts: attempts,
		AvailablePegs: vocab.Sorted(),
	})
}

// guessReq/Res payloads for POST /game/guess.
type guessReq struct {
	GameID string   `json:"gameId"`
	Guess  []string `json:"guess"`
}
type guessRes struct {
	Feedback     game.Feedback `json:"feedback"`
	Blacks       int           `json:"blacks"`
	Whites       int           `json:"whites"`
	State        game.Outcome  `json:"state"` // in_progress | won | lost
	Attempts     int           `json:"attempts"`
	AttemptsLeft int           `json:"attemptsLeft"`
	Secret       game.Code     `json:"secret,omitempty"` // revealed once finished
}

// handleGuess applies a guess and, when it ends the game, updates the
// player's stats.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.GameID == "" {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	g, made, ok := s.play(w, r, game.GameID(req.GameID), game.CodeOf(req.Guess...))
	if !ok {
		return
	}
	if me := currentUser(r); me != nil && made.Guess.Feedback.Outcome != game.InProgress {
		s.recordFinish(r.Context(), g, me.ID)
	}
	writeJSON(w, http.StatusOK, guessResponse(g, made))
}

// play runs one MakeGuess against the stored history and appends the result.
// It writes the error response itself and reports ok=false on failure.
func (s *Server) play(w http.ResponseWriter, r *http.Request, id game.GameID, guess game.Code) (game.Game, game.GuessMade, bool) {
	history, err := s.events.Load(r.Context(), id)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("gameId", string(id)).Msg("load game")
		writeError(w, http.StatusInternalServerError, "load_failed")
		return nil, game.GuessMade{}, false
	}
	events, err := game.Execute(game.MakeGuess{ID: id, Guess: guess}, history)
	if err != nil {
		writeEngineError(w, r, err)
		return nil, game.GuessMade{}, false
	}
	if err := s.events.Append(r.Context(), id, len(history), events...); err != nil {
		if errors.Is(err, store.ErrConflict) {
			writeError(w, http.StatusConflict, "conflict")
			return nil, game.GuessMade{}, false
		}
		hlog.FromRequest(r).Error().Err(err).Str("gameId", string(id)).Msg("append guess")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return nil, game.GuessMade{}, false
	}
	made, _ := events[0].(game.GuessMade)
	return append(history, events...), made, true
}

func guessResponse(g game.Game, made game.GuessMade) guessRes {
	res := guessRes{
		Feedback:     made.Guess.Feedback,
		State:        made.Guess.Feedback.Outcome,
		Attempts:     g.Attempts(),
		AttemptsLeft: g.TotalAttempts() - g.Attempts(),
	}
	res.Blacks, res.Whites = made.Guess.Feedback.Count()
	if res.AttemptsLeft < 0 {
		res.AttemptsLeft = 0
	}
	if res.State != game.InProgress {
		res.Secret, _ = g.Secret()
	}
	return res
}

// gameView is the projected state returned by GET /game/{id}.
type gameView struct {
	GameID        string       `json:"gameId"`
	Status        game.Status  `json:"status"`
	Length        int          `json:"length"`
	TotalAttempts int          `json:"totalAttempts"`
	Attempts      int          `json:"attempts"`
	AvailablePegs []game.Peg   `json:"availablePegs"`
	Guesses       []game.Guess `json:"guesses"`
	Secret        game.Code    `json:"secret,omitempty"` // only once finished
}

func viewOf(id game.GameID, g game.Game) gameView {
	v := gameView{
		GameID:        string(id),
		Status:        g.Status(),
		Length:        g.SecretLength(),
		TotalAttempts: g.TotalAttempts(),
		Attempts:      g.Attempts(),
		AvailablePegs: g.AvailablePegs().Sorted(),
		Guesses:       g.Guesses(),
	}
	if v.Guesses == nil {
		v.Guesses = []game.Guess{}
	}
	if v.Status == game.StatusWon || v.Status == game.StatusLost {
		v.Secret, _ = g.Secret()
	}
	return v
}

// handleGetGame returns the projected view of a started game.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id := game.GameID(chi.URLParam(r, "id"))
	g, err := s.events.Load(r.Context(), id)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("gameId", string(id)).Msg("load game")
		writeError(w, http.StatusInternalServerError, "load_failed")
		return
	}
	if !g.IsStarted() {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	writeJSON(w, http.StatusOK, viewOf(id, g))
}

// ------------------------------ errors -------------------------------------

// writeEngineError maps a game.Error onto an HTTP response.
func writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	var gerr game.Error
	if !errors.As(err, &gerr) {
		hlog.FromRequest(r).Error().Err(err).Msg("execute")
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	body := map[string]any{"error": gerr.Kind(), "gameId": gerr.GameID()}
	status := http.StatusUnprocessableEntity
	switch e := gerr.(type) {
	case game.GameNotStartedError:
		status = http.StatusNotFound
	case game.FinishError:
		status = http.StatusConflict
	case game.GuessTooShortError:
		body["guess"], body["requiredLength"] = e.Guess, e.RequiredLength
	case game.GuessTooLongError:
		body["guess"], body["requiredLength"] = e.Guess, e.RequiredLength
	case game.InvalidPegGuessError:
		body["guess"], body["availablePegs"] = e.Guess, e.AvailablePegs
	}
	hlog.FromRequest(r).Debug().Str("kind", gerr.Kind()).Str("gameId", string(gerr.GameID())).Msg("rejected")
	writeJSON(w, status, body)
}

// ------------------------------ stats --------------------------------------

// claimGame records userID as the owner of a game (best effort).
func (s *Server) claimGame(ctx context.Context, id game.GameID, userID string) {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO game_owners (game_id, user_id, created_at) VALUES (?,?,?)`,
		string(id), userID, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("gameId", string(id)).Msg("claim game")
	}
}

// recordFinish bumps the owner's stats once a game they own has ended.
func (s *Server) recordFinish(ctx context.Context, g game.Game, userID string) {
	if len(g) == 0 {
		return
	}
	id := g[0].GameID()
	var owner string
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(user_id,'') FROM game_owners WHERE game_id=?`, string(id)).Scan(&owner)
	if err != nil || owner != userID {
		return
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("begin stats tx")
		return
	}
	defer func() { _ = tx.Rollback() }()
	if err := bumpStats(tx, userID, g.IsWon()); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("user", userID).Msg("bump stats")
		return
	}
	if err := tx.Commit(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("user", userID).Msg("commit stats")
	}
}
