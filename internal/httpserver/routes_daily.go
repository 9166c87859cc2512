// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start (or resume) today's game
//   - POST /daily/guess       → submit a guess for today's game
//   - GET  /daily/leaderboard → top 20 results for today (or a given date)
//
// Everyone gets the same secret on a given date (HMAC of the date key).
// A player's daily game ID is derived from player + date, so the game is
// just another event log and survives restarts. Results are persisted on win.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/mastermind/internal/daily"
	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/pegs"
	"github.com/robalobadob/mastermind/internal/store"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv    *Server
	now    func() time.Time
	mu     sync.Mutex                // guards day and starts
	day    string                    // date key the starts belong to
	starts map[game.GameID]time.Time // first /daily/new per unfinished game, for elapsed time
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:    s,
		now:    time.Now,
		starts: make(map[game.GameID]time.Time),
	}
	s.dailyAPI = dd
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// playerID returns the authenticated user ID if logged in,
// otherwise a stable anonymous ID from a cookie.
func (d *dailyServer) playerID(w http.ResponseWriter, r *http.Request) string {
	if me := currentUser(r); me != nil {
		return me.ID
	}
	return d.srv.ensureAnonID(w, r)
}

// -----------------------------------------------------------------------------
// /daily/new

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	GameID        string     `json:"gameId"`
	Date          string     `json:"date"`
	Played        bool       `json:"played"`
	Length        int        `json:"length"`
	TotalAttempts int        `json:"totalAttempts"`
	AvailablePegs []game.Peg `json:"availablePegs"`
}

// handleNew starts today's game for the caller unless it already exists.
// A player with a recorded result gets Played=true and no game.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.playerID(w, r)
	now := d.now()
	date := daily.DateKey(now)

	if played, err := d.srv.daily.AlreadyPlayed(r.Context(), uid, date); err == nil && played {
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: true})
		return
	} else if err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("daily already played")
	}

	id := daily.GameID(uid, date)
	history, err := d.srv.events.Load(r.Context(), id)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("gameId", string(id)).Msg("load daily")
		writeError(w, http.StatusInternalServerError, "load_failed")
		return
	}
	if !history.IsStarted() {
		vocab := pegs.All()
		events, err := game.Execute(game.JoinGame{
			ID:            id,
			Secret:        daily.Secret(now, d.srv.cfg.DailySalt, vocab, d.srv.cfg.CodeLength),
			TotalAttempts: d.srv.cfg.TotalAttempts,
			AvailablePegs: game.NewPegSet(vocab...),
		}, history)
		if err != nil {
			writeEngineError(w, r, err)
			return
		}
		// A concurrent /daily/new may have won the race; either way the game exists.
		if err := d.srv.events.Append(r.Context(), id, 0, events...); err != nil && !errors.Is(err, store.ErrConflict) {
			hlog.FromRequest(r).Error().Err(err).Str("gameId", string(id)).Msg("save daily")
			writeError(w, http.StatusInternalServerError, "save_failed")
			return
		}
		history = append(history, events...)
		if me := currentUser(r); me != nil {
			d.srv.claimGame(r.Context(), id, me.ID)
		}
	}

	d.markStarted(id, date, now)

	writeJSON(w, http.StatusOK, dailyNewRes{
		GameID:        string(id),
		Date:          date,
		Length:        history.SecretLength(),
		TotalAttempts: history.TotalAttempts(),
		AvailablePegs: history.AvailablePegs().Sorted(),
	})
}

// -----------------------------------------------------------------------------
// /daily/guess

// handleGuess applies a guess to today's game; a win is recorded for the
// leaderboard.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	uid := d.playerID(w, r)

	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	now := d.now()
	date := daily.DateKey(now)
	id := daily.GameID(uid, date)
	if req.GameID != string(id) {
		writeError(w, http.StatusConflict, "no_session")
		return
	}

	g, made, ok := d.srv.play(w, r, id, game.CodeOf(req.Guess...))
	if !ok {
		return
	}
	outcome := made.Guess.Feedback.Outcome
	if outcome == game.InProgress {
		writeJSON(w, http.StatusOK, guessResponse(g, made))
		return
	}
	start, started := d.finish(id)
	if me := currentUser(r); me != nil {
		d.srv.recordFinish(r.Context(), g, me.ID)
	}
	if outcome == game.Won {
		elapsed := 0
		if started {
			elapsed = int(now.Sub(start).Milliseconds())
		}
		if err := d.srv.daily.InsertResult(r.Context(), daily.Result{
			UserID: uid, Date: date, GameID: string(id), Guesses: g.Attempts(), ElapsedMs: elapsed,
		}); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Str("gameId", string(id)).Msg("insert daily result")
		}
	}
	writeJSON(w, http.StatusOK, guessResponse(g, made))
}

// markStarted remembers the first time a daily game was opened.
// Entries of earlier dates are dropped when the date changes.
func (d *dailyServer) markStarted(id game.GameID, date string, at time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.day != date {
		d.day = date
		d.starts = make(map[game.GameID]time.Time)
	}
	if _, ok := d.starts[id]; !ok {
		d.starts[id] = at
	}
}

// finish forgets a daily game's start time and returns it.
func (d *dailyServer) finish(id game.GameID) (time.Time, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	at, ok := d.starts[id]
	delete(d.starts, id)
	return at, ok
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(d.now())
	}
	rows, err := d.srv.daily.Leaderboard(r.Context(), date, 20)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
