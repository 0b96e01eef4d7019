// apps/go-classic/internal/httpserver/server.go
//
// HTTP front end for the game.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/howto".
//   - Game endpoints (optional auth): POST /game/new, POST /game/guess,
//     GET /game/{id}, POST /game/{id}/restart.
//   - Score endpoints: GET /leaderboard, GET /best.
//   - Account endpoints: /auth/*.
//
// Each game is a controller.Controller held in the in-memory registry together
// with its owner: the account that created it, or the guest cookie of an
// anonymous creator. Only the owner may read, guess on, or restart a game;
// anyone else gets 404. Scores are recorded by the controller when a game is
// won; an authenticated player's username is the name on the record, and
// account counters move only for the owning account.
//
// In daily mode an owner's second game of the day is a practice game.
// Games idle for longer than Options.GameTTL are dropped by Sweep.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/robalobadob/wordle/apps/go-classic/assets"
	"github.com/robalobadob/wordle/apps/go-classic/internal/auth"
	"github.com/robalobadob/wordle/apps/go-classic/internal/controller"
	"github.com/robalobadob/wordle/apps/go-classic/internal/game"
	"github.com/robalobadob/wordle/apps/go-classic/internal/scores"
	"github.com/robalobadob/wordle/apps/go-classic/internal/store"
	"github.com/robalobadob/wordle/apps/go-classic/internal/words"
)

// Options tunes game creation and HTTP behaviour.
type Options struct {
	Scoring       game.Scoring
	StrictWords   bool
	DefaultPlayer string
	ClientOrigin  string
	CookieName    string
	SecureCookies bool
	GameTTL       time.Duration // idle games older than this are dropped; 0 means 30m
}

const guestCookieName = "wordle_guest"

// Server bundles router, game registry, word bank, score store and accounts.
type Server struct {
	r      *chi.Mux
	games  store.Store
	bank   *words.Bank
	scores scores.Store
	users  *auth.Users
	tokens *auth.Tokens
	opts   Options
	now    func() time.Time

	mu     sync.Mutex
	played map[string]string // owner -> date key of their daily game
}

// New constructs a Server, installs middleware, and registers routes.
func New(games store.Store, bank *words.Bank, sc scores.Store, users *auth.Users, tokens *auth.Tokens, opts Options) *Server {
	if opts.CookieName == "" {
		opts.CookieName = "wordle_token"
	}
	if opts.GameTTL <= 0 {
		opts.GameTTL = 30 * time.Minute
	}
	s := &Server{
		r: chi.NewRouter(), games: games, bank: bank, scores: sc, users: users, tokens: tokens, opts: opts,
		now: time.Now, played: make(map[string]string),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(cors(opts.ClientOrigin))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "wordle-classic",
			"endpoints": []string{"/health", "/howto", "POST /game/new", "POST /game/guess", "/leaderboard", "/best", "/auth/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Get("/howto", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"text": assets.HowToPlay()})
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		a, g := bank.Stats()
		writeJSON(w, http.StatusOK, map[string]int{"answers": a, "allowed": g})
	})

	// Game endpoints: OPTIONAL AUTH (guests can play)
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		r.Post("/game/new", s.handleNewGame)
		r.Post("/game/guess", s.handleGuess)
		r.Get("/game/{id}", s.handleGetGame)
		r.Post("/game/{id}/restart", s.handleRestart)
	})

	s.r.Get("/leaderboard", s.handleLeaderboard)
	s.r.Get("/best", s.handleBest)

	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Sweep drops idle games every interval until ctx is done.
func (s *Server) Sweep(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.sweepOnce(ctx)
		}
	}
}

func (s *Server) sweepOnce(ctx context.Context) int {
	now := s.now()
	n := s.games.Prune(ctx, now.Add(-s.opts.GameTTL))
	today := words.DateKey(now)
	s.mu.Lock()
	for owner, day := range s.played {
		if day != today {
			delete(s.played, owner)
		}
	}
	s.mu.Unlock()
	if n > 0 {
		log.Debug().Int("games", n).Msg("pruned idle games")
	}
	return n
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------ GAME ---------------------------------------

type newGameReq struct {
	Name string `json:"name"` // guest display name; ignored when logged in
}

// handleNewGame creates and registers a new game.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	name := s.playerName(r, req.Name)
	owner := s.ownerOf(w, r)
	opts := []controller.Option{
		controller.WithScoring(s.opts.Scoring),
		controller.WithStrictWords(s.opts.StrictWords),
		controller.WithPlayerName(name),
	}
	if s.bank.Daily() && s.playedToday(owner) {
		opts = append(opts, controller.WithPractice())
	}
	c, err := controller.New(s.bank, s.scores, opts...)
	if err != nil {
		log.Error().Err(err).Msg("new game")
		writeError(w, http.StatusInternalServerError, "no_words")
		return
	}
	id := c.ID()
	if err := s.games.Save(r.Context(), id, store.Game{Controller: c, Owner: owner}); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	log.Debug().Str("gameId", id).Str("player", name).Msg("game created")
	writeJSON(w, http.StatusOK, c.State())
}

type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}

// handleGuess submits a guess to a registered game.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	c, ok := s.ownedGame(r, req.GameID)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}

	turn, err := c.SubmitGuess(r.Context(), req.Guess)
	var verr *words.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_guess", "reason": verr.Reason})
		return
	case errors.Is(err, game.ErrSessionOver):
		writeError(w, http.StatusConflict, "game_finished")
		return
	case err != nil:
		log.Error().Err(err).Str("gameId", req.GameID).Msg("submit guess")
		writeError(w, http.StatusInternalServerError, "guess_failed")
		return
	}

	if turn.Outcome.Terminal() && !turn.Practice {
		if me := currentUser(r); me != nil && c.Owner == userOwner(me.ID) {
			if err := s.users.RecordGame(r.Context(), me.ID, turn.Outcome == game.Won); err != nil {
				log.Warn().Err(err).Str("user", me.ID).Msg("record game")
			}
		}
	}
	writeJSON(w, http.StatusOK, turn)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	c, ok := s.ownedGame(r, chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	writeJSON(w, http.StatusOK, c.State())
}

// handleRestart starts a fresh word in the same game and re-registers it
// under the new game ID.
func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	oldID := chi.URLParam(r, "id")
	c, ok := s.ownedGame(r, oldID)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	if err := c.Restart(); err != nil {
		log.Error().Err(err).Str("gameId", oldID).Msg("restart")
		writeError(w, http.StatusInternalServerError, "no_words")
		return
	}
	_ = s.games.Delete(r.Context(), oldID)
	if err := s.games.Save(r.Context(), c.ID(), c); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, c.State())
}

// ownedGame returns the registered game id if the requester owns it. A game
// owned by someone else looks exactly like a missing one.
func (s *Server) ownedGame(r *http.Request, id string) (store.Game, bool) {
	g, err := s.games.Get(r.Context(), id)
	if err != nil {
		return store.Game{}, false
	}
	if me := currentUser(r); me != nil && g.Owner == userOwner(me.ID) {
		return g, true
	}
	if c, err := r.Cookie(guestCookieName); err == nil && c.Value != "" && g.Owner == guestOwner(c.Value) {
		return g, true
	}
	return store.Game{}, false
}

// ownerOf names the requester: their account when logged in, otherwise
// their guest cookie, issued on first use.
func (s *Server) ownerOf(w http.ResponseWriter, r *http.Request) string {
	if me := currentUser(r); me != nil {
		return userOwner(me.ID)
	}
	return guestOwner(s.ensureGuestID(w, r))
}

func userOwner(id string) string  { return "user:" + id }
func guestOwner(id string) string { return "guest:" + id }

// ensureGuestID returns the guest cookie, setting a new one when absent.
func (s *Server) ensureGuestID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(guestCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := auth.NewID()
	http.SetCookie(w, &http.Cookie{
		Name:     guestCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: lo.Ternary(s.opts.SecureCookies, http.SameSiteNoneMode, http.SameSiteLaxMode),
		Expires:  s.now().Add(180 * 24 * time.Hour),
	})
	return id
}

// playedToday marks owner's daily game and reports whether one was already
// started today.
func (s *Server) playedToday(owner string) bool {
	today := words.DateKey(s.now())
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.played[owner] == today {
		return true
	}
	s.played[owner] = today
	return false
}

// playerName picks the record name: account username, then the requested
// guest name, then the configured default.
func (s *Server) playerName(r *http.Request, requested string) string {
	if me := currentUser(r); me != nil {
		return me.Username
	}
	if n := strings.TrimSpace(requested); n != "" {
		return n
	}
	return s.opts.DefaultPlayer
}

// ------------------------------ SCORES -------------------------------------

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	mode := scores.ParseSortMode(r.URL.Query().Get("sort"))
	recs := s.scores.LoadHistorySorted(r.Context(), mode)
	writeJSON(w, http.StatusOK, map[string]any{"sort": mode, "records": recs})
}

func (s *Server) handleBest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.scores.LoadBest(r.Context()))
}

// ------------------------------- util --------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
