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

	"github.com/robalobadob/wordle/apps/go-classic/internal/auth"
	"github.com/robalobadob/wordle/apps/go-classic/internal/db"
	"github.com/robalobadob/wordle/apps/go-classic/internal/scores"
	"github.com/robalobadob/wordle/apps/go-classic/internal/store"
	"github.com/robalobadob/wordle/apps/go-classic/internal/words"
)

type testServer struct {
	*Server
	scores scores.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWith(t, words.NewBank([]words.Word{"CRANE"}, []words.Word{"SLATE"}, words.PickRandomMode, ""))
}

func newTestServerWith(t *testing.T, bank *words.Bank) *testServer {
	t.Helper()
	conn, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "wordle.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	sc := scores.NewFileStoreIn(t.TempDir())
	srv := New(store.NewMemoryStore(), bank, sc, auth.NewUsers(conn), auth.NewTokens("test_secret", 1), Options{
		DefaultPlayer: "Guest",
		ClientOrigin:  "http://localhost:5173",
	})
	return &testServer{Server: srv, scores: sc}
}

// client is one browser: an optional bearer token plus the cookies the
// server has set on it.
type client struct {
	token   string
	cookies map[string]*http.Cookie
}

func newClient() *client { return &client{cookies: map[string]*http.Cookie{}} }

// do sends a JSON request as c (nil for a bare request) and decodes the JSON
// response into out (if non-nil).
func (ts *testServer) do(t *testing.T, method, path string, body any, c *client, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if c != nil {
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		for _, ck := range c.cookies {
			req.AddCookie(ck)
		}
	}
	rec := httptest.NewRecorder()
	ts.Router().ServeHTTP(rec, req)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	if c != nil {
		for _, ck := range rec.Result().Cookies() {
			if ck.MaxAge < 0 {
				delete(c.cookies, ck.Name)
				continue
			}
			c.cookies[ck.Name] = ck
		}
	}
	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec.Code
}

// signup creates an account and returns a client logged in as it.
func (ts *testServer) signup(t *testing.T, c *client, username string) *client {
	t.Helper()
	var resp map[string]string
	require.Equal(t, http.StatusOK,
		ts.do(t, http.MethodPost, "/auth/signup", credentials{Username: username, Password: "password123"}, c, &resp))
	c.token = resp["token"]
	return c
}

// account fetches the logged-in account of c.
func (ts *testServer) account(t *testing.T, c *client) auth.User {
	t.Helper()
	var me auth.User
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/auth/me", nil, c, &me))
	return me
}

type stateResp struct {
	GameID    string `json:"gameId"`
	State     string `json:"state"`
	Practice  bool   `json:"practice"`
	Attempts  int    `json:"attempts"`
	Remaining int    `json:"remaining"`
	Answer    string `json:"answer"`
	Board     []struct {
		Guess  string   `json:"guess"`
		Result []string `json:"result"`
	} `json:"board"`
}

type turnResp struct {
	Row     int      `json:"row"`
	Result  []string `json:"result"`
	State   string   `json:"state"`
	Answer  string   `json:"answer"`
	NewBest bool     `json:"newBest"`
}

func TestHealthAndHowTo(t *testing.T) {
	ts := newTestServer(t)

	var health map[string]bool
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/health", nil, nil, &health))
	assert.True(t, health["ok"])

	var howto map[string]string
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/howto", nil, nil, &howto))
	assert.NotEmpty(t, howto["text"])

	var nf map[string]string
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/nope", nil, nil, &nf))
	assert.Equal(t, "not_found", nf["error"])
}

func TestGameFlow(t *testing.T) {
	ts := newTestServer(t)
	guest := newClient()

	var st stateResp
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/game/new", map[string]string{"name": "Zoe"}, guest, &st))
	require.NotEmpty(t, st.GameID)
	assert.Equal(t, "playing", st.State)
	assert.Equal(t, 6, st.Remaining)
	assert.Empty(t, st.Answer)

	var bad map[string]string
	assert.Equal(t, http.StatusBadRequest,
		ts.do(t, http.MethodPost, "/game/guess", guessReq{GameID: st.GameID, Guess: "abc"}, guest, &bad))
	assert.Equal(t, "invalid_guess", bad["error"])
	assert.Equal(t, "need 5 letters", bad["reason"])

	var turn turnResp
	require.Equal(t, http.StatusOK,
		ts.do(t, http.MethodPost, "/game/guess", guessReq{GameID: st.GameID, Guess: "slate"}, guest, &turn))
	assert.Equal(t, 0, turn.Row)
	assert.Equal(t, []string{"absent", "absent", "correct", "absent", "correct"}, turn.Result)
	assert.Equal(t, "playing", turn.State)
	assert.Empty(t, turn.Answer)

	require.Equal(t, http.StatusOK,
		ts.do(t, http.MethodPost, "/game/guess", guessReq{GameID: st.GameID, Guess: "crane"}, guest, &turn))
	assert.Equal(t, "won", turn.State)
	assert.Equal(t, "CRANE", turn.Answer)
	assert.True(t, turn.NewBest)

	var conflict map[string]string
	assert.Equal(t, http.StatusConflict,
		ts.do(t, http.MethodPost, "/game/guess", guessReq{GameID: st.GameID, Guess: "crane"}, guest, &conflict))
	assert.Equal(t, "game_finished", conflict["error"])

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/game/"+st.GameID, nil, guest, &st))
	assert.Equal(t, "won", st.State)
	assert.Equal(t, "CRANE", st.Answer)
	require.Len(t, st.Board, 2)
	assert.Equal(t, "SLATE", st.Board[0].Guess)

	var best scores.Record
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/best", nil, guest, &best))
	assert.Equal(t, scores.Record{Name: "Zoe", Attempts: 2}, best)

	var board struct {
		Sort    string          `json:"sort"`
		Records []scores.Record `json:"records"`
	}
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/leaderboard?sort=name", nil, guest, &board))
	assert.Equal(t, "name", board.Sort)
	require.Len(t, board.Records, 1)
	assert.Equal(t, "Zoe", board.Records[0].Name)
	assert.Equal(t, 2, board.Records[0].Attempts)
}

func TestGuestDefaultName(t *testing.T) {
	ts := newTestServer(t)
	guest := newClient()

	var st stateResp
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/game/new", nil, guest, &st))
	var turn turnResp
	require.Equal(t, http.StatusOK,
		ts.do(t, http.MethodPost, "/game/guess", guessReq{GameID: st.GameID, Guess: "CRANE"}, guest, &turn))

	assert.Equal(t, "Guest", ts.scores.LoadBest(context.Background()).Name)
}

func TestUnknownGame(t *testing.T) {
	ts := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/game/missing", nil, nil, nil))
	assert.Equal(t, http.StatusNotFound,
		ts.do(t, http.MethodPost, "/game/guess", guessReq{GameID: "missing", Guess: "CRANE"}, nil, nil))
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPost, "/game/missing/restart", nil, nil, nil))
}

func TestRestartReRegisters(t *testing.T) {
	ts := newTestServer(t)
	guest := newClient()

	var st stateResp
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/game/new", nil, guest, &st))
	oldID := st.GameID
	var turn turnResp
	require.Equal(t, http.StatusOK,
		ts.do(t, http.MethodPost, "/game/guess", guessReq{GameID: oldID, Guess: "SLATE"}, guest, &turn))

	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/game/"+oldID+"/restart", nil, guest, &st))
	assert.NotEqual(t, oldID, st.GameID)
	assert.Equal(t, 0, st.Attempts)
	assert.Empty(t, st.Board)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/game/"+oldID, nil, guest, nil))
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/game/"+st.GameID, nil, guest, nil))
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t)
	creds := credentials{Username: "alice_1", Password: "password123"}

	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, "/auth/me", nil, nil, nil))

	var signup map[string]string
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/auth/signup", creds, nil, &signup))
	require.NotEmpty(t, signup["token"])
	assert.Equal(t, "alice_1", signup["username"])

	assert.Equal(t, http.StatusConflict, ts.do(t, http.MethodPost, "/auth/signup", creds, nil, nil))
	assert.Equal(t, http.StatusUnauthorized,
		ts.do(t, http.MethodPost, "/auth/login", credentials{Username: "alice_1", Password: "wrong-pass"}, nil, nil))

	var login map[string]string
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/auth/login", creds, nil, &login))
	alice := &client{token: login["token"]}

	// The account name goes on the record, not the requested guest name.
	var st stateResp
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/game/new", map[string]string{"name": "Mallory"}, alice, &st))
	var turn turnResp
	require.Equal(t, http.StatusOK,
		ts.do(t, http.MethodPost, "/game/guess", guessReq{GameID: st.GameID, Guess: "CRANE"}, alice, &turn))
	assert.Equal(t, "won", turn.State)
	assert.Equal(t, "alice_1", ts.scores.LoadBest(context.Background()).Name)

	me := ts.account(t, alice)
	assert.Equal(t, "alice_1", me.Username)
	assert.Equal(t, 1, me.GamesPlayed)
	assert.Equal(t, 1, me.Wins)
	assert.Equal(t, 1, me.Streak)

	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodGet, "/auth/me", nil, &client{token: "garbage"}, nil))
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/game/new", nil)
	rec := httptest.NewRecorder()
	ts.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestGamesAreOwnerScoped(t *testing.T) {
	ts := newTestServer(t)
	guest := newClient()
	mallory := ts.signup(t, newClient(), "mallory")

	var st stateResp
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/game/new", map[string]string{"name": "Zoe"}, guest, &st))
	require.Contains(t, guest.cookies, guestCookieName)

	// Someone else's game looks missing, whether they are logged in or not.
	for _, other := range []*client{mallory, newClient(), nil} {
		assert.Equal(t, http.StatusNotFound,
			ts.do(t, http.MethodPost, "/game/guess", guessReq{GameID: st.GameID, Guess: "CRANE"}, other, nil))
		assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/game/"+st.GameID, nil, other, nil))
		assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPost, "/game/"+st.GameID+"/restart", nil, other, nil))
	}
	assert.Equal(t, 0, ts.account(t, mallory).GamesPlayed)
	assert.Empty(t, ts.scores.LoadHistorySorted(context.Background(), scores.ByName))

	var turn turnResp
	require.Equal(t, http.StatusOK,
		ts.do(t, http.MethodPost, "/game/guess", guessReq{GameID: st.GameID, Guess: "CRANE"}, guest, &turn))
	assert.Equal(t, "won", turn.State)
	assert.Equal(t, "Zoe", ts.scores.LoadBest(context.Background()).Name)

	// An account's game is off limits to guests too.
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/game/new", nil, mallory, &st))
	assert.Equal(t, http.StatusNotFound,
		ts.do(t, http.MethodPost, "/game/guess", guessReq{GameID: st.GameID, Guess: "CRANE"}, guest, nil))
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/game/"+st.GameID, nil, mallory, nil))
}

func TestGuestGameFinishedAfterLoginLeavesAccountAlone(t *testing.T) {
	ts := newTestServer(t)
	browser := newClient()

	var st stateResp
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/game/new", nil, browser, &st))
	ts.signup(t, browser, "late_login")

	// Still the guest's game, so the guest cookie keeps it playable.
	var turn turnResp
	require.Equal(t, http.StatusOK,
		ts.do(t, http.MethodPost, "/game/guess", guessReq{GameID: st.GameID, Guess: "CRANE"}, browser, &turn))
	assert.Equal(t, "won", turn.State)

	me := ts.account(t, browser)
	assert.Equal(t, 0, me.GamesPlayed)
	assert.Equal(t, 0, me.Wins)
}

func TestDailyReplayIsPractice(t *testing.T) {
	bank := words.NewBank([]words.Word{"CRANE", "SLATE"}, nil, words.PickDailyMode, "salt")
	ts := newTestServerWith(t, bank)
	today, err := bank.Pick(time.Now())
	require.NoError(t, err)
	other := words.Word("CRANE")
	if today == other {
		other = "SLATE"
	}
	guest := newClient()

	var st stateResp
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/game/new", nil, guest, &st))
	assert.False(t, st.Practice)
	var turn turnResp
	for _, g := range []words.Word{other, today} {
		require.Equal(t, http.StatusOK,
			ts.do(t, http.MethodPost, "/game/guess", guessReq{GameID: st.GameID, Guess: string(g)}, guest, &turn))
	}
	require.Equal(t, "won", turn.State)

	// A second game the same day is practice on another word and is not recorded.
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/game/new", nil, guest, &st))
	assert.True(t, st.Practice)
	require.Equal(t, http.StatusOK,
		ts.do(t, http.MethodPost, "/game/guess", guessReq{GameID: st.GameID, Guess: string(other)}, guest, &turn))
	assert.Equal(t, "won", turn.State)
	assert.Equal(t, scores.Record{Name: "Guest", Attempts: 2}, ts.scores.LoadBest(context.Background()))
	assert.Len(t, ts.scores.LoadHistorySorted(context.Background(), scores.ByName), 1)

	// Other players still get the day's game.
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/game/new", nil, newClient(), &st))
	assert.False(t, st.Practice)
}

func TestSweepDropsIdleGames(t *testing.T) {
	ts := newTestServer(t)
	guest := newClient()

	var st stateResp
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/game/new", nil, guest, &st))
	ts.played["someone"] = "2000-01-01"

	assert.Equal(t, 0, ts.sweepOnce(context.Background()))
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/game/"+st.GameID, nil, guest, nil))
	assert.NotContains(t, ts.played, "someone")

	ts.now = func() time.Time { return time.Now().Add(time.Hour) }
	assert.Equal(t, 1, ts.sweepOnce(context.Background()))
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/game/"+st.GameID, nil, guest, nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { ts.Sweep(ctx, time.Millisecond); close(done) }()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Sweep did not stop on cancel")
	}
}
