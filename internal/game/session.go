// apps/go-classic/internal/game/session.go
//
// Session state machine for a single game.
//
//	InProgress --submit(win)--------------> Won   (terminal)
//	InProgress --submit(6th non-win)------> Lost  (terminal)
//	InProgress --submit(other)------------> InProgress
//
// Terminal sessions reject submissions with ErrSessionOver and are not mutated.

package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/robalobadob/wordle/apps/go-classic/internal/words"
)

// MaxAttempts is the number of guesses a player gets.
const MaxAttempts = 6

// ErrSessionOver is returned when submitting to a finished session.
var ErrSessionOver = errors.New("game finished")

// Session holds the state of one game. Create with NewSession.
type Session struct {
	id       string
	secret   words.Word
	limit    int
	attempts int
	guesses  []words.Word
	started  time.Time
	finished time.Time
	outcome  Outcome
}

// NewSession starts a session for secret at now.
func NewSession(secret words.Word, now time.Time) *Session {
	return &Session{
		id:      randomID(),
		secret:  secret,
		limit:   MaxAttempts,
		guesses: make([]words.Word, 0, MaxAttempts),
		started: now,
	}
}

// Submit scores guess with eval and advances the state machine.
// now stamps the finish time when the guess ends the session.
func (s *Session) Submit(guess words.Word, eval Evaluator, now time.Time) (Result, error) {
	if s.outcome.Terminal() {
		return Result{}, ErrSessionOver
	}
	res := eval(s.secret, guess)
	s.attempts++
	s.guesses = append(s.guesses, guess)

	switch {
	case IsWin(res):
		s.outcome = Won
	case s.attempts >= s.limit:
		s.outcome = Lost
	}
	if s.outcome.Terminal() {
		s.finished = now
	}
	return res, nil
}

// ElapsedSeconds is the whole seconds between start and now, or between
// start and the finishing guess once the session is over.
func (s *Session) ElapsedSeconds(now time.Time) int {
	end := now
	if s.outcome.Terminal() {
		end = s.finished
	}
	d := end.Sub(s.started)
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}

func (s *Session) ID() string { return s.id }
func (s *Session) Secret() words.Word { return s.secret }
func (s *Session) Attempts() int { return s.attempts }
func (s *Session) Limit() int { return s.limit }
func (s *Session) Remaining() int { return s.limit - s.attempts }
func (s *Session) Outcome() Outcome { return s.outcome }
func (s *Session) Done() bool { return s.outcome.Terminal() }
func (s *Session) StartedAt() time.Time { return s.started }

// Guesses returns a copy of the words submitted so far.
func (s *Session) Guesses() []words.Word {
	out := make([]words.Word, len(s.guesses))
	copy(out, s.guesses)
	return out
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
