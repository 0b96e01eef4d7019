// apps/go-classic/internal/controller/controller.go
//
// Game controller: the one object a front end talks to.
//
// Responsibilities:
//   - Own the current game.Session and its board.
//   - Validate submitted text, score it, advance the session.
//   - Call back into the View to repaint, report validation problems, ask for
//     a high-score name and decide restart-or-close at the end.
//   - Record wins in the score store (best record + history).
//   - In daily mode, turn replays into unrecorded practice games on another
//     word, so the day's secret cannot be replayed for a score.
//
// Score persistence is best effort: store failures are logged and the game
// carries on.

package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-classic/internal/game"
	"github.com/robalobadob/wordle/apps/go-classic/internal/scores"
	"github.com/robalobadob/wordle/apps/go-classic/internal/words"
)

// Decision is the front end's answer to a finished game.
type Decision int

const (
	Close Decision = iota
	Restart
)

// Summary describes a finished game.
type Summary struct {
	Outcome  game.Outcome
	Secret   words.Word
	Attempts int
	Seconds  int
	Best     scores.Record // best record after this game was recorded
	NewBest  bool
	Practice bool // not recorded
}

// View is the presentation side. Calls happen synchronously on the goroutine
// that called SubmitGuess, with the controller locked; views must not call
// back into the controller.
type View interface {
	// Repaint draws guess row (0-based) with its verdicts.
	Repaint(row int, guess words.Word, res game.Result)
	// Notify shows a non-blocking message, e.g. a rejected guess.
	Notify(msg string)
	// AskName asks a record-setting player for a name. Empty keeps the default.
	AskName(attempts int) string
	// Finished shows the result and decides what happens next.
	Finished(s Summary) Decision
}

// Row is one submitted guess on the board.
type Row struct {
	Guess  words.Word  `json:"guess"`
	Result game.Result `json:"result"`
}

// Turn is what SubmitGuess reports back.
type Turn struct {
	Row       int          `json:"row"`
	Guess     words.Word   `json:"guess"`
	Result    game.Result  `json:"result"`
	Outcome   game.Outcome `json:"state"`
	Attempts  int          `json:"attempts"`
	Remaining int          `json:"remaining"`
	Seconds   int          `json:"seconds"`
	NewBest   bool         `json:"newBest,omitempty"`
	Practice  bool         `json:"practice,omitempty"`
	Secret    words.Word   `json:"answer,omitempty"` // set once the game is over
}

// Controller orchestrates one player's games. Safe for concurrent use.
type Controller struct {
	mu      sync.Mutex
	bank    *words.Bank
	store   scores.Store
	view    View
	eval    game.Evaluator
	strict  bool
	player  string
	now     func() time.Time
	session *game.Session
	board   []Row
	closed  bool

	practiceOnly bool // every game is practice
	practice     bool // current game is practice
}

// Option configures a Controller.
type Option func(*Controller)

// WithView attaches a front end.
func WithView(v View) Option {
	return func(c *Controller) {
		if v != nil {
			c.view = v
		}
	}
}

// WithScoring selects the evaluation rule.
func WithScoring(s game.Scoring) Option { return func(c *Controller) { c.eval = s.Evaluator() } }

// WithStrictWords rejects guesses that are not in the bank.
func WithStrictWords(strict bool) Option { return func(c *Controller) { c.strict = strict } }

// WithPlayerName sets the name written to history records.
func WithPlayerName(name string) Option { return func(c *Controller) { c.player = name } }

// WithPractice makes every game of this controller an unrecorded practice
// game.
func WithPractice() Option { return func(c *Controller) { c.practiceOnly = true } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(c *Controller) { c.now = now } }

// New builds a controller and starts its first game.
func New(bank *words.Bank, store scores.Store, opts ...Option) (*Controller, error) {
	c := &Controller{
		bank:  bank,
		store: store,
		view:  nopView{},
		eval:  game.Evaluate,
		now:   time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	if err := c.startLocked(c.practiceOnly); err != nil {
		return nil, err
	}
	return c, nil
}

// SubmitGuess handles one guess.
//
// Returns a *words.ValidationError (after telling the view) for text that is
// not a usable word, game.ErrSessionOver once the game has ended.
func (c *Controller) SubmitGuess(ctx context.Context, text string) (Turn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	guess, err := words.Parse(text)
	if err == nil && c.strict && !c.bank.Contains(guess) {
		err = &words.ValidationError{Input: text, Reason: "not in word list"}
	}
	if err != nil {
		var verr *words.ValidationError
		if errors.As(err, &verr) {
			c.view.Notify(verr.Reason)
		}
		return Turn{}, err
	}

	s := c.session
	now := c.now()
	res, err := s.Submit(guess, c.eval, now)
	if err != nil {
		return Turn{}, err
	}
	row := len(c.board)
	c.board = append(c.board, Row{Guess: guess, Result: res})
	c.view.Repaint(row, guess, res)

	turn := Turn{
		Row:       row,
		Guess:     guess,
		Result:    res,
		Outcome:   s.Outcome(),
		Attempts:  s.Attempts(),
		Remaining: s.Remaining(),
		Seconds:   s.ElapsedSeconds(now),
		Practice:  c.practice,
	}
	if !s.Done() {
		return turn, nil
	}

	sum := c.record(ctx, s, now)
	turn.Secret = s.Secret()
	turn.NewBest = sum.NewBest

	log.Info().Str("gameId", s.ID()).Stringer("outcome", s.Outcome()).
		Int("attempts", s.Attempts()).Int("seconds", sum.Seconds).Msg("game finished")

	switch c.view.Finished(sum) {
	case Restart:
		if err := c.restartLocked(); err != nil {
			log.Error().Err(err).Msg("restart")
			c.closed = true
		}
	default:
		c.closed = true
	}
	return turn, nil
}

// record persists a finished game and builds its summary.
func (c *Controller) record(ctx context.Context, s *game.Session, now time.Time) Summary {
	sum := Summary{
		Outcome:  s.Outcome(),
		Secret:   s.Secret(),
		Attempts: s.Attempts(),
		Seconds:  s.ElapsedSeconds(now),
		Best:     c.store.LoadBest(ctx),
		Practice: c.practice,
	}
	if s.Outcome() != game.Won || c.practice {
		return sum
	}

	name := c.player
	if scores.IsNewBest(scores.Record{Attempts: sum.Attempts}, sum.Best) {
		if n := c.view.AskName(sum.Attempts); n != "" {
			name = n
		}
		rec := scores.NewRecord(name, sum.Attempts, sum.Seconds)
		ok, err := c.store.OfferBest(ctx, rec)
		if err != nil {
			log.Warn().Err(err).Str("gameId", s.ID()).Msg("save best score")
		}
		if ok {
			sum.NewBest = true
			sum.Best = scores.Record{Name: rec.Name, Attempts: rec.Attempts}
		}
	}

	if err := c.store.AppendHistory(ctx, scores.NewRecord(name, sum.Attempts, sum.Seconds)); err != nil {
		log.Warn().Err(err).Str("gameId", s.ID()).Msg("append score history")
	}
	return sum
}

// Restart throws away the current game and starts a new one with a fresh word.
func (c *Controller) Restart() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.restartLocked()
}

// restartLocked starts the next game. In daily mode that is a practice game:
// the day's word has already been played.
func (c *Controller) restartLocked() error {
	return c.startLocked(c.practiceOnly || c.bank.Daily())
}

func (c *Controller) startLocked(practice bool) error {
	now := c.now()
	pick := c.bank.Pick
	if practice {
		pick = c.bank.PickPractice
	}
	secret, err := pick(now)
	if err != nil {
		return err
	}
	c.session = game.NewSession(secret, now)
	c.board = c.board[:0]
	c.closed = false
	c.practice = practice
	log.Debug().Str("gameId", c.session.ID()).Bool("practice", practice).Msg("new game")
	return nil
}

// SetPlayerName changes the name used for later records.
func (c *Controller) SetPlayerName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.player = name
}

// ID is the current game's identifier.
func (c *Controller) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.ID()
}

// State is a read-only snapshot of the current game.
type State struct {
	ID        string       `json:"gameId"`
	Board     []Row        `json:"board"`
	Outcome   game.Outcome `json:"state"`
	Attempts  int          `json:"attempts"`
	Remaining int          `json:"remaining"`
	Seconds   int          `json:"seconds"`
	Practice  bool         `json:"practice,omitempty"`
	Secret    words.Word   `json:"answer,omitempty"`
}

// State snapshots the current game. The secret is only included when the
// game is over.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.session
	st := State{
		ID:        s.ID(),
		Board:     append([]Row{}, c.board...),
		Outcome:   s.Outcome(),
		Attempts:  s.Attempts(),
		Remaining: s.Remaining(),
		Seconds:   s.ElapsedSeconds(c.now()),
		Practice:  c.practice,
	}
	if s.Done() {
		st.Secret = s.Secret()
	}
	return st
}

// Closed reports whether the view chose to close after the last game.
func (c *Controller) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// nopView is used when no front end is attached.
type nopView struct{}

func (nopView) Repaint(int, words.Word, game.Result) {}
func (nopView) Notify(string) {}
func (nopView) AskName(int) string { return "" }
func (nopView) Finished(Summary) Decision { return Close }
