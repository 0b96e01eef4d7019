// Package shell is the terminal front end: a readline loop that feeds guesses
// and commands to a controller and draws the board with ANSI colours.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-classic/assets"
	"github.com/robalobadob/wordle/apps/go-classic/internal/controller"
	"github.com/robalobadob/wordle/apps/go-classic/internal/scores"
	"github.com/robalobadob/wordle/apps/go-classic/internal/words"
)

const prompt = "\033[32mwordle>\033[0m "

var (
	errNoData   = errors.New("no data in line")
	errNoWord   = errors.New("guess needs a word")
	errBadUsage = errors.New("too many arguments")
)

// Options configures a Shell.
type Options struct {
	HistoryFile string // readline history
	Plain       bool   // no ANSI colours
}

// Shell reads player input and implements controller.View.
type Shell struct {
	l      *readline.Instance
	out    io.Writer
	ask    func(p string) (string, error)
	plain  bool
	scores scores.Store

	board []string // rendered rows of the current game
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

// New opens the terminal. Close it with Close.
func New(sc scores.Store, opts Options) (*Shell, error) {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     opts.HistoryFile,
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	sh := &Shell{l: l, out: l.Stdout(), plain: opts.Plain, scores: sc}
	sh.ask = sh.readAnswer
	return sh, nil
}

// Close releases the terminal.
func (sh *Shell) Close() error { return sh.l.Close() }

// Stderr is where log output should go while the shell owns the terminal.
func (sh *Shell) Stderr() io.Writer { return sh.l.Stderr() }

// readAnswer shows p as a one-off prompt and reads a line.
func (sh *Shell) readAnswer(p string) (string, error) {
	sh.l.SetPrompt(p)
	defer sh.l.SetPrompt(prompt)
	line, err := sh.l.Readline()
	return strings.TrimSpace(line), err
}

func (sh *Shell) showMessage(msg string) {
	showMessage(msg, sh.out)
}

func (sh *Shell) showError(err error) {
	sh.showMessage("Error: " + err.Error())
}

// shellcmd is one parsed input line.
type shellcmd struct {
	cmd  string
	args []string
}

// commands maps every accepted command word to its canonical name.
var commands = map[string]string{
	"guess":       "guess",
	"leaderboard": "leaderboard",
	"scores":      "leaderboard",
	"best":        "best",
	"howto":       "howto",
	"help":        "help",
	"restart":     "restart",
	"new":         "restart",
	"board":       "board",
	"exit":        "exit",
	"quit":        "exit",
}

// parseLine splits a line into a command. Anything that is not a known
// command is taken as a guess; "guess WORD" guesses a word that collides
// with a command name.
func parseLine(line string) (*shellcmd, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, errNoData
	}
	name, ok := commands[strings.ToLower(fields[0])]
	if !ok {
		if len(fields) > 1 {
			return nil, errBadUsage
		}
		return &shellcmd{cmd: "guess", args: fields}, nil
	}
	args := fields[1:]
	switch name {
	case "guess":
		if len(args) == 0 {
			return nil, errNoWord
		}
		if len(args) > 1 {
			return nil, errBadUsage
		}
	case "leaderboard":
		if len(args) > 1 {
			return nil, errBadUsage
		}
	}
	return &shellcmd{cmd: name, args: args}, nil
}

// Loop runs until the player quits, the input ends, or a finished game is
// not retried.
func (sh *Shell) Loop(ctx context.Context, c *controller.Controller) error {
	sh.showMessage(welcome)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := sh.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				return nil
			}
			continue
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}

		cmd, err := parseLine(line)
		if err != nil {
			if !errors.Is(err, errNoData) {
				sh.showError(err)
			}
			continue
		}
		if quit := sh.dispatch(ctx, c, cmd); quit {
			break
		}
	}
	log.Debug().Msg("exiting readline loop")
	return nil
}

// dispatch runs one command and reports whether the loop should end.
func (sh *Shell) dispatch(ctx context.Context, c *controller.Controller, cmd *shellcmd) bool {
	switch cmd.cmd {
	case "guess":
		// validation problems reach the player through Notify
		_, err := c.SubmitGuess(ctx, cmd.args[0])
		var verr *words.ValidationError
		if err != nil && !errors.As(err, &verr) {
			sh.showError(err)
		}
		return c.Closed()
	case "leaderboard":
		mode := scores.ByAttempts
		if len(cmd.args) == 1 {
			mode = scores.ParseSortMode(cmd.args[0])
		}
		sh.showMessage(LeaderboardTable(sh.scores.LoadHistorySorted(ctx, mode)))
	case "best":
		sh.showMessage(BestLine(sh.scores.LoadBest(ctx)))
	case "howto":
		sh.showMessage(assets.HowToPlay())
	case "help":
		sh.showMessage(usage)
	case "board":
		sh.printBoard()
	case "restart":
		if err := c.Restart(); err != nil {
			sh.showError(err)
			return true
		}
		sh.board = sh.board[:0]
		sh.showMessage("New word picked. Good luck!")
	case "exit":
		return true
	}
	return false
}

const welcome = `Welcome to Wordle! Guess the five-letter word in six tries.
Type "help" for commands.`

const usage = `Commands:
  WORD                       guess a five-letter word
  guess WORD                 guess a word that is also a command name
  board                      show this game's guesses
  best                       show the best score
  leaderboard [name|tries|time]
                             show past wins, sorted
  howto                      how to play
  restart                    give up and start a new word
  exit                       quit`
