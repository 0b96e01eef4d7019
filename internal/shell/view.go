package shell

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/robalobadob/wordle/apps/go-classic/internal/controller"
	"github.com/robalobadob/wordle/apps/go-classic/internal/game"
	"github.com/robalobadob/wordle/apps/go-classic/internal/scores"
	"github.com/robalobadob/wordle/apps/go-classic/internal/words"
)

const (
	colorReset   = "\033[0m"
	colorCorrect = "\033[1;30;42m" // black on green
	colorPresent = "\033[1;30;43m" // black on yellow
	colorAbsent  = "\033[1;37;100m"
)

var _ controller.View = (*Shell)(nil)

// RenderRow draws one guess as five letter tiles. Plain rows mark verdicts
// with brackets: [C]orrect, (P)resent, and bare letters for absent.
func RenderRow(guess words.Word, res game.Result, plain bool) string {
	var sb strings.Builder
	for i := 0; i < words.Length; i++ {
		ch := string(guess[i])
		if plain {
			switch res[i] {
			case game.Correct:
				sb.WriteString("[" + ch + "]")
			case game.Present:
				sb.WriteString("(" + ch + ")")
			default:
				sb.WriteString(" " + ch + " ")
			}
			continue
		}
		color := colorAbsent
		switch res[i] {
		case game.Correct:
			color = colorCorrect
		case game.Present:
			color = colorPresent
		}
		sb.WriteString(color + " " + ch + " " + colorReset)
	}
	return sb.String()
}

// LeaderboardTable formats history records as a Name / Tries / Time table.
// Widths count runes, as fmt padding does.
func LeaderboardTable(recs []scores.Record) string {
	if len(recs) == 0 {
		return "No scores yet."
	}
	width := lo.Max(append(lo.Map(recs, func(r scores.Record, _ int) int { return utf8.RuneCountInString(r.Name) }), len("Name")))
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-*s  %5s  %15s\n", width, "Name", "Tries", "Time(seconds)")
	for _, r := range recs {
		fmt.Fprintf(&sb, "%-*s  %5d  %15d\n", width, r.Name, r.Attempts, r.Seconds)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// BestLine describes the best record.
func BestLine(r scores.Record) string {
	if r == scores.Nobody {
		return "No best score yet."
	}
	return fmt.Sprintf("Best score: %s in %d tries.", r.Name, r.Attempts)
}

// FinishedMessage is the end-of-game text.
func FinishedMessage(s controller.Summary) string {
	if s.Outcome == game.Won {
		msg := fmt.Sprintf("You Win!! You Found The Answer in %d seconds and %d tries.", s.Seconds, s.Attempts)
		if s.NewBest {
			msg += "\nNew best score!"
		}
		return msg
	}
	return fmt.Sprintf("The Answer Was: %s. Better luck next time!!", s.Secret)
}

// Repaint adds the row and redraws the board.
func (sh *Shell) Repaint(row int, guess words.Word, res game.Result) {
	line := RenderRow(guess, res, sh.plain)
	if row < len(sh.board) {
		sh.board[row] = line
		sh.board = sh.board[:row+1]
	} else {
		sh.board = append(sh.board, line)
	}
	sh.printBoard()
}

func (sh *Shell) printBoard() {
	if len(sh.board) == 0 {
		sh.showMessage("No guesses yet.")
		return
	}
	for i, line := range sh.board {
		sh.showMessage(fmt.Sprintf("%d  %s", i+1, line))
	}
	if left := game.MaxAttempts - len(sh.board); left > 0 {
		sh.showMessage(fmt.Sprintf("%d %s left", left, lo.Ternary(left == 1, "try", "tries")))
	}
}

// Notify prints a rejected-guess message.
func (sh *Shell) Notify(msg string) {
	sh.showMessage("! " + msg)
}

// AskName prompts a record-setting player for a name.
func (sh *Shell) AskName(attempts int) string {
	sh.showMessage(fmt.Sprintf("New high score: %d tries!", attempts))
	name, err := sh.ask("Enter your name: ")
	if err != nil {
		return ""
	}
	return name
}

// Finished shows the result and asks whether to play again.
func (sh *Shell) Finished(s controller.Summary) controller.Decision {
	sh.showMessage(FinishedMessage(s))
	answer, err := sh.ask("Retry? [y/N] ")
	sh.board = sh.board[:0]
	if err != nil {
		return controller.Close
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return controller.Restart
	}
	return controller.Close
}
