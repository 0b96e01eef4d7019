// apps/go-classic/internal/game/engine.go
//
// Guess evaluation.
//
// Two scoring rules are available:
//   - Simplified (default): a letter that is not an exact match is Present if
//     it occurs anywhere in the secret. Repeated guess letters are each marked
//     Present even when the secret holds the letter once.
//   - Standard: the two-pass Wordle algorithm that consumes letter counts, so
//     a letter is marked Present at most as often as it remains unmatched.
//
// Both are pure functions over validated Words.

package game

import (
	"strings"

	"github.com/robalobadob/wordle/apps/go-classic/internal/words"
)

// Evaluator scores a guess against a secret.
type Evaluator func(secret, guess words.Word) Result

// Scoring names an evaluation rule.
type Scoring string

const (
	Simplified Scoring = "simplified"
	Standard   Scoring = "standard"
)

// ParseScoring maps a config value to a Scoring; unknown values are Simplified.
func ParseScoring(s string) Scoring {
	if strings.EqualFold(strings.TrimSpace(s), string(Standard)) {
		return Standard
	}
	return Simplified
}

// Evaluator returns the function implementing the rule.
func (s Scoring) Evaluator() Evaluator {
	if s == Standard {
		return EvaluateStandard
	}
	return Evaluate
}

// Evaluate applies the simplified rule. See the package comment.
func Evaluate(secret, guess words.Word) Result {
	var res Result
	for i := 0; i < words.Length; i++ {
		switch {
		case guess[i] == secret[i]:
			res[i] = Correct
		case strings.IndexByte(string(secret), guess[i]) >= 0:
			res[i] = Present
		default:
			res[i] = Absent
		}
	}
	return res
}

// EvaluateStandard implements the standard Wordle two-pass scoring.
//
// Pass 1:
//   - Mark exact matches as Correct.
//   - Count remaining (non-matched) secret letters.
//
// Pass 2:
//   - For each non-matched guess letter: if there is remaining count for that
//     letter, mark Present and decrement the count; otherwise Absent.
func EvaluateStandard(secret, guess words.Word) Result {
	var res Result
	var counts [26]int

	for i := 0; i < words.Length; i++ {
		if guess[i] == secret[i] {
			res[i] = Correct
		} else {
			counts[idx(secret[i])]++
		}
	}

	for i := 0; i < words.Length; i++ {
		if res[i] == Correct {
			continue
		}
		j := idx(guess[i])
		if counts[j] > 0 {
			res[i] = Present
			counts[j]--
		} else {
			res[i] = Absent
		}
	}
	return res
}

// IsWin reports whether every verdict is Correct.
func IsWin(r Result) bool {
	for _, v := range r {
		if v != Correct {
			return false
		}
	}
	return true
}

// idx maps an uppercase ASCII letter to 0..25.
func idx(c byte) int { return int(c - 'A') }
