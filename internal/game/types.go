// apps/go-classic/internal/game/types.go
//
// Core type definitions for the game engine.
// Defines:
//   - Verdict: per-letter result of a guess (correct/present/absent).
//   - Result: the five verdicts of one guess.
//   - Outcome: where a session stands (in progress/won/lost).

package game

import (
	"encoding/json"
	"strings"

	"github.com/robalobadob/wordle/apps/go-classic/internal/words"
)

// Verdict represents the evaluation result for a single letter in a guess.
//   - Correct: letter is in the secret at this position.
//   - Present: letter is in the secret at another position.
//   - Absent:  letter is not in the secret.
type Verdict uint8

const (
	Absent Verdict = iota
	Present
	Correct
)

func (v Verdict) String() string {
	switch v {
	case Correct:
		return "correct"
	case Present:
		return "present"
	default:
		return "absent"
	}
}

// MarshalText lets JSON encoders emit verdicts by name.
func (v Verdict) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// Result is the ordered verdicts for one guess. Derived, never persisted.
type Result [words.Length]Verdict

// MarshalJSON encodes a Result as a list of verdict names.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r[:])
}

// String renders the verdicts comma-separated, e.g. "correct,absent,...".
func (r Result) String() string {
	parts := make([]string, len(r))
	for i, v := range r {
		parts[i] = v.String()
	}
	return strings.Join(parts, ",")
}

// Outcome is the coarse state of a session.
type Outcome uint8

const (
	InProgress Outcome = iota
	Won
	Lost
)

func (o Outcome) String() string {
	switch o {
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "playing"
	}
}

// MarshalText lets JSON encoders emit outcomes by name.
func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Terminal reports whether no further guesses are accepted.
func (o Outcome) Terminal() bool { return o != InProgress }
