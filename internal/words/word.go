// apps/go-classic/internal/words/word.go
//
// Word is the unit the whole game works in: exactly five uppercase ASCII
// letters. Every path that turns player or file input into a Word goes
// through Parse so the invariant holds everywhere else.

package words

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Length is the number of letters in every word.
const Length = 5

// Word is an immutable 5-letter uppercase word.
type Word string

// ValidationError reports input that is not a usable Word.
// Front ends show Reason to the player; it never ends a session.
type ValidationError struct {
	Input  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid word %q: %s", e.Input, e.Reason)
}

// Parse trims s, checks it is exactly five ASCII letters and uppercases it.
// The letter check runs first: strings.ToUpper folds some non-ASCII runes
// (ſ, ı) into A–Z.
func Parse(s string) (Word, error) {
	w := strings.TrimSpace(s)
	switch n := utf8.RuneCountInString(w); {
	case n < Length:
		return "", &ValidationError{Input: s, Reason: fmt.Sprintf("need %d letters", Length)}
	case n > Length:
		return "", &ValidationError{Input: s, Reason: fmt.Sprintf("only %d letters allowed", Length)}
	case !isASCIIAlpha(w):
		return "", &ValidationError{Input: s, Reason: "letters only"}
	}
	return Word(strings.ToUpper(w)), nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) Word {
	w, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return w
}

// String returns the word as a plain string.
func (w Word) String() string { return string(w) }

// isASCIIAlpha reports whether s is all ASCII letters, either case.
func isASCIIAlpha(s string) bool {
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}
