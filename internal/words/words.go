// apps/go-classic/internal/words/words.go
//
// Word bank: loading candidate words and picking the secret for a session.
//
// Responsibilities:
//   - Load a newline-delimited list from a file, a reader or the embedded default.
//   - Normalize entries (trim, uppercase) and keep only valid 5-letter words.
//   - Pick one word uniformly at random, or deterministically for a date.
//
// Loading rules:
//   • Blank lines and lines starting with '#' are skipped.
//   • Entries that are not 5 letters A–Z are dropped (logged at debug).
//   • Duplicates are removed, first occurrence wins.
//   • An unreadable source or an empty result is a *LoadError.

package words

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/robalobadob/wordle/apps/go-classic/assets"
)

// ErrEmptyBank is returned when picking from an empty word list.
var ErrEmptyBank = errors.New("words: word bank is empty")

// LoadError reports a word list that could not be read or held no words.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("words: load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// errNoWords is wrapped by LoadError when a source yields nothing usable.
var errNoWords = errors.New("no valid words")

// Load reads one word per line from r.
func Load(r io.Reader) ([]Word, error) {
	return load("reader", r)
}

// LoadFile reads a word list from path.
func LoadFile(path string) ([]Word, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	defer f.Close()
	return load(path, f)
}

// LoadDefault reads the word list embedded in the binary.
func LoadDefault() ([]Word, error) {
	rc, err := assets.Words()
	if err != nil {
		return nil, &LoadError{Source: "embedded", Err: err}
	}
	defer rc.Close()
	return load("embedded", rc)
}

func load(source string, r io.Reader) ([]Word, error) {
	var out []Word
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		w, err := Parse(line)
		if err != nil {
			log.Debug().Str("source", source).Str("entry", line).Msg("skipping word list entry")
			continue
		}
		out = append(out, w)
	}
	if err := sc.Err(); err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}
	out = lo.Uniq(out)
	if len(out) == 0 {
		return nil, &LoadError{Source: source, Err: errNoWords}
	}
	return out, nil
}

// PickRandom returns a uniformly random word from list.
func PickRandom(list []Word) (Word, error) {
	if len(list) == 0 {
		return "", ErrEmptyBank
	}
	return list[frand.Intn(len(list))], nil
}

// PickMode selects how a Bank chooses the secret word.
type PickMode string

const (
	PickRandomMode PickMode = "random"
	PickDailyMode  PickMode = "daily"
)

// ParsePickMode maps a config value to a PickMode; unknown values are random.
func ParsePickMode(s string) PickMode {
	if strings.EqualFold(strings.TrimSpace(s), string(PickDailyMode)) {
		return PickDailyMode
	}
	return PickRandomMode
}

// Bank is a loaded word list plus an optional wider set of accepted guesses.
type Bank struct {
	answers []Word
	allowed map[Word]struct{} // answers ∪ extra allowed guesses
	mode    PickMode
	salt    string
}

// NewBank builds a bank over answers. extraAllowed widens the set of words
// Contains accepts without making them possible answers.
func NewBank(answers []Word, extraAllowed []Word, mode PickMode, salt string) *Bank {
	b := &Bank{
		answers: answers,
		allowed: make(map[Word]struct{}, len(answers)+len(extraAllowed)),
		mode:    mode,
		salt:    salt,
	}
	for _, w := range answers {
		b.allowed[w] = struct{}{}
	}
	for _, w := range extraAllowed {
		b.allowed[w] = struct{}{}
	}
	return b
}

// Pick chooses the secret word for a session starting at now.
func (b *Bank) Pick(now time.Time) (Word, error) {
	if b.mode == PickDailyMode {
		return PickForDate(b.answers, now, b.salt)
	}
	return PickRandom(b.answers)
}

// Daily reports whether the bank picks one word per day.
func (b *Bank) Daily() bool { return b.mode == PickDailyMode }

// PickPractice chooses a random answer other than the one Pick returns for
// now, so a replay of the day's game never repeats its secret. With a single
// answer there is nothing else to pick.
func (b *Bank) PickPractice(now time.Time) (Word, error) {
	if !b.Daily() {
		return PickRandom(b.answers)
	}
	today, err := b.Pick(now)
	if err != nil {
		return "", err
	}
	if rest := lo.Without(b.answers, today); len(rest) > 0 {
		return PickRandom(rest)
	}
	return today, nil
}

// Contains reports whether w is an accepted guess.
func (b *Bank) Contains(w Word) bool {
	_, ok := b.allowed[w]
	return ok
}

// Stats returns counts of loaded words: (answers, allowed).
func (b *Bank) Stats() (answersCount int, allowedCount int) {
	return len(b.answers), len(b.allowed)
}
