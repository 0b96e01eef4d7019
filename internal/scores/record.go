// apps/go-classic/internal/scores/record.go
//
// Score records and their on-disk line formats.
//
// Formats:
//   - best file:    "name:attempts"
//   - history file: "name/attempts/seconds" (one record per line, no header)
//
// Names are cleaned on the way in so they can never contain a separator.

package scores

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Record is one finished game. Immutable once created.
type Record struct {
	Name     string `json:"name"`
	Attempts int    `json:"attempts"`
	Seconds  int    `json:"seconds"`
}

// DefaultName is used when a player gives no name.
const DefaultName = "Anonymous"

// Nobody is the best record reported when none has been saved yet.
var Nobody = Record{Name: "Nobody", Attempts: 7}

// NewRecord builds a record with a cleaned player name.
func NewRecord(name string, attempts, seconds int) Record {
	return Record{Name: CleanName(name), Attempts: attempts, Seconds: seconds}
}

// CleanName trims name, replaces separator and control characters, and
// substitutes DefaultName for an empty result.
func CleanName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == ':':
			return '-'
		case r < ' ' || r == 0x7f:
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultName
	}
	return name
}

// IsNewBest reports whether candidate beats current. Only attempts count;
// time breaks ties on the leaderboard, not for the best record.
func IsNewBest(candidate, current Record) bool {
	return candidate.Attempts < current.Attempts
}

// FormatBest renders the best-file line.
func FormatBest(r Record) string {
	return fmt.Sprintf("%s:%d", CleanName(r.Name), r.Attempts)
}

// ParseBest parses a best-file line.
func ParseBest(line string) (Record, error) {
	line = strings.TrimSpace(line)
	i := strings.LastIndexByte(line, ':')
	if i < 0 {
		return Record{}, fmt.Errorf("best score %q: missing ':'", line)
	}
	n, err := strconv.Atoi(strings.TrimSpace(line[i+1:]))
	if err != nil {
		return Record{}, fmt.Errorf("best score %q: %w", line, err)
	}
	return Record{Name: CleanName(line[:i]), Attempts: n}, nil
}

// FormatRecord renders a history line.
func FormatRecord(r Record) string {
	return fmt.Sprintf("%s/%d/%d", CleanName(r.Name), r.Attempts, r.Seconds)
}

// ParseRecord parses a history line.
func ParseRecord(line string) (Record, error) {
	parts := strings.Split(strings.TrimSpace(line), "/")
	if len(parts) != 3 {
		return Record{}, fmt.Errorf("history line %q: want name/attempts/seconds", line)
	}
	attempts, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Record{}, fmt.Errorf("history line %q: attempts: %w", line, err)
	}
	secs, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return Record{}, fmt.Errorf("history line %q: seconds: %w", line, err)
	}
	return Record{Name: CleanName(parts[0]), Attempts: attempts, Seconds: secs}, nil
}

// SortMode selects the leaderboard ordering.
type SortMode string

const (
	// ByAttempts orders by fewest attempts, then fastest time.
	ByAttempts SortMode = "tries"
	// ByName orders alphabetically, then by ByAttempts.
	ByName SortMode = "name"
	// BySeconds orders by fastest time, then fewest attempts.
	BySeconds SortMode = "time"
)

// ParseSortMode maps user input to a SortMode; unknown values are ByAttempts.
func ParseSortMode(s string) SortMode {
	switch SortMode(strings.ToLower(strings.TrimSpace(s))) {
	case ByName:
		return ByName
	case BySeconds, "seconds":
		return BySeconds
	default:
		return ByAttempts
	}
}

// Compare orders a and b under mode: negative if a sorts first.
func Compare(a, b Record, mode SortMode) int {
	switch mode {
	case ByName:
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return Compare(a, b, ByAttempts)
	case BySeconds:
		if c := a.Seconds - b.Seconds; c != 0 {
			return c
		}
		return a.Attempts - b.Attempts
	default:
		if c := a.Attempts - b.Attempts; c != 0 {
			return c
		}
		return a.Seconds - b.Seconds
	}
}

// Sort orders recs in place under mode. Equal records keep their order.
func Sort(recs []Record, mode SortMode) {
	sort.SliceStable(recs, func(i, j int) bool {
		return Compare(recs[i], recs[j], mode) < 0
	})
}
