// apps/go-classic/internal/scores/store.go
//
// Store is the persistence interface for best records and history.
// Implementations live in this package: FileStore (flat files, the default)
// and SQLStore (sqlite).
//
// Failure semantics, shared by all implementations:
//   - Loads never fail: missing or corrupt data degrades to Nobody / an empty
//     list and is logged.
//   - Saves return an *IOError; callers log it and keep the game running.

package scores

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store persists and retrieves score records.
type Store interface {
	// LoadBest returns the saved best record, or Nobody.
	LoadBest(ctx context.Context) Record

	// SaveBest overwrites the best record.
	SaveBest(ctx context.Context, r Record) error

	// OfferBest saves r only if it still beats the stored best, checked and
	// written under one lock. Reports whether r was saved.
	OfferBest(ctx context.Context, r Record) (bool, error)

	// AppendHistory adds r to the history.
	AppendHistory(ctx context.Context, r Record) error

	// LoadHistorySorted returns every history record ordered by mode and
	// rewrites the derived sorted-history file.
	LoadHistorySorted(ctx context.Context, mode SortMode) []Record
}

// IOError reports a failed score file or table operation.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("scores: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// writeFileAtomic replaces path with data via a temp file in the same
// directory and a rename, so readers never see a half-written file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Chmod(name, 0o644); err != nil {
		os.Remove(name)
		return err
	}
	return os.Rename(name, path)
}

// formatHistory renders recs in the history line format.
func formatHistory(recs []Record) []byte {
	var b strings.Builder
	for _, r := range recs {
		b.WriteString(FormatRecord(r))
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// readLines returns the non-blank lines of path.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if s := strings.TrimSpace(sc.Text()); s != "" {
			out = append(out, s)
		}
	}
	return out, sc.Err()
}
