// apps/go-classic/internal/scores/file.go
//
// Flat-file Store.
//
// Files:
//   - best:    a single "name:attempts" line, replaced atomically.
//   - history: "name/attempts/seconds" lines, appended.
//   - sorted:  the history in leaderboard order, rewritten on every
//     LoadHistorySorted; read by external leaderboard viewers.
//
// A mutex serialises every load/modify/save cycle within the process, and an
// advisory file lock (<file>.lock, via gofrs/flock) does the same across
// processes sharing the directory: exclusive for writers and OfferBest's
// read-compare-write, shared for readers. Whole-file writes still go through
// temp file + rename.

package scores

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// Default file names, matching the classic game's layout.
const (
	DefaultBestFile    = "HighScore.dat"
	DefaultHistoryFile = "Score.txt"
	DefaultSortedFile  = "SortedScore.txt"
)

// FileStore keeps scores in three flat files.
type FileStore struct {
	mu          sync.Mutex
	bestPath    string
	historyPath string
	sortedPath  string
}

// NewFileStore returns a store over the given paths. Files are created on
// first write.
func NewFileStore(bestPath, historyPath, sortedPath string) *FileStore {
	return &FileStore{bestPath: bestPath, historyPath: historyPath, sortedPath: sortedPath}
}

// NewFileStoreIn places the default file names under dir.
func NewFileStoreIn(dir string) *FileStore {
	return NewFileStore(
		filepath.Join(dir, DefaultBestFile),
		filepath.Join(dir, DefaultHistoryFile),
		filepath.Join(dir, DefaultSortedFile),
	)
}

// lockRetry is how often a blocked lock attempt is retried.
const lockRetry = 5 * time.Millisecond

// lockFile takes the cross-process lock guarding path and returns its
// release func. Waiting stops when ctx is done.
func lockFile(ctx context.Context, path string, shared bool) (func(), error) {
	fl := flock.New(path + ".lock")
	try := fl.TryLockContext
	if shared {
		try = fl.TryRLockContext
	} else if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	ok, err := try(ctx, lockRetry)
	if err == nil && !ok {
		err = ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	return func() {
		if err := fl.Unlock(); err != nil {
			log.Warn().Err(err).Str("path", fl.Path()).Msg("release score lock")
		}
	}, nil
}

// readLock takes a shared lock for a reader. Readers carry on without it when
// it cannot be had; a missing directory means there is nothing to read yet.
func readLock(ctx context.Context, path string) func() {
	unlock, err := lockFile(ctx, path, true)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", path).Msg("shared score lock")
		}
		return func() {}
	}
	return unlock
}

// LoadBest reads the best file; missing or corrupt → Nobody.
func (s *FileStore) LoadBest(ctx context.Context) Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer readLock(ctx, s.bestPath)()
	return s.loadBestLocked()
}

func (s *FileStore) loadBestLocked() Record {
	lines, err := readLines(s.bestPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", s.bestPath).Msg("read best score")
		}
		return Nobody
	}
	if len(lines) == 0 {
		return Nobody
	}
	r, err := ParseBest(lines[0])
	if err != nil {
		log.Warn().Err(err).Str("path", s.bestPath).Msg("corrupt best score")
		return Nobody
	}
	return r
}

// SaveBest overwrites the best file.
func (s *FileStore) SaveBest(ctx context.Context, r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	unlock, err := lockFile(ctx, s.bestPath, false)
	if err != nil {
		return &IOError{Op: "save best", Path: s.bestPath, Err: err}
	}
	defer unlock()
	return s.saveBestLocked(r)
}

func (s *FileStore) saveBestLocked(r Record) error {
	if err := writeFileAtomic(s.bestPath, []byte(FormatBest(r)+"\n")); err != nil {
		return &IOError{Op: "save best", Path: s.bestPath, Err: err}
	}
	return nil
}

// OfferBest saves r if it beats the best on disk at the time of the call.
// The compare and the write happen under one exclusive lock, so concurrent
// offers from several processes never lose the better record.
func (s *FileStore) OfferBest(ctx context.Context, r Record) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	unlock, err := lockFile(ctx, s.bestPath, false)
	if err != nil {
		return false, &IOError{Op: "offer best", Path: s.bestPath, Err: err}
	}
	defer unlock()
	if !IsNewBest(r, s.loadBestLocked()) {
		return false, nil
	}
	if err := s.saveBestLocked(r); err != nil {
		return false, err
	}
	return true, nil
}

// AppendHistory appends one line to the history file.
func (s *FileStore) AppendHistory(ctx context.Context, r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := lockFile(ctx, s.historyPath, false)
	if err != nil {
		return &IOError{Op: "append history", Path: s.historyPath, Err: err}
	}
	defer unlock()
	f, err := os.OpenFile(s.historyPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &IOError{Op: "append history", Path: s.historyPath, Err: err}
	}
	_, werr := f.WriteString(FormatRecord(r) + "\n")
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		return &IOError{Op: "append history", Path: s.historyPath, Err: err}
	}
	return nil
}

// LoadHistorySorted reads the history, sorts it, and rewrites the sorted
// file. Unparseable lines are skipped.
func (s *FileStore) LoadHistorySorted(ctx context.Context, mode SortMode) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer readLock(ctx, s.historyPath)()

	lines, err := readLines(s.historyPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", s.historyPath).Msg("read history")
		}
		return []Record{}
	}
	recs := lo.FilterMap(lines, func(line string, i int) (Record, bool) {
		r, err := ParseRecord(line)
		if err != nil {
			log.Warn().Err(err).Str("path", s.historyPath).Int("line", i+1).Msg("skipping history line")
			return Record{}, false
		}
		return r, true
	})
	Sort(recs, mode)

	if s.sortedPath != "" {
		if err := writeFileAtomic(s.sortedPath, formatHistory(recs)); err != nil {
			log.Warn().Err(err).Str("path", s.sortedPath).Msg("write sorted history")
		}
	}
	return recs
}
