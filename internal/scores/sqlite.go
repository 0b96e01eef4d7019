// apps/go-classic/internal/scores/sqlite.go
//
// SQLite-backed Store. Tables come from internal/db migrations:
//   - best_score:    at most one row (id = 1).
//   - score_history: one row per finished game.
//
// The sorted leaderboard file is still written so file-based viewers keep
// working when this backend is selected.

package scores

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"
)

// SQLStore keeps scores in sqlite.
type SQLStore struct {
	db         *sql.DB
	sortedPath string
}

// NewSQLStore wraps an opened, migrated database. sortedPath may be empty.
func NewSQLStore(db *sql.DB, sortedPath string) *SQLStore {
	return &SQLStore{db: db, sortedPath: sortedPath}
}

// LoadBest returns the stored best record, or Nobody.
func (s *SQLStore) LoadBest(ctx context.Context) Record {
	r, err := loadBestRow(ctx, s.db)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Warn().Err(err).Msg("load best score")
		}
		return Nobody
	}
	return r
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func loadBestRow(ctx context.Context, q queryRower) (Record, error) {
	var r Record
	err := q.QueryRowContext(ctx, `SELECT name, attempts FROM best_score WHERE id = 1`).
		Scan(&r.Name, &r.Attempts)
	return r, err
}

// SaveBest replaces the best record.
func (s *SQLStore) SaveBest(ctx context.Context, r Record) error {
	if _, err := s.db.ExecContext(ctx, upsertBest, CleanName(r.Name), r.Attempts); err != nil {
		return &IOError{Op: "save best", Path: "best_score", Err: err}
	}
	return nil
}

const upsertBest = `
	INSERT INTO best_score (id, name, attempts) VALUES (1, ?, ?)
	ON CONFLICT(id) DO UPDATE SET name = excluded.name, attempts = excluded.attempts`

// OfferBest compares and writes inside one transaction.
func (s *SQLStore) OfferBest(ctx context.Context, r Record) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, &IOError{Op: "offer best", Path: "best_score", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	current, err := loadBestRow(ctx, tx)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		current = Nobody
	case err != nil:
		return false, &IOError{Op: "offer best", Path: "best_score", Err: err}
	}
	if !IsNewBest(r, current) {
		return false, nil
	}
	if _, err := tx.ExecContext(ctx, upsertBest, CleanName(r.Name), r.Attempts); err != nil {
		return false, &IOError{Op: "offer best", Path: "best_score", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return false, &IOError{Op: "offer best", Path: "best_score", Err: err}
	}
	return true, nil
}

// AppendHistory inserts one history row.
func (s *SQLStore) AppendHistory(ctx context.Context, r Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO score_history (name, attempts, seconds) VALUES (?, ?, ?)`,
		CleanName(r.Name), r.Attempts, r.Seconds)
	if err != nil {
		return &IOError{Op: "append history", Path: "score_history", Err: err}
	}
	return nil
}

// LoadHistorySorted reads all rows in insertion order, sorts them with
// Compare and rewrites the sorted file.
func (s *SQLStore) LoadHistorySorted(ctx context.Context, mode SortMode) []Record {
	rows, err := s.db.QueryContext(ctx, `SELECT name, attempts, seconds FROM score_history ORDER BY id`)
	if err != nil {
		log.Warn().Err(err).Msg("query history")
		return []Record{}
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Name, &r.Attempts, &r.Seconds); err != nil {
			log.Warn().Err(err).Msg("scan history row")
			continue
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		log.Warn().Err(err).Msg("iterate history")
	}
	Sort(out, mode)

	if s.sortedPath != "" {
		if err := writeFileAtomic(s.sortedPath, formatHistory(out)); err != nil {
			log.Warn().Err(err).Str("path", s.sortedPath).Msg("write sorted history")
		}
	}
	return out
}
