// apps/go-classic/internal/store/memory.go
//
// In-memory registry of live games for the HTTP front end.
//
// Characteristics:
//   - Stores a Game (controller + owner) keyed by game ID.
//   - Concurrency-safe via a mutex; every Get refreshes the entry's
//     last-used time.
//   - Prune drops games idle since a cutoff so a long-running server does not
//     grow without bound. Finished scores are already persisted by the
//     controller, so nothing is lost but the board.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/wordle/apps/go-classic/internal/controller"
)

// ErrNotFound is returned by Get for unknown IDs.
var ErrNotFound = errors.New("not found")

// Game is a registered controller and the player allowed to drive it.
type Game struct {
	*controller.Controller
	Owner string // "user:<id>" or "guest:<id>"
}

// Store defines the registry interface for live games.
type Store interface {
	// Save registers g under id, replacing any previous entry.
	Save(ctx context.Context, id string, g Game) error

	// Get retrieves a game by ID and marks it used.
	Get(ctx context.Context, id string) (Game, error)

	// Delete forgets id. Unknown IDs are ignored.
	Delete(ctx context.Context, id string) error

	// Prune forgets games not used since cutoff and reports how many.
	Prune(ctx context.Context, cutoff time.Time) int
}

type entry struct {
	game    Game
	touched time.Time
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu    sync.Mutex
	games map[string]*entry
	now   func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{games: make(map[string]*entry), now: time.Now}
}

func (m *memory) Save(ctx context.Context, id string, g Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[id] = &entry{game: g, touched: m.now()}
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.games[id]
	if !ok {
		return Game{}, ErrNotFound
	}
	e.touched = m.now()
	return e.game, nil
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, id)
	return nil
}

func (m *memory) Prune(ctx context.Context, cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.games {
		if e.touched.Before(cutoff) {
			delete(m.games, id)
			n++
		}
	}
	return n
}
