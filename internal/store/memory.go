// apps/go-server/internal/store/memory.go
//
// In-memory registry of live play sessions.
//
// Characteristics:
//   - Stores *play.Runner values keyed by session ID.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Delete stops the runner, so its tick source is gone once Delete returns.
//   - State is lost when the process restarts; nothing crosses sessions.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/wordbomb/apps/go-server/internal/play"
)

// ErrNotFound is returned for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// Store defines the registry interface for live sessions.
type Store interface {
	// Save adds or replaces a runner under its session ID.
	Save(ctx context.Context, r *play.Runner) error

	// Get retrieves a runner by session ID.
	Get(ctx context.Context, id string) (*play.Runner, error)

	// Delete stops and removes a runner. Unknown IDs return ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Len reports how many sessions are registered.
	Len() int

	// Close stops every runner.
	Close()
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu      sync.RWMutex
	runners map[string]*play.Runner
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{runners: make(map[string]*play.Runner)}
}

func (m *memory) Save(ctx context.Context, r *play.Runner) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.runners[r.ID()]; ok && old != r {
		old.Stop()
	}
	m.runners[r.ID()] = r
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*play.Runner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.runners[id]; ok {
		return r, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	r, ok := m.runners[id]
	delete(m.runners, id)
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	r.Stop()
	return nil
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.runners)
}

func (m *memory) Close() {
	m.mu.Lock()
	runners := m.runners
	m.runners = make(map[string]*play.Runner)
	m.mu.Unlock()
	for _, r := range runners {
		r.Stop()
	}
}
