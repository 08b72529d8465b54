// Package session keeps one application state per client session.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"forkify/internal/app"
	"forkify/internal/metrics"
)

// Factory builds the state for a new session id.
type Factory func(ctx context.Context, id string) *app.State

// Manager is an in-memory LRU of session states with time-based expiration.
// An evicted session loses its shopping list; its likes stay in the store.
type Manager struct {
	mu      sync.Mutex
	lru     *expirable.LRU[string, *app.State]
	factory Factory
}

// NewManager creates a manager holding at most size sessions for ttl each.
func NewManager(size int, ttl time.Duration, factory Factory) *Manager {
	onEvict := func(string, *app.State) { metrics.SessionsActive.Dec() }
	return &Manager{
		lru:     expirable.NewLRU[string, *app.State](size, onEvict, ttl),
		factory: factory,
	}
}

// Get returns the state for id, creating it on first use. Expiry counts from
// creation, not from last access. The factory runs outside the lock; when two
// first requests for one id race, the state added first wins.
func (m *Manager) Get(ctx context.Context, id string) *app.State {
	if st, ok := m.lru.Get(id); ok {
		return st
	}

	st := m.factory(ctx, id)

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.lru.Get(id); ok {
		return existing
	}
	m.lru.Add(id, st)
	metrics.SessionsActive.Inc()
	return st
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	return m.lru.Len()
}

// Remove drops a session.
func (m *Manager) Remove(id string) {
	m.lru.Remove(id)
}
