package api

import (
	"errors"
	"sort"
	"sync"

	"github.com/abhisek/tutorloop/internal/gateway"
)

// ErrTooManySessions is returned when the registry is full.
var ErrTooManySessions = errors.New("too many sessions")

// Registry holds the live sessions of the server, one gateway each.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*gateway.Gateway
	max      int
}

// NewRegistry creates a registry that holds at most max sessions.
func NewRegistry(max int) *Registry {
	return &Registry{sessions: make(map[string]*gateway.Gateway), max: max}
}

// Add registers g under its id.
func (r *Registry) Add(g *gateway.Gateway) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[g.ID()]; !ok && len(r.sessions) >= r.max {
		return ErrTooManySessions
	}
	r.sessions[g.ID()] = g
	return nil
}

// Get returns the session with the given id.
func (r *Registry) Get(id string) (*gateway.Gateway, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.sessions[id]
	return g, ok
}

// Remove drops a session. It reports whether the session existed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	return ok
}

// Len returns the number of sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Snapshots returns a snapshot of every session, ordered by id.
func (r *Registry) Snapshots() []gateway.Snapshot {
	r.mu.RLock()
	out := make([]gateway.Snapshot, 0, len(r.sessions))
	for _, g := range r.sessions {
		out = append(out, g.Snapshot())
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].SessionID < out[j].SessionID })
	return out
}
