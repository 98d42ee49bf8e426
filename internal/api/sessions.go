package api

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kenroads/ntsabuddy/internal/study"
)

// entry is one live session. mu guards session and seen; it is never held
// across a provider call.
type entry struct {
	id      string
	mu      sync.Mutex
	session *study.Session
	seen    time.Time
}

// Registry keeps sessions in memory and expires idle ones.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	now      func() time.Time
}

// NewRegistry creates an empty registry. A ttl of zero disables expiry.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// create starts a new session.
func (r *Registry) create() *entry {
	e := &entry{
		id:      uuid.NewString(),
		session: study.New(),
		seen:    r.now(),
	}
	r.mu.Lock()
	r.sessions[e.id] = e
	r.mu.Unlock()
	return e
}

// get returns the session and marks it as used.
func (r *Registry) get(id string) (*entry, bool) {
	r.mu.Lock()
	e, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return nil, false
	}
	e.mu.Lock()
	e.seen = r.now()
	e.mu.Unlock()
	return e, true
}

// Delete removes a session. It reports whether it existed.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	return ok
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed.
func (r *Registry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, e := range r.sessions {
		e.mu.Lock()
		idle := e.seen.Before(cutoff)
		e.mu.Unlock()
		if idle {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// RunJanitor sweeps every interval until ctx is done.
func (r *Registry) RunJanitor(ctx context.Context, interval time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				log.Info("expired idle sessions", zap.Int("count", n), zap.Int("live", r.Len()))
			}
		}
	}
}
