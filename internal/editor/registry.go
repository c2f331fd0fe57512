package editor

import (
	"context"
	"sync"
	"time"

	"cv-editor/internal/cloud"
	"cv-editor/internal/localstate"
	"cv-editor/internal/shared/telemetry"
)

// Registry keeps one session per identity, opened on first use and closed
// once it has been idle too long.
type Registry struct {
	state localstate.State
	cloud *cloud.Service
	now   func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry

	stopOnce sync.Once
	stop     chan struct{}
}

type entry struct {
	session  *Session
	lastUsed time.Time
}

// NewRegistry builds a registry over state. remote may be nil when no
// object store is configured.
func NewRegistry(state localstate.State, remote *cloud.Service) *Registry {
	return &Registry{
		state:    state,
		cloud:    remote,
		now:      time.Now,
		sessions: make(map[string]*entry),
		stop:     make(chan struct{}),
	}
}

// Session returns the session of identity, opening its store if needed.
func (r *Registry) Session(ctx context.Context, identity string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.sessions[identity]; ok {
		e.lastUsed = r.now()
		return e.session, nil
	}
	store, err := Open(ctx, r.state, identity)
	if err != nil {
		return nil, err
	}
	s := NewSession(identity, store, r.cloud)
	r.sessions[identity] = &entry{session: s, lastUsed: r.now()}
	telemetry.Info("session.opened", map[string]any{"identity": identity, "remote": r.cloud != nil})
	return s, nil
}

// Drop closes and forgets the session of identity.
func (r *Registry) Drop(identity string) {
	r.mu.Lock()
	e, ok := r.sessions[identity]
	delete(r.sessions, identity)
	r.mu.Unlock()
	if ok {
		e.session.Close()
	}
}

// Evict drops every session unused for longer than idle and returns how
// many were dropped. The next request of an evicted identity reopens its
// document from local state.
func (r *Registry) Evict(idle time.Duration) int {
	cutoff := r.now().Add(-idle)
	r.mu.Lock()
	var stale []string
	for identity, e := range r.sessions {
		if e.lastUsed.Before(cutoff) {
			stale = append(stale, identity)
		}
	}
	r.mu.Unlock()

	for _, identity := range stale {
		r.Drop(identity)
		telemetry.Info("session.evicted", map[string]any{"identity": identity})
	}
	return len(stale)
}

// RunEviction evicts idle sessions every interval until ctx is done or the
// registry is closed.
func (r *Registry) RunEviction(ctx context.Context, idle, every time.Duration) {
	if idle <= 0 {
		return
	}
	if every <= 0 {
		every = idle
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stop:
			return
		case <-ticker.C:
			r.Evict(idle)
		}
	}
}

// Len reports how many sessions are open.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close stops eviction and closes every session.
func (r *Registry) Close() {
	r.stopOnce.Do(func() { close(r.stop) })
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*entry)
	r.mu.Unlock()
	for _, e := range sessions {
		e.session.Close()
	}
}

func (r *Registry) Remote() bool { return r.cloud != nil }
