package session

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrFull     = errors.New("too many open sessions")
)

type entry struct {
	s       *Session
	expires time.Time
}

type RegistryOption func(*Registry)

// WithTTL expires a session d after it was added. Zero keeps sessions until removed.
func WithTTL(d time.Duration) RegistryOption {
	return func(r *Registry) { r.ttl = d }
}

// WithMaxSessions caps open sessions; Add fails with ErrFull at the cap.
func WithMaxSessions(n int) RegistryOption {
	return func(r *Registry) { r.max = n }
}

func WithRegistryClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// Registry holds open sessions for a multi-learner host such as the preview
// server. Expired sessions are closed on access and by Sweep.
type Registry struct {
	ttl time.Duration
	max int
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]entry
}

func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{sessions: map[string]entry{}, now: time.Now}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Registry) Add(s *Session) error {
	r.Sweep()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.max > 0 && len(r.sessions) >= r.max {
		return ErrFull
	}
	e := entry{s: s}
	if r.ttl > 0 {
		e.expires = r.now().Add(r.ttl)
	}
	r.sessions[s.ID()] = e
	return nil
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	e, ok := r.sessions[id]
	if ok && r.expiredLocked(e) {
		delete(r.sessions, id)
		r.mu.Unlock()
		e.s.Close()
		return nil, ErrNotFound
	}
	r.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	return e.s, nil
}

// Remove closes and forgets the session.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	e.s.Close()
	return nil
}

// Sweep closes and forgets expired sessions and returns how many it removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	var stale []*Session
	for id, e := range r.sessions {
		if r.expiredLocked(e) {
			stale = append(stale, e.s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()
	for _, s := range stale {
		s.Close()
	}
	return len(stale)
}

// CloseAll terminates every open session; used at shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	all := r.sessions
	r.sessions = map[string]entry{}
	r.mu.Unlock()
	for _, e := range all {
		e.s.Close()
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) expiredLocked(e entry) bool {
	return !e.expires.IsZero() && !r.now().Before(e.expires)
}
