package session

import (
	"sync"
	"time"

	"reelarchitect/internal/presentation"
)

// Registry maps browser session ids to their Session.
type Registry struct {
	appID string
	now   func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(appID string) *Registry {
	return &Registry{appID: appID, now: time.Now, sessions: make(map[string]*Session)}
}

// GetOrCreate returns the session for id, creating it on first use.
func (r *Registry) GetOrCreate(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		s = New(id, r.appID, presentation.NewCopyTracker())
		r.sessions[id] = s
	}
	s.touch(r.now())
	return s
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Remove signs the session out and forgets it.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		s.SignOut()
	}
}

// Sweep removes sessions idle for longer than idle and returns how many went.
// Sessions with a generation in flight or an open history stream are kept.
func (r *Registry) Sweep(idle time.Duration) int {
	now := r.now()
	var stale []*Session

	r.mu.Lock()
	for id, s := range r.sessions {
		if s.idleSince(now) > idle && !s.Loading() && !s.Watching() {
			stale = append(stale, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		s.SignOut()
	}
	return len(stale)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close signs out every session.
func (r *Registry) Close() {
	r.mu.Lock()
	all := make([]*Session, 0, len(r.sessions))
	for id, s := range r.sessions {
		all = append(all, s)
		delete(r.sessions, id)
	}
	r.mu.Unlock()
	for _, s := range all {
		s.SignOut()
	}
}
