// Package session holds the per-browser state: who the user is, which store
// their history lives in, and what the page is currently showing.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"reelarchitect/internal/auth"
	"reelarchitect/internal/history"
	"reelarchitect/internal/presentation"
	"reelarchitect/models"
)

// ErrGenerationInFlight is returned when a session already has a generation running.
var ErrGenerationInFlight = errors.New("a generation is already in progress")

// StoreFactory opens the history store an identity reads and writes through.
type StoreFactory func(identity models.UserIdentity) (history.Store, error)

// Session is the explicit identity and store handle passed to everything
// that touches history. It replaces any process-wide auth or store client.
type Session struct {
	id        string
	appID     string
	lifecycle auth.Lifecycle
	copies    *presentation.CopyTracker

	mu          sync.Mutex
	store       history.Store
	loading     bool
	title       string
	description string
	result      *models.GenerationResult
	activeID    string
	err         error
	lastSeen    time.Time
	watchers    map[*history.Subscription]struct{}
}

func New(id, appID string, copies *presentation.CopyTracker) *Session {
	if copies == nil {
		copies = presentation.NewCopyTracker()
	}
	return &Session{
		id:       id,
		appID:    appID,
		copies:   copies,
		lastSeen: time.Now(),
		watchers: make(map[*history.Subscription]struct{}),
	}
}

func (s *Session) ID() string { return s.id }

// SignIn establishes the identity with provider and opens its store. It does
// nothing if the session is already signed in.
func (s *Session) SignIn(ctx context.Context, provider auth.Provider, open StoreFactory) (models.UserIdentity, error) {
	identity, err := s.lifecycle.SignIn(ctx, provider)
	if err != nil {
		return models.UserIdentity{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store != nil {
		return identity, nil
	}
	store, err := open(identity)
	if err != nil {
		s.lifecycle.SignOut()
		return models.UserIdentity{}, fmt.Errorf("open history store: %w", err)
	}
	s.store = store
	return identity, nil
}

func (s *Session) AuthState() auth.State { return s.lifecycle.State() }

// AuthError is the most recent sign-in failure.
func (s *Session) AuthError() error { return s.lifecycle.LastError() }

func (s *Session) Identity() (models.UserIdentity, error) { return s.lifecycle.Identity() }

// Handle returns the store and scope for the signed-in user, or
// auth.ErrAuthPending. A store whose credentials lapsed signs the session
// out, so the page signs in again instead of failing every request.
func (s *Session) Handle() (history.Store, history.Scope, error) {
	identity, err := s.lifecycle.Identity()
	if err != nil {
		return nil, history.Scope{}, err
	}
	s.mu.Lock()
	store := s.store
	s.mu.Unlock()
	if store == nil {
		return nil, history.Scope{}, auth.ErrAuthPending
	}
	if e, ok := store.(history.Expirer); ok && e.Expired() {
		s.SignOut()
		return nil, history.Scope{}, auth.ErrAuthPending
	}
	return store, history.Scope{AppID: s.appID, UserID: identity.UserID}, nil
}

// BeginGeneration marks req as the active request and the session as loading.
// The previous result and error are cleared. Exactly one generation may run.
func (s *Session) BeginGeneration(req models.GenerationRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return ErrGenerationInFlight
	}
	s.title = req.Title
	s.description = req.Description
	s.result = nil
	s.activeID = ""
	s.err = nil
	s.loading = true
	return nil
}

// FinishGeneration records the outcome of the running generation.
func (s *Session) FinishGeneration(result *models.GenerationResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.result = result
	s.err = err
}

// Fail records err without a generation having started, for example when
// the user is not signed in yet.
func (s *Session) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LoadEntry shows a saved entry. A generation in flight keeps running and
// will replace it when it finishes.
func (s *Session) LoadEntry(e models.HistoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := presentation.State{}.LoadEntry(e)
	s.title = st.Title
	s.description = st.Description
	s.result = st.Result
	s.activeID = st.ActiveID
	s.err = nil
}

// Reset clears the active view, as "Create Another Script" does.
func (s *Session) Reset() {
	s.mu.Lock()
	s.title, s.description = "", ""
	s.result = nil
	s.activeID = ""
	s.err = nil
	s.mu.Unlock()
	s.copies.Reset()
}

func (s *Session) Copies() *presentation.CopyTracker { return s.copies }

// ActiveID is the id of the history entry currently loaded, if any.
func (s *Session) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// State snapshots the session for rendering alongside the given history list.
func (s *Session) State(entries []models.HistoryEntry) presentation.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return presentation.State{
		Title:       s.title,
		Description: s.description,
		Result:      s.result,
		History:     entries,
		Loading:     s.loading,
		Err:         s.err,
		ActiveID:    s.activeID,
		Auth:        s.lifecycle.State().String(),
		Copied:      s.copies.Active(),
	}
}

// Watch opens a live history subscription for the signed-in user. It is
// closed when ctx ends or the session signs out.
func (s *Session) Watch(ctx context.Context, opts history.SubscribeOptions) (*history.Subscription, error) {
	store, scope, err := s.Handle()
	if err != nil {
		return nil, err
	}
	sub := history.Subscribe(ctx, store, scope, opts)

	s.mu.Lock()
	s.watchers[sub] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-sub.Done()
		s.mu.Lock()
		delete(s.watchers, sub)
		s.mu.Unlock()
	}()
	return sub, nil
}

// Watching reports whether a live subscription is open for this session.
func (s *Session) Watching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.watchers) > 0
}

// NotifyWatchers asks every open subscription to refresh now.
func (s *Session) NotifyWatchers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sub := range s.watchers {
		sub.Notify()
	}
}

// SignOut drops the identity and store and closes every subscription.
func (s *Session) SignOut() {
	s.mu.Lock()
	subs := make([]*history.Subscription, 0, len(s.watchers))
	for sub := range s.watchers {
		subs = append(subs, sub)
	}
	s.store = nil
	s.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
	s.lifecycle.SignOut()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}
