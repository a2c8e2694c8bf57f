package auth

import (
	"context"
	"errors"
	"sync"

	"reelarchitect/models"
)

// ErrSignInInProgress is returned when a second sign-in starts before the first finished.
var ErrSignInInProgress = errors.New("sign-in already in progress")

// State is where a Lifecycle currently sits.
type State int

const (
	Unauthenticated State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Lifecycle tracks a single session's identity. A failed sign-in drops back
// to Unauthenticated and keeps the error; nothing retries automatically.
type Lifecycle struct {
	mu       sync.RWMutex
	state    State
	identity models.UserIdentity
	lastErr  error
}

// SignIn runs provider once. On success the identity becomes available to
// Identity; on failure the error is recorded and returned.
func (l *Lifecycle) SignIn(ctx context.Context, provider Provider) (models.UserIdentity, error) {
	l.mu.Lock()
	switch l.state {
	case Authenticating:
		l.mu.Unlock()
		return models.UserIdentity{}, ErrSignInInProgress
	case Authenticated:
		id := l.identity
		l.mu.Unlock()
		return id, nil
	}
	l.state = Authenticating
	l.lastErr = nil
	l.mu.Unlock()

	id, err := provider.SignInAnonymously(ctx)
	if err == nil && id.IsZero() {
		err = ErrAnonymousDisabled
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.state = Unauthenticated
		l.lastErr = err
		return models.UserIdentity{}, err
	}
	l.state = Authenticated
	l.identity = id
	return id, nil
}

// Identity returns the established identity or ErrAuthPending.
func (l *Lifecycle) Identity() (models.UserIdentity, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.state != Authenticated {
		return models.UserIdentity{}, ErrAuthPending
	}
	return l.identity, nil
}

func (l *Lifecycle) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// LastError is the error of the most recent failed sign-in, if any.
func (l *Lifecycle) LastError() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastErr
}

// SignOut forgets the identity.
func (l *Lifecycle) SignOut() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = Unauthenticated
	l.identity = models.UserIdentity{}
	l.lastErr = nil
}
