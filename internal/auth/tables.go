package auth

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	postgrest "github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"

	"reelarchitect/models"
)

const (
	// RefreshSkew is how long before expiry an access token is renewed.
	RefreshSkew    = time.Minute
	refreshTimeout = 15 * time.Second
)

// UserTables gives one signed-in user table access through Supabase and keeps
// their access token fresh. Every From call checks the expiry first, so a
// long-lived reader such as a history subscription never runs on a lapsed token.
type UserTables struct {
	url       string
	anonKey   string
	refresher Refresher
	log       *logrus.Logger
	now       func() time.Time

	mu       sync.Mutex
	identity models.UserIdentity
	client   *supa.Client
}

// NewUserTables builds the client for identity. refresher may be nil, in
// which case the token is used until it expires.
func NewUserTables(url, anonKey string, identity models.UserIdentity, refresher Refresher, log *logrus.Logger) (*UserTables, error) {
	client, err := UserClient(url, anonKey, identity)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.New()
	}
	return &UserTables{
		url:       url,
		anonKey:   anonKey,
		refresher: refresher,
		log:       log,
		now:       time.Now,
		identity:  identity,
		client:    client,
	}, nil
}

// From starts a query on table as the user.
func (u *UserTables) From(table string) *postgrest.QueryBuilder {
	return u.current().From(table)
}

// Identity is the identity the client currently acts as.
func (u *UserTables) Identity() models.UserIdentity {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.identity
}

// Expired reports whether the access token has lapsed and could not be
// refreshed. The user has to sign in again.
func (u *UserTables) Expired() bool {
	u.current()
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.identity.ExpiresWithin(0, u.now())
}

func (u *UserTables) current() *supa.Client {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.refresher == nil || !u.identity.ExpiresWithin(RefreshSkew, u.now()) {
		return u.client
	}

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	log := u.log.WithField("user_id", u.identity.UserID)

	refreshed, err := u.refresher.Refresh(ctx, u.identity)
	if err != nil {
		log.WithError(err).WithField("expires_at", u.identity.ExpiresAt).Warn("Could not refresh access token")
		return u.client
	}
	client, err := UserClient(u.url, u.anonKey, refreshed)
	if err != nil {
		log.WithError(err).Warn("Could not rebuild Supabase client after refresh")
		return u.client
	}
	u.identity = refreshed
	u.client = client
	log.WithField("expires_at", refreshed.ExpiresAt).Debug("Access token refreshed")
	return u.client
}
