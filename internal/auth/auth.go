// Package auth establishes the anonymous identity a browser session works under.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go/types"
	supa "github.com/supabase-community/supabase-go"

	"reelarchitect/models"
)

// ErrAuthPending is returned while no identity has been established, either
// because sign-in is still running or because it failed.
var ErrAuthPending = errors.New("waiting for authentication")

// ErrAnonymousDisabled is returned when the auth server answers a sign-up
// without a session, which is what GoTrue does with anonymous sign-ins turned off.
var ErrAnonymousDisabled = errors.New("anonymous sign-in returned no session")

// ErrNoRefreshToken is returned when an identity cannot be refreshed.
var ErrNoRefreshToken = errors.New("identity has no refresh token")

// Provider hands out anonymous identities. No credential flow exists.
type Provider interface {
	SignInAnonymously(ctx context.Context) (models.UserIdentity, error)
}

// Refresher renews an identity's access token before it expires.
type Refresher interface {
	Refresh(ctx context.Context, identity models.UserIdentity) (models.UserIdentity, error)
}

// SupabaseProvider signs in anonymously against Supabase Auth (GoTrue).
type SupabaseProvider struct {
	url     string
	anonKey string
	timeout time.Duration
}

// NewSupabaseProvider creates a provider for the project at url.
func NewSupabaseProvider(url, anonKey string, timeout time.Duration) *SupabaseProvider {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SupabaseProvider{url: url, anonKey: anonKey, timeout: timeout}
}

// SignInAnonymously posts an empty sign-up, which GoTrue answers with a fresh
// anonymous user and session.
func (p *SupabaseProvider) SignInAnonymously(ctx context.Context) (models.UserIdentity, error) {
	client, err := supa.NewClient(p.url, p.anonKey, nil)
	if err != nil {
		return models.UserIdentity{}, fmt.Errorf("create supabase client: %w", err)
	}

	type signup struct {
		resp *types.SignupResponse
		err  error
	}
	done := make(chan signup, 1)
	go func() {
		resp, err := client.Auth.WithClient(http.Client{Timeout: p.timeout}).Signup(types.SignupRequest{})
		done <- signup{resp: resp, err: err}
	}()

	var res signup
	select {
	case <-ctx.Done():
		return models.UserIdentity{}, ctx.Err()
	case res = <-done:
	}
	if res.err != nil {
		return models.UserIdentity{}, fmt.Errorf("anonymous sign-in: %w", res.err)
	}
	if res.resp.Session.AccessToken == "" || res.resp.Session.User.ID == uuid.Nil {
		return models.UserIdentity{}, ErrAnonymousDisabled
	}
	return identityFrom(res.resp.Session, time.Now()), nil
}

// Refresh trades identity's refresh token for a new access token. The user
// stays the same; GoTrue rotates the refresh token on every use.
func (p *SupabaseProvider) Refresh(ctx context.Context, identity models.UserIdentity) (models.UserIdentity, error) {
	if identity.RefreshToken == "" {
		return models.UserIdentity{}, ErrNoRefreshToken
	}
	client, err := supa.NewClient(p.url, p.anonKey, nil)
	if err != nil {
		return models.UserIdentity{}, fmt.Errorf("create supabase client: %w", err)
	}

	type token struct {
		resp *types.TokenResponse
		err  error
	}
	done := make(chan token, 1)
	go func() {
		resp, err := client.Auth.WithClient(http.Client{Timeout: p.timeout}).RefreshToken(identity.RefreshToken)
		done <- token{resp: resp, err: err}
	}()

	var res token
	select {
	case <-ctx.Done():
		return models.UserIdentity{}, ctx.Err()
	case res = <-done:
	}
	if res.err != nil {
		return models.UserIdentity{}, fmt.Errorf("refresh session: %w", res.err)
	}
	if res.resp.AccessToken == "" {
		return models.UserIdentity{}, errors.New("refresh session: no access token returned")
	}
	refreshed := identityFrom(res.resp.Session, time.Now())
	if refreshed.UserID == "" || refreshed.UserID == uuid.Nil.String() {
		refreshed.UserID = identity.UserID
	}
	if refreshed.UserID != identity.UserID {
		return models.UserIdentity{}, fmt.Errorf("refresh session: token issued for user %s, want %s", refreshed.UserID, identity.UserID)
	}
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = identity.RefreshToken
	}
	return refreshed, nil
}

// identityFrom reads a GoTrue session. expires_at wins over expires_in when
// both are present.
func identityFrom(s types.Session, now time.Time) models.UserIdentity {
	id := models.UserIdentity{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
	}
	if s.User.ID != uuid.Nil {
		id.UserID = s.User.ID.String()
	}
	switch {
	case s.ExpiresAt > 0:
		id.ExpiresAt = time.Unix(s.ExpiresAt, 0)
	case s.ExpiresIn > 0:
		id.ExpiresAt = now.Add(time.Duration(s.ExpiresIn) * time.Second)
	}
	return id
}

// UserClient returns a Supabase client that acts as identity, so row-level
// security on the history table applies to every query it makes. The token is
// fixed; UserTables rebuilds the client when it refreshes.
func UserClient(url, anonKey string, identity models.UserIdentity) (*supa.Client, error) {
	return supa.NewClient(url, anonKey, &supa.ClientOptions{
		Headers: map[string]string{"Authorization": "Bearer " + identity.AccessToken},
	})
}

// LocalProvider issues random identities without any remote call. It backs the
// sqlite and memory history backends, which have no auth server.
type LocalProvider struct{}

func (LocalProvider) SignInAnonymously(ctx context.Context) (models.UserIdentity, error) {
	if err := ctx.Err(); err != nil {
		return models.UserIdentity{}, err
	}
	return models.UserIdentity{UserID: uuid.NewString()}, nil
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) (models.UserIdentity, error)

func (f ProviderFunc) SignInAnonymously(ctx context.Context) (models.UserIdentity, error) {
	return f(ctx)
}
