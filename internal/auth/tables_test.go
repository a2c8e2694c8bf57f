package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelarchitect/models"
)

// fakeSupabase serves anonymous sign-up, refresh and a scripts table, and
// hands out access tokens that expire after ttl.
type fakeSupabase struct {
	ttl         time.Duration
	refreshFail bool

	mu         sync.Mutex
	issued     int
	refreshes  int
	lastBearer string
	refreshTok string
}

func (f *fakeSupabase) session(w http.ResponseWriter) {
	f.issued++
	f.refreshTok = fmt.Sprintf("refresh-%d", f.issued)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"access_token":  fmt.Sprintf("access-%d", f.issued),
		"refresh_token": f.refreshTok,
		"token_type":    "bearer",
		"expires_in":    int(f.ttl.Seconds()),
		"user":          map[string]any{"id": anonUserID},
	})
}

func (f *fakeSupabase) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch r.URL.Path {
	case "/auth/v1/signup":
		f.session(w)
	case "/auth/v1/token":
		f.refreshes++
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if f.refreshFail || r.URL.Query().Get("grant_type") != "refresh_token" || body.RefreshToken != f.refreshTok {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":"invalid_grant"}`)
			return
		}
		f.session(w)
	case "/rest/v1/scripts":
		f.lastBearer = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[]`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeSupabase) snapshot() (bearer string, refreshes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastBearer, f.refreshes
}

func newShortLivedSession(t *testing.T, fake *fakeSupabase) (*UserTables, *time.Time) {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	provider := NewSupabaseProvider(srv.URL, "anon-key", time.Second)
	identity, err := provider.SignInAnonymously(context.Background())
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)
	tables, err := NewUserTables(srv.URL, "anon-key", identity, provider, log)
	require.NoError(t, err)

	now := time.Now()
	tables.now = func() time.Time { return now }
	return tables, &now
}

func queryScripts(t *testing.T, tables *UserTables) {
	t.Helper()
	_, _, err := tables.From("scripts").Select("*", "", false).Execute()
	require.NoError(t, err)
}

func TestUserTables_RefreshesBeforeExpiry(t *testing.T) {
	fake := &fakeSupabase{ttl: 2 * time.Minute}
	tables, now := newShortLivedSession(t, fake)

	queryScripts(t, tables)
	bearer, refreshes := fake.snapshot()
	assert.Equal(t, "Bearer access-1", bearer)
	assert.Zero(t, refreshes, "a fresh token is used as is")

	*now = now.Add(90 * time.Second)
	queryScripts(t, tables)
	bearer, refreshes = fake.snapshot()
	assert.Equal(t, "Bearer access-2", bearer, "queries carry the refreshed token")
	assert.Equal(t, 1, refreshes)

	identity := tables.Identity()
	assert.Equal(t, anonUserID, identity.UserID, "refresh keeps the same user")
	assert.Equal(t, "refresh-2", identity.RefreshToken, "the rotated refresh token is kept")
	assert.False(t, tables.Expired())

	queryScripts(t, tables)
	_, refreshes = fake.snapshot()
	assert.Equal(t, 1, refreshes, "no refresh while the new token is fresh")
}

func TestUserTables_ExpiredWhenRefreshFails(t *testing.T) {
	fake := &fakeSupabase{ttl: 2 * time.Minute, refreshFail: true}
	tables, now := newShortLivedSession(t, fake)

	*now = now.Add(90 * time.Second)
	assert.False(t, tables.Expired(), "still usable until the token actually lapses")

	*now = now.Add(time.Minute)
	assert.True(t, tables.Expired())
	queryScripts(t, tables)
	bearer, _ := fake.snapshot()
	assert.Equal(t, "Bearer access-1", bearer)
}

func TestUserTables_WithoutRefresher(t *testing.T) {
	fake := &fakeSupabase{ttl: time.Minute}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	identity := models.UserIdentity{UserID: anonUserID, AccessToken: "static", ExpiresAt: time.Now().Add(-time.Second)}
	tables, err := NewUserTables(srv.URL, "anon-key", identity, nil, nil)
	require.NoError(t, err)

	queryScripts(t, tables)
	bearer, refreshes := fake.snapshot()
	assert.Equal(t, "Bearer static", bearer)
	assert.Zero(t, refreshes)
	assert.True(t, tables.Expired())
}

func TestSupabaseProvider_RefreshRequiresToken(t *testing.T) {
	_, err := NewSupabaseProvider("http://localhost", "anon-key", time.Second).
		Refresh(context.Background(), models.UserIdentity{UserID: anonUserID})
	assert.ErrorIs(t, err, ErrNoRefreshToken)
}

func TestIdentityExpiresWithin(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	assert.False(t, models.UserIdentity{}.ExpiresWithin(time.Hour, now), "no expiry never lapses")

	id := models.UserIdentity{ExpiresAt: now.Add(2 * time.Minute)}
	assert.False(t, id.ExpiresWithin(time.Minute, now))
	assert.True(t, id.ExpiresWithin(2*time.Minute, now))
	assert.True(t, id.ExpiresWithin(0, now.Add(3*time.Minute)))
}
