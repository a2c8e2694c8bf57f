package session

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"reelarchitect/internal/auth"
	"reelarchitect/internal/history"
	"reelarchitect/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func memoryFactory(store history.Store) StoreFactory {
	return func(models.UserIdentity) (history.Store, error) { return store, nil }
}

func signedIn(t *testing.T, store history.Store) *Session {
	t.Helper()
	s := New("sess-1", "reel-app", nil)
	_, err := s.SignIn(context.Background(), auth.LocalProvider{}, memoryFactory(store))
	require.NoError(t, err)
	return s
}

func sampleResult(n int) *models.GenerationResult {
	r := &models.GenerationResult{TitleSuggestion: "Where Is Everybody?", Segments: []models.ScriptSegment{}}
	for i := 0; i < n; i++ {
		r.Segments = append(r.Segments, models.ScriptSegment{Time: "0-3s", AudioScript: "[pause] hi"})
	}
	return r
}

func TestSession_HandleBeforeSignIn(t *testing.T) {
	s := New("sess-1", "reel-app", nil)
	_, _, err := s.Handle()
	assert.ErrorIs(t, err, auth.ErrAuthPending)

	_, err = s.Watch(context.Background(), history.SubscribeOptions{})
	assert.ErrorIs(t, err, auth.ErrAuthPending)
	assert.Equal(t, auth.Unauthenticated, s.AuthState())
}

func TestSession_SignInOpensScopedStore(t *testing.T) {
	store := history.NewMemoryStore()
	s := signedIn(t, store)

	got, scope, err := s.Handle()
	require.NoError(t, err)
	assert.Same(t, store, got)
	assert.Equal(t, "reel-app", scope.AppID)
	assert.NotEmpty(t, scope.UserID)
	assert.Equal(t, auth.Authenticated, s.AuthState())
}

func TestSession_StoreFactoryFailure(t *testing.T) {
	s := New("sess-1", "reel-app", nil)
	boom := errors.New("no database")
	_, err := s.SignIn(context.Background(), auth.LocalProvider{}, func(models.UserIdentity) (history.Store, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, auth.Unauthenticated, s.AuthState())
}

func TestSession_SignInFailureIsPending(t *testing.T) {
	s := New("sess-1", "reel-app", nil)
	_, err := s.SignIn(context.Background(), auth.ProviderFunc(func(context.Context) (models.UserIdentity, error) {
		return models.UserIdentity{}, errors.New("auth down")
	}), memoryFactory(history.NewMemoryStore()))
	require.Error(t, err)
	assert.EqualError(t, s.AuthError(), "auth down")

	_, _, err = s.Handle()
	assert.ErrorIs(t, err, auth.ErrAuthPending)
}

func TestSession_OneGenerationAtATime(t *testing.T) {
	s := New("sess-1", "reel-app", nil)
	req := models.GenerationRequest{Title: "The Great Filter", Description: "Explain why we haven't found aliens"}

	require.NoError(t, s.BeginGeneration(req))
	assert.True(t, s.Loading())
	assert.ErrorIs(t, s.BeginGeneration(req), ErrGenerationInFlight)

	st := s.State(nil)
	assert.True(t, st.Loading)
	assert.Nil(t, st.Result)

	s.FinishGeneration(sampleResult(3), nil)
	st = s.State(nil)
	assert.False(t, st.Loading)
	require.NotNil(t, st.Result)
	assert.Len(t, st.Result.Segments, 3)
	assert.Equal(t, req.Title, st.Title)

	require.NoError(t, s.BeginGeneration(req))
	assert.Nil(t, s.State(nil).Result, "a new generation clears the previous result")
	s.FinishGeneration(nil, errors.New("API Error: 503"))
	assert.EqualError(t, s.State(nil).Err, "API Error: 503")
}

func TestSession_LoadEntryAndReset(t *testing.T) {
	s := New("sess-1", "reel-app", nil)
	created := time.Now()
	entry := models.HistoryEntry{ID: "e1", Title: "T", Description: "D", Result: *sampleResult(2), CreatedAt: &created}

	s.Fail(errors.New("stale"))
	s.LoadEntry(entry)
	st := s.State([]models.HistoryEntry{entry})
	assert.Equal(t, "T", st.Title)
	assert.Equal(t, "D", st.Description)
	assert.Equal(t, entry.Result, *st.Result)
	assert.Equal(t, "e1", st.ActiveID)
	assert.NoError(t, st.Err)

	s.Copies().Mark("insta")
	s.Reset()
	st = s.State(nil)
	assert.Empty(t, st.Title)
	assert.Nil(t, st.Result)
	assert.Empty(t, st.Copied)
}

func TestSession_WatchAndNotify(t *testing.T) {
	store := history.NewMemoryStore()
	s := signedIn(t, store)

	sub, err := s.Watch(context.Background(), history.SubscribeOptions{PollInterval: time.Hour})
	require.NoError(t, err)

	select {
	case snap := <-sub.Updates():
		assert.Empty(t, snap)
	case <-time.After(2 * time.Second):
		t.Fatal("no initial snapshot")
	}

	_, scope, err := s.Handle()
	require.NoError(t, err)
	_, err = store.Append(context.Background(), scope, models.HistoryEntry{Title: "T", Result: *sampleResult(1)})
	require.NoError(t, err)
	s.NotifyWatchers()

	select {
	case snap := <-sub.Updates():
		require.Len(t, snap, 1)
		assert.Equal(t, "T", snap[0].Title)
	case <-time.After(2 * time.Second):
		t.Fatal("notify did not refresh")
	}

	s.SignOut()
	_, ok := <-sub.Updates()
	assert.False(t, ok, "sign-out closes subscriptions")
	assert.Equal(t, auth.Unauthenticated, s.AuthState())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry("reel-app")
	now := time.Unix(1000, 0)
	r.now = func() time.Time { return now }

	a := r.GetOrCreate("a")
	assert.Same(t, a, r.GetOrCreate("a"))
	b := r.GetOrCreate("b")
	require.NoError(t, b.BeginGeneration(models.GenerationRequest{Title: "x", Description: "y"}))
	assert.Equal(t, 2, r.Len())

	now = now.Add(time.Hour)
	assert.Equal(t, 1, r.Sweep(30*time.Minute), "busy sessions survive the sweep")
	_, ok := r.Get("a")
	assert.False(t, ok)
	_, ok = r.Get("b")
	assert.True(t, ok)

	r.Remove("b")
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_CloseSignsOut(t *testing.T) {
	r := NewRegistry("reel-app")
	s := r.GetOrCreate("a")
	_, err := s.SignIn(context.Background(), auth.LocalProvider{}, memoryFactory(history.NewMemoryStore()))
	require.NoError(t, err)

	sub, err := s.Watch(context.Background(), history.SubscribeOptions{PollInterval: time.Hour})
	require.NoError(t, err)

	r.Close()
	<-sub.Done()
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, auth.Unauthenticated, s.AuthState())
}

func TestRegistry_SweepKeepsStreamingSessions(t *testing.T) {
	r := NewRegistry("reel-app")
	now := time.Unix(1000, 0)
	r.now = func() time.Time { return now }

	s := r.GetOrCreate("tab")
	_, err := s.SignIn(context.Background(), auth.LocalProvider{}, memoryFactory(history.NewMemoryStore()))
	require.NoError(t, err)
	identity, err := s.Identity()
	require.NoError(t, err)

	sub, err := s.Watch(context.Background(), history.SubscribeOptions{PollInterval: time.Hour})
	require.NoError(t, err)
	assert.True(t, s.Watching())

	now = now.Add(48 * time.Hour)
	assert.Zero(t, r.Sweep(time.Hour), "an open stream keeps the session")
	kept, ok := r.Get("tab")
	require.True(t, ok)
	still, err := kept.Identity()
	require.NoError(t, err)
	assert.Equal(t, identity.UserID, still.UserID)

	sub.Close()
	assert.Eventually(t, func() bool { return !s.Watching() }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, r.Sweep(time.Hour), "once the stream ends the idle session goes")
	<-sub.Done()
}

type lapsingStore struct {
	*history.MemoryStore
	expired atomic.Bool
}

func (l *lapsingStore) Expired() bool { return l.expired.Load() }

func TestSession_LapsedStoreSignsOut(t *testing.T) {
	store := &lapsingStore{MemoryStore: history.NewMemoryStore()}
	s := signedIn(t, store)

	sub, err := s.Watch(context.Background(), history.SubscribeOptions{PollInterval: time.Hour})
	require.NoError(t, err)
	_, _, err = s.Handle()
	require.NoError(t, err)

	store.expired.Store(true)
	_, _, err = s.Handle()
	assert.ErrorIs(t, err, auth.ErrAuthPending)
	assert.Equal(t, auth.Unauthenticated, s.AuthState())
	<-sub.Done()

	store.expired.Store(false)
	_, err = s.SignIn(context.Background(), auth.LocalProvider{}, memoryFactory(store))
	require.NoError(t, err)
	_, _, err = s.Handle()
	assert.NoError(t, err, "signing in again restores access")
}
