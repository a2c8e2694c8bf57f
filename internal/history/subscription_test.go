package history

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"reelarchitect/models"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func nextSnapshot(t *testing.T, sub *Subscription) []models.HistoryEntry {
	t.Helper()
	select {
	case snap, ok := <-sub.Updates():
		require.True(t, ok, "subscription closed unexpectedly")
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for history snapshot")
		return nil
	}
}

var alice = Scope{AppID: "app", UserID: "alice"}

func TestSubscriptionDeliversOrderedSnapshots(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := NewMemoryStore()
	store.Seed(alice,
		models.HistoryEntry{ID: "t3", CreatedAt: at(3)},
		models.HistoryEntry{ID: "t1", CreatedAt: at(1)},
		models.HistoryEntry{ID: "missing"},
		models.HistoryEntry{ID: "t2", CreatedAt: at(2)},
	)

	sub := Subscribe(context.Background(), store, alice, SubscribeOptions{PollInterval: time.Hour, Logger: quietLogger()})
	defer sub.Close()

	assert.Equal(t, []string{"t3", "t2", "t1", "missing"}, ids(nextSnapshot(t, sub)))

	require.NoError(t, store.Delete(context.Background(), alice, "t2"))
	sub.Notify()
	assert.Equal(t, []string{"t3", "t1", "missing"}, ids(nextSnapshot(t, sub)))

	// deleting an id that is already gone changes nothing
	require.NoError(t, store.Delete(context.Background(), alice, "t2"))
	sub.Notify()
	select {
	case snap := <-sub.Updates():
		t.Fatalf("unexpected snapshot %v", ids(snap))
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSubscriptionEmptyCollection(t *testing.T) {
	defer goleak.VerifyNone(t)

	sub := Subscribe(context.Background(), NewMemoryStore(), alice, SubscribeOptions{Logger: quietLogger()})
	snap := nextSnapshot(t, sub)
	assert.NotNil(t, snap)
	assert.Empty(t, snap)
	sub.Close()
	sub.Close()
}

func TestSubscriptionPollsForRemoteChanges(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := NewMemoryStore()
	sub := Subscribe(context.Background(), store, alice, SubscribeOptions{PollInterval: 10 * time.Millisecond, Logger: quietLogger()})
	defer sub.Close()

	assert.Empty(t, nextSnapshot(t, sub))
	_, err := store.Append(context.Background(), alice, sampleEntry())
	require.NoError(t, err)
	assert.Len(t, nextSnapshot(t, sub), 1)
}

func TestSubscriptionStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	sub := Subscribe(ctx, NewMemoryStore(), alice, SubscribeOptions{Logger: quietLogger()})
	cancel()

	select {
	case <-sub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("subscription did not stop after context cancel")
	}
	for range sub.Updates() {
	}
}

// flakyStore fails the first n List calls.
type flakyStore struct {
	*MemoryStore
	failures atomic.Int32
	calls    atomic.Int32
}

func (f *flakyStore) List(ctx context.Context, scope Scope) ([]models.HistoryEntry, error) {
	f.calls.Add(1)
	if f.failures.Add(-1) >= 0 {
		return nil, storeErr(opList, errors.New("unavailable"))
	}
	return f.MemoryStore.List(ctx, scope)
}

func TestSubscriptionBacksOffOnErrors(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := &flakyStore{MemoryStore: NewMemoryStore()}
	store.failures.Store(3)

	sub := Subscribe(context.Background(), store, alice, SubscribeOptions{
		PollInterval: 5 * time.Millisecond,
		MaxBackoff:   20 * time.Millisecond,
		Logger:       quietLogger(),
	})
	defer sub.Close()

	snap := nextSnapshot(t, sub)
	assert.Empty(t, snap)
	assert.GreaterOrEqual(t, store.calls.Load(), int32(4))
}

func TestSubscriptionLatestWins(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := NewMemoryStore()
	sub := Subscribe(context.Background(), store, alice, SubscribeOptions{PollInterval: 5 * time.Millisecond, Logger: quietLogger()})
	defer sub.Close()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.Append(context.Background(), alice, sampleEntry())
		}()
	}
	wg.Wait()

	require.Eventually(t, func() bool {
		select {
		case snap := <-sub.Updates():
			return len(snap) == 5
		default:
			return false
		}
	}, 2*time.Second, 5*time.Millisecond)
}
