package presentation

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestCopyTracker_KeysAreIndependent(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	tr := NewCopyTracker(WithClock(clock.Now))

	tr.Mark("insta")
	clock.Advance(1500 * time.Millisecond)
	tr.Mark("vis-0")

	assert.True(t, tr.Copied("insta"))
	assert.True(t, tr.Copied("vis-0"))

	// insta's window ends 2s after its own mark, unaffected by vis-0.
	clock.Advance(600 * time.Millisecond)
	assert.False(t, tr.Copied("insta"))
	assert.True(t, tr.Copied("vis-0"))

	clock.Advance(1500 * time.Millisecond)
	assert.False(t, tr.Copied("vis-0"))
}

func TestCopyTracker_RemarkExtendsOnlyThatKey(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	tr := NewCopyTracker(WithClock(clock.Now))

	tr.Mark("insta")
	tr.Mark("vis-0")
	clock.Advance(time.Second)
	tr.Mark("vis-0")
	clock.Advance(1500 * time.Millisecond)

	assert.Equal(t, map[string]bool{"vis-0": true}, tr.Active())
	assert.False(t, tr.Copied("insta"))
}

func TestCopyTracker_Reset(t *testing.T) {
	tr := NewCopyTracker(WithWindow(time.Hour))
	tr.Mark("yt")
	tr.Reset()
	assert.Empty(t, tr.Active())
}

func TestValidCopyKey(t *testing.T) {
	for _, key := range []string{"insta", "yt", "vis-0", "aud-12"} {
		assert.True(t, ValidCopyKey(key), key)
	}
	for _, key := range []string{"", "vis-", "aud-x", "insta2", "tiktok"} {
		assert.False(t, ValidCopyKey(key), key)
	}
}
