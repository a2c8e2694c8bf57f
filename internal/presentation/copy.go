package presentation

import (
	"regexp"
	"sync"
	"time"
)

// CopyWindow is how long a copy indicator stays visible.
const CopyWindow = 2 * time.Second

var copyKeyPattern = regexp.MustCompile(`^(insta|yt|(vis|aud)-\d+)$`)

// ValidCopyKey reports whether key names one of the page's copy buttons.
func ValidCopyKey(key string) bool {
	return copyKeyPattern.MatchString(key)
}

// CopyTracker keeps one expiry per key. Marking a key never touches another
// key's window.
type CopyTracker struct {
	mu     sync.Mutex
	now    func() time.Time
	window time.Duration
	until  map[string]time.Time
}

type CopyOption func(*CopyTracker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) CopyOption {
	return func(t *CopyTracker) { t.now = now }
}

func WithWindow(d time.Duration) CopyOption {
	return func(t *CopyTracker) { t.window = d }
}

func NewCopyTracker(opts ...CopyOption) *CopyTracker {
	t := &CopyTracker{now: time.Now, window: CopyWindow, until: make(map[string]time.Time)}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Mark starts (or restarts) key's window and returns when it ends.
func (t *CopyTracker) Mark(key string) time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	end := t.now().Add(t.window)
	t.until[key] = end
	return end
}

func (t *CopyTracker) Copied(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	end, ok := t.until[key]
	return ok && t.now().Before(end)
}

// Active returns the keys still inside their window and forgets expired ones.
func (t *CopyTracker) Active() map[string]bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	active := make(map[string]bool, len(t.until))
	for key, end := range t.until {
		if now.Before(end) {
			active[key] = true
			continue
		}
		delete(t.until, key)
	}
	return active
}

// Reset clears every indicator.
func (t *CopyTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.until)
}
