package history

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"reelarchitect/models"
)

const (
	DefaultPollInterval = 3 * time.Second
	DefaultMaxBackoff   = time.Minute
)

// SubscribeOptions tunes a live subscription.
type SubscribeOptions struct {
	PollInterval time.Duration
	MaxBackoff   time.Duration
	Logger       *logrus.Logger
}

func (o SubscribeOptions) withDefaults() SubscribeOptions {
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.MaxBackoff < o.PollInterval {
		o.MaxBackoff = DefaultMaxBackoff
		if o.MaxBackoff < o.PollInterval {
			o.MaxBackoff = o.PollInterval
		}
	}
	if o.Logger == nil {
		o.Logger = logrus.New()
	}
	return o
}

// Subscription is a live view over one user's collection. Every time the
// collection changes (including the initial load) the full, newest-first list
// is published on Updates. A slow reader only ever sees the latest list.
type Subscription struct {
	store  Store
	scope  Scope
	opts   SubscribeOptions
	log    *logrus.Entry
	cancel context.CancelFunc

	updates chan []models.HistoryEntry
	notify  chan struct{}
	done    chan struct{}

	closeOnce sync.Once
	lastPrint string
	delivered bool
}

// Subscribe opens a subscription. It stays open until Close is called or ctx ends.
func Subscribe(ctx context.Context, store Store, scope Scope, opts SubscribeOptions) *Subscription {
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(ctx)
	s := &Subscription{
		store:   store,
		scope:   scope,
		opts:    opts,
		log:     opts.Logger.WithField("collection", scope.CollectionPath()),
		cancel:  cancel,
		updates: make(chan []models.HistoryEntry, 1),
		notify:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go s.run(ctx)
	return s
}

// Updates delivers snapshots. It is closed once the subscription has stopped.
func (s *Subscription) Updates() <-chan []models.HistoryEntry {
	return s.updates
}

// Notify asks for an immediate refresh, e.g. right after a local append or delete.
func (s *Subscription) Notify() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Close stops the subscription and waits for its goroutine to exit. Safe to call
// more than once.
func (s *Subscription) Close() {
	s.closeOnce.Do(s.cancel)
	<-s.done
}

// Done is closed when the subscription has stopped.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

func (s *Subscription) run(ctx context.Context) {
	defer close(s.done)
	defer close(s.updates)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.opts.PollInterval
	b.MaxInterval = s.opts.MaxBackoff
	b.MaxElapsedTime = 0
	b.Reset()

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		case <-s.notify:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}
		timer.Reset(s.poll(ctx, b))
	}
}

// poll reads the collection once and returns how long to wait before the next read.
func (s *Subscription) poll(ctx context.Context, b *backoff.ExponentialBackOff) time.Duration {
	entries, err := s.store.List(ctx, s.scope)
	if err != nil {
		if ctx.Err() != nil {
			return s.opts.PollInterval
		}
		wait := b.NextBackOff()
		s.log.WithError(err).WithField("retry_in_ms", wait.Milliseconds()).Warn("History poll failed")
		return wait
	}
	b.Reset()

	SortNewestFirst(entries)
	fp := fingerprint(entries)
	if s.delivered && fp == s.lastPrint {
		return s.opts.PollInterval
	}
	s.lastPrint = fp
	s.delivered = true
	s.publish(ctx, entries)
	return s.opts.PollInterval
}

func (s *Subscription) publish(ctx context.Context, entries []models.HistoryEntry) {
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	// Drop a snapshot the reader has not taken yet; this goroutine is the only
	// sender, so the buffered slot is free afterwards.
	select {
	case <-s.updates:
	default:
	}
	select {
	case s.updates <- entries:
	case <-ctx.Done():
	}
}

// fingerprint identifies a snapshot. Entries are never edited in place, so ids
// and creation times are enough to detect inserts and deletes.
func fingerprint(entries []models.HistoryEntry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.ID)
		sb.WriteByte('@')
		sb.WriteString(e.CreatedAtOrZero().Format(time.RFC3339Nano))
		sb.WriteByte(';')
	}
	return sb.String()
}
