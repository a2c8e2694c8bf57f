package history

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"reelarchitect/internal/worker"
	"reelarchitect/models"
)

// DefaultAppendTimeout bounds one background append.
const DefaultAppendTimeout = 15 * time.Second

// AppendOutcome reports how a background append went. Err wraps
// ErrStoreWriteFailed on failure.
type AppendOutcome struct {
	Scope   Scope
	EntryID string
	Title   string
	Err     error
}

// OK reports whether the entry was stored.
func (o AppendOutcome) OK() bool { return o.Err == nil }

// DeleteOutcome reports how a delete went. Err wraps ErrStoreDeleteFailed on failure.
type DeleteOutcome struct {
	Scope   Scope
	EntryID string
	Err     error
}

// DiagnosticsSink receives history outcomes. It is the only place store
// failures go; they never reach the generation response.
type DiagnosticsSink interface {
	ReportAppend(AppendOutcome)
	ReportDelete(DeleteOutcome)
}

// LogSink writes outcomes to a logrus logger.
type LogSink struct {
	Logger *logrus.Logger
}

func (s LogSink) ReportAppend(o AppendOutcome) {
	entry := s.Logger.WithFields(logrus.Fields{
		"collection": o.Scope.CollectionPath(),
		"title":      o.Title,
	})
	if o.Err != nil {
		entry.WithError(o.Err).Warn("History append failed")
		return
	}
	entry.WithField("entry_id", o.EntryID).Info("History entry saved")
}

func (s LogSink) ReportDelete(o DeleteOutcome) {
	entry := s.Logger.WithFields(logrus.Fields{
		"collection": o.Scope.CollectionPath(),
		"entry_id":   o.EntryID,
	})
	if o.Err != nil {
		entry.WithError(o.Err).Warn("History delete failed")
		return
	}
	entry.Info("History entry deleted")
}

// MultiSink fans outcomes out to several sinks.
type MultiSink []DiagnosticsSink

func (m MultiSink) ReportAppend(o AppendOutcome) {
	for _, s := range m {
		s.ReportAppend(o)
	}
}

func (m MultiSink) ReportDelete(o DeleteOutcome) {
	for _, s := range m {
		s.ReportDelete(o)
	}
}

// Appender writes history entries in the background on a worker pool. Callers
// hand an entry over and move on; the outcome goes to the sink.
type Appender struct {
	dispatcher *worker.Dispatcher
	sink       DiagnosticsSink
	timeout    time.Duration
}

// NewAppender creates an Appender on a running dispatcher.
func NewAppender(dispatcher *worker.Dispatcher, sink DiagnosticsSink, timeout time.Duration) *Appender {
	if timeout <= 0 {
		timeout = DefaultAppendTimeout
	}
	return &Appender{dispatcher: dispatcher, sink: sink, timeout: timeout}
}

// Append queues a new entry for req/result. onDone, if set, runs after the
// outcome has been reported, whether or not the write succeeded.
func (a *Appender) Append(store Store, scope Scope, req models.GenerationRequest, result models.GenerationResult, onDone func(AppendOutcome)) {
	job := &appendJob{
		id:      uuid.NewString(),
		store:   store,
		scope:   scope,
		entry:   models.HistoryEntry{Title: req.Title, Description: req.Description, Result: result},
		timeout: a.timeout,
		report: func(o AppendOutcome) {
			a.sink.ReportAppend(o)
			if onDone != nil {
				onDone(o)
			}
		},
	}
	if err := a.dispatcher.SubmitJob(job); err != nil {
		job.report(AppendOutcome{Scope: scope, Title: req.Title, Err: storeErr(opAppend, err)})
	}
}

type appendJob struct {
	id      string
	store   Store
	scope   Scope
	entry   models.HistoryEntry
	timeout time.Duration
	report  func(AppendOutcome)
}

func (j *appendJob) ID() string { return j.id }

func (j *appendJob) Execute() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	saved, err := j.store.Append(ctx, j.scope, j.entry)
	outcome := AppendOutcome{Scope: j.scope, Title: j.entry.Title, EntryID: saved.ID, Err: err}
	j.report(outcome)
	return err
}

// DeleteQuietly removes an entry and reports the outcome to sink. It returns
// nothing: a failed delete is a diagnostic, not a user-facing error.
func DeleteQuietly(ctx context.Context, store Store, scope Scope, id string, sink DiagnosticsSink) {
	err := store.Delete(ctx, scope, id)
	sink.ReportDelete(DeleteOutcome{Scope: scope, EntryID: id, Err: err})
}
