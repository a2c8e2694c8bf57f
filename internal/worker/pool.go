package worker

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	// ErrQueueFull is returned by SubmitJob when the job queue has no free slot.
	ErrQueueFull = errors.New("worker: job queue full")
	// ErrStopped is returned by SubmitJob after Stop has been called.
	ErrStopped = errors.New("worker: dispatcher stopped")
)

// Job represents a unit of work to be executed.
type Job interface {
	Execute() error // The method that performs the actual work
	ID() string     // A unique identifier for the job
}

// Worker pulls jobs from its own channel after registering that channel with the pool.
type Worker struct {
	ID         int
	WorkerPool chan chan Job   // A pool of channels, used to register this worker's job channel
	JobChannel chan Job        // A channel specific to this worker, to receive jobs
	Quit       <-chan struct{} // Closed when the dispatcher shuts down
	Wg         *sync.WaitGroup
	logger     *logrus.Logger
}

// NewWorker creates a new Worker.
func NewWorker(id int, workerPool chan chan Job, quit <-chan struct{}, wg *sync.WaitGroup, logger *logrus.Logger) Worker {
	return Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan Job),
		Quit:       quit,
		Wg:         wg,
		logger:     logger,
	}
}

// Start makes the Worker listen for jobs on its JobChannel.
func (w Worker) Start() {
	w.Wg.Add(1)
	go func() {
		defer w.Wg.Done()
		for {
			select {
			case w.WorkerPool <- w.JobChannel:
			case <-w.Quit:
				return
			}

			select {
			case job := <-w.JobChannel:
				w.run(job)
			case <-w.Quit:
				w.logger.WithField("worker", w.ID).Debug("Worker stopping")
				return
			}
		}
	}()
}

func (w Worker) run(job Job) {
	entry := w.logger.WithFields(logrus.Fields{"worker": w.ID, "job_id": job.ID()})
	defer func() {
		if r := recover(); r != nil {
			entry.WithField("panic", fmt.Sprint(r)).Error("Job panicked")
		}
	}()
	entry.Debug("Started job")
	if err := job.Execute(); err != nil {
		entry.WithError(err).Warn("Error processing job")
		return
	}
	entry.Debug("Finished job")
}

// Dispatcher manages a pool of workers and dispatches jobs to them.
type Dispatcher struct {
	MaxWorkers int
	WorkerPool chan chan Job // A pool of worker job channels
	JobQueue   chan Job      // A buffered channel for incoming jobs
	Workers    []Worker

	wg         sync.WaitGroup
	quit       chan struct{}
	dispatched chan struct{}
	logger     *logrus.Logger

	mu      sync.RWMutex
	running bool
	stopped bool
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(maxWorkers int, jobQueueSize int, logger *logrus.Logger) *Dispatcher {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if jobQueueSize < 0 {
		jobQueueSize = 0
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Dispatcher{
		MaxWorkers: maxWorkers,
		WorkerPool: make(chan chan Job, maxWorkers),
		JobQueue:   make(chan Job, jobQueueSize),
		Workers:    make([]Worker, 0, maxWorkers),
		quit:       make(chan struct{}),
		dispatched: make(chan struct{}),
		logger:     logger,
	}
}

// Run starts the dispatcher and its workers. Calling Run twice is a no-op.
func (d *Dispatcher) Run() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running || d.stopped {
		return
	}
	d.running = true

	for i := 1; i <= d.MaxWorkers; i++ {
		worker := NewWorker(i, d.WorkerPool, d.quit, &d.wg, d.logger)
		d.Workers = append(d.Workers, worker)
		worker.Start()
	}

	go d.dispatch()
	d.logger.WithField("workers", d.MaxWorkers).Info("Dispatcher is running")
}

// dispatch hands queued jobs to free workers until the queue is closed.
func (d *Dispatcher) dispatch() {
	defer close(d.dispatched)
	for job := range d.JobQueue {
		jobChannel := <-d.WorkerPool
		jobChannel <- job
	}
}

// SubmitJob adds a job to the job queue without blocking.
func (d *Dispatcher) SubmitJob(job Job) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrStopped
	}

	select {
	case d.JobQueue <- job:
		d.logger.WithField("job_id", job.ID()).Debug("Job submitted to queue")
		return nil
	default:
		d.logger.WithField("job_id", job.ID()).Warn("Job queue full, job dropped")
		return ErrQueueFull
	}
}

// Stop rejects new jobs, runs every job already queued, and waits for the workers to exit.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.JobQueue)
	running := d.running
	d.mu.Unlock()

	if running {
		<-d.dispatched
	}
	close(d.quit)
	d.wg.Wait()
	d.logger.Info("Dispatcher: all workers have stopped")
}
