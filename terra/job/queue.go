// Package job runs terrain generation work on a bounded worker pool. The
// generation core is synchronous and has no cancellation hook of its own;
// this package provides the cooperative wrapper around it: submitted work is
// tracked by ID, executed on a fixed number of workers and cancelled
// collectively when the queue closes.
package job

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrQueueFull is returned by Submit when the inbox is at capacity.
	ErrQueueFull = errors.New("job: queue is full")
	// ErrClosed is returned by Submit after Close has been called.
	ErrClosed = errors.New("job: queue is closed")
)

// Status describes the lifecycle position of a job.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Work computes the result of a job. It returns the content key the result
// was stored under. The context is cancelled when the queue closes.
type Work func(ctx context.Context) (uint64, error)

// Config holds the tunable parameters of a Queue. The zero value is usable;
// defaults are applied by withDefaults.
type Config struct {
	// Log is the logger jobs report to. Defaults to slog.Default().
	Log *slog.Logger
	// Workers is the number of concurrent workers. Defaults to the CPU count.
	Workers int
	// QueueSize bounds the number of jobs waiting to run. Defaults to 64.
	QueueSize int
}

func (c Config) withDefaults() Config {
	if c.Log == nil {
		c.Log = slog.Default()
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 64
	}
	return c
}

// Snapshot is a point-in-time view of a job's state.
type Snapshot struct {
	ID        uuid.UUID `json:"id"`
	Status    Status    `json:"status"`
	Key       uint64    `json:"key,omitempty"`
	Err       string    `json:"error,omitempty"`
	Submitted time.Time `json:"submitted"`
	Started   time.Time `json:"started,omitzero"`
	Finished  time.Time `json:"finished,omitzero"`
}

type task struct {
	id  uuid.UUID
	run Work
}

// Queue executes submitted work on its worker pool and retains a record per
// job for status queries. Safe for concurrent use.
type Queue struct {
	log   *slog.Logger
	inbox chan task

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.RWMutex
	jobs   map[uuid.UUID]*Snapshot
	closed bool
}

// New creates a Queue and starts its workers.
func New(cfg Config) *Queue {
	cfg = cfg.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		log:    cfg.Log.With("component", "jobs"),
		inbox:  make(chan task, cfg.QueueSize),
		ctx:    ctx,
		cancel: cancel,
		jobs:   make(map[uuid.UUID]*Snapshot),
	}
	for i := 0; i < cfg.Workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	return q
}

// Submit queues work for execution and returns its job ID. It fails fast
// with ErrQueueFull when the inbox is at capacity rather than blocking the
// caller.
func (q *Queue) Submit(run Work) (uuid.UUID, error) {
	id := uuid.New()

	// The closed-check and the send must happen under the same lock
	// acquisition: Close closes the inbox while holding it, so a send can
	// never hit a closed channel.
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return uuid.Nil, ErrClosed
	}
	select {
	case q.inbox <- task{id: id, run: run}:
		q.jobs[id] = &Snapshot{ID: id, Status: StatusQueued, Submitted: time.Now()}
		q.log.Debug("job queued", "job", id)
		return id, nil
	default:
		return uuid.Nil, ErrQueueFull
	}
}

// Job returns a snapshot of the job with the ID passed.
func (q *Queue) Job(id uuid.UUID) (Snapshot, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	rec, ok := q.jobs[id]
	if !ok {
		return Snapshot{}, false
	}
	return *rec, true
}

// Jobs returns snapshots of all known jobs, most recently submitted last.
func (q *Queue) Jobs() []Snapshot {
	q.mu.RLock()
	defer q.mu.RUnlock()
	out := make([]Snapshot, 0, len(q.jobs))
	for _, rec := range q.jobs {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Submitted.Equal(out[j].Submitted) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].Submitted.Before(out[j].Submitted)
	})
	return out
}

// Close stops accepting work, cancels the context passed to running work and
// waits for the workers to drain.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.inbox)
	q.mu.Unlock()

	q.cancel()
	q.wg.Wait()
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for t := range q.inbox {
		q.update(t.id, func(s *Snapshot) {
			s.Status = StatusRunning
			s.Started = time.Now()
		})

		key, err := t.run(q.ctx)

		q.update(t.id, func(s *Snapshot) {
			s.Finished = time.Now()
			if err != nil {
				s.Status = StatusFailed
				s.Err = err.Error()
				return
			}
			s.Status = StatusDone
			s.Key = key
		})
		if err != nil {
			q.log.Error("job failed", "job", t.id, "err", err)
		} else {
			q.log.Debug("job finished", "job", t.id, "key", key)
		}
	}
}

func (q *Queue) update(id uuid.UUID, fn func(*Snapshot)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if rec, ok := q.jobs[id]; ok {
		fn(rec)
	}
}
