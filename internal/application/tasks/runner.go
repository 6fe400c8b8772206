package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryanwahyu/ux-critique/internal/application"
)

type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Task is a handle on background work. Fields are read through accessors
// because the runner goroutine updates them.
type Task struct {
	ID  string
	Key string

	mu         sync.Mutex
	status     Status
	err        error
	queuedAt   time.Time
	finishedAt time.Time
	done       chan struct{}
}

// Snapshot is the JSON view of a task.
type Snapshot struct {
	ID         string     `json:"task_id"`
	Key        string     `json:"-"`
	Status     Status     `json:"status"`
	Error      string     `json:"error,omitempty"`
	QueuedAt   time.Time  `json:"queued_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

func (t *Task) Done() <-chan struct{} { return t.done }

func (t *Task) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

func (t *Task) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := Snapshot{ID: t.ID, Key: t.Key, Status: t.status, QueuedAt: t.queuedAt}
	if t.err != nil {
		s.Error = t.err.Error()
	}
	if !t.finishedAt.IsZero() {
		f := t.finishedAt
		s.FinishedAt = &f
	}
	return s
}

func (t *Task) set(status Status) {
	t.mu.Lock()
	t.status = status
	t.mu.Unlock()
}

func (t *Task) finish(err error, at time.Time) {
	t.mu.Lock()
	t.err = err
	t.finishedAt = at
	if err != nil {
		t.status = StatusFailed
	} else {
		t.status = StatusDone
	}
	t.mu.Unlock()
	close(t.done)
}

// Runner executes fire-and-forget jobs detached from the request that
// started them. Jobs are only canceled by Shutdown.
type Runner struct {
	Clock  application.Clock
	Logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	byID   map[string]*Task
	latest map[string]*Task
}

func NewRunner(clock application.Clock, logger *zap.Logger) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		Clock:  clock,
		Logger: logger,
		ctx:    ctx,
		cancel: cancel,
		byID:   map[string]*Task{},
		latest: map[string]*Task{},
	}
}

// Submit starts fn in the background. key groups tasks (the session id) so
// the newest one can be found with ForKey.
func (r *Runner) Submit(key string, fn func(ctx context.Context) error) *Task {
	t := &Task{
		ID:       uuid.NewString(),
		Key:      key,
		status:   StatusQueued,
		queuedAt: r.Clock.Now(),
		done:     make(chan struct{}),
	}
	r.mu.Lock()
	r.byID[t.ID] = t
	r.latest[key] = t
	r.mu.Unlock()

	log := r.Logger.With(zap.String("task_id", t.ID), zap.String("key", key))
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		var err error
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("task panicked: %v", rec)
			}
			if err != nil {
				log.Error("background task failed", zap.Error(err))
			} else {
				log.Debug("background task finished")
			}
			t.finish(err, r.Clock.Now())
		}()
		if ctxErr := r.ctx.Err(); ctxErr != nil {
			err = ctxErr
			return
		}
		t.set(StatusRunning)
		err = fn(r.ctx)
	}()
	return t
}

// Get returns the task with id, or nil.
func (r *Runner) Get(id string) *Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id]
}

// ForKey returns the most recently submitted task for key, or nil.
func (r *Runner) ForKey(key string) *Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latest[key]
}

// Prune forgets finished tasks older than maxAge and returns how many.
func (r *Runner) Prune(now time.Time, maxAge time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, t := range r.byID {
		s := t.Snapshot()
		if s.FinishedAt == nil || now.Sub(*s.FinishedAt) <= maxAge {
			continue
		}
		delete(r.byID, id)
		if r.latest[t.Key] == t {
			delete(r.latest, t.Key)
		}
		n++
	}
	return n
}

// Shutdown cancels running jobs and waits for them until ctx ends.
func (r *Runner) Shutdown(ctx context.Context) error {
	r.cancel()
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
