// Package task runs persistence operations off the interactive loop.
// Work is submitted per target path; operations against the same
// cleaned path run in submission order on a single lane, so a save
// queued after a load can never be reordered ahead of it. Operations
// against distinct paths run concurrently. Lanes queue without bound
// and Submit never blocks, so the interactive loop cannot stall behind
// slow disk I/O.
package task

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Logger is the minimal key/value logging interface the runner needs.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// lane is an unbounded FIFO queue of operations against one target
// path, drained by a single goroutine.
type lane struct {
	mu     sync.Mutex
	jobs   []func()
	closed bool
	wake   chan struct{}
}

func newLane() *lane {
	return &lane{wake: make(chan struct{}, 1)}
}

// push appends a job. Returns false if the lane has been closed.
func (l *lane) push(job func()) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.jobs = append(l.jobs, job)
	l.mu.Unlock()
	l.notify()
	return true
}

func (l *lane) close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	l.notify()
}

func (l *lane) notify() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// next pops the oldest job. A nil job with open == false means the
// lane is drained and closed; a nil job with open == true means empty,
// wait for a wake-up.
func (l *lane) next() (job func(), open bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.jobs) > 0 {
		job = l.jobs[0]
		l.jobs = l.jobs[1:]
		return job, true
	}
	return nil, !l.closed
}

func (l *lane) depth() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.jobs)
}

// run executes jobs in order until the lane is closed and drained.
func (l *lane) run() {
	for {
		job, open := l.next()
		if job != nil {
			job()
			continue
		}
		if !open {
			return
		}
		<-l.wake
	}
}

// Runner schedules background persistence work.
type Runner struct {
	logger Logger

	mu     sync.Mutex
	lanes  map[string]*lane
	closed bool
	wg     sync.WaitGroup

	submitted metric.Int64Counter
	completed metric.Int64Counter
	discarded metric.Int64Counter
	queued    metric.Int64ObservableGauge
}

// NewRunner creates a runner. Metrics use the global OTel meter and are
// no-ops when no provider is configured.
func NewRunner(logger Logger) (*Runner, error) {
	r := &Runner{
		logger: logger,
		lanes:  make(map[string]*lane),
	}

	m := meter()
	var err error

	r.submitted, err = m.Int64Counter(
		"task.operations.submitted",
		metric.WithDescription("Total operations submitted"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating submitted counter: %w", err)
	}

	r.completed, err = m.Int64Counter(
		"task.operations.completed",
		metric.WithDescription("Total operations completed and delivered"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating completed counter: %w", err)
	}

	r.discarded, err = m.Int64Counter(
		"task.operations.discarded",
		metric.WithDescription("Total completions dropped for abandoned handles"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating discarded counter: %w", err)
	}

	r.queued, err = m.Int64ObservableGauge(
		"task.lane.queued",
		metric.WithDescription("Operations waiting per target path"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating queued gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			for path, l := range r.lanes {
				o.ObserveInt64(r.queued, int64(l.depth()),
					metric.WithAttributes(attribute.String("path", path)))
			}
			return nil
		},
		r.queued,
	)
	if err != nil {
		return nil, fmt.Errorf("registering queued callback: %w", err)
	}

	return r, nil
}

// Submit schedules fn against path and returns a handle for polling.
// Submit never blocks, regardless of how much work is queued behind the
// path. fn runs on the path's lane goroutine and must not touch session
// state; it works on format values only.
func Submit[T any](r *Runner, kind, path string, fn func(context.Context) (T, error)) *Handle[T] {
	h := newHandle[T]()
	attrs := metric.WithAttributes(attribute.String("kind", kind))
	r.submitted.Add(context.Background(), 1, attrs)

	job := func() {
		v, err := fn(context.Background())
		if h.abandoned.Load() {
			r.discarded.Add(context.Background(), 1, attrs)
			r.logger.Debug("discarding completion for abandoned handle", "kind", kind, "path", path)
			return
		}
		h.done <- Result[T]{Value: v, Err: err}
		r.completed.Add(context.Background(), 1, attrs)
	}

	ln, err := r.lane(path)
	if err == nil && !ln.push(job) {
		err = fmt.Errorf("task runner is closed")
	}
	if err != nil {
		h.done <- Result[T]{Err: err}
	}
	return h
}

// lane returns the queue for a path, starting its goroutine on first
// use. Paths are cleaned so "./a/b" and "a/b" share a lane.
func (r *Runner) lane(path string) (*lane, error) {
	key := filepath.Clean(path)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, fmt.Errorf("task runner is closed")
	}
	if l, ok := r.lanes[key]; ok {
		return l, nil
	}

	l := newLane()
	r.lanes[key] = l
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		l.run()
	}()
	return l, nil
}

// Close stops accepting work and waits for queued operations to drain.
// Safe to call once at editor shutdown.
func (r *Runner) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	for _, l := range r.lanes {
		l.close()
	}
	r.mu.Unlock()
	r.wg.Wait()
}
