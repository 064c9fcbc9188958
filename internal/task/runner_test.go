package task

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type testLogger struct{}

func (testLogger) Debug(msg string, keysAndValues ...any) {}
func (testLogger) Info(msg string, keysAndValues ...any)  {}
func (testLogger) Error(msg string, keysAndValues ...any) {}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	r, err := NewRunner(testLogger{})
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	t.Cleanup(r.Close)
	return r
}

func TestSubmitDeliversResult(t *testing.T) {
	r := newTestRunner(t)

	h := Submit(r, "map-load", "maps/a.json", func(ctx context.Context) (int, error) {
		return 42, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := h.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if res.Err != nil {
		t.Fatalf("operation error: %v", res.Err)
	}
	if res.Value != 42 {
		t.Errorf("Value = %d, want 42", res.Value)
	}

	// Completion is delivered exactly once.
	if _, ok := h.Poll(); ok {
		t.Error("Poll returned a second result")
	}
}

func TestSubmitPropagatesError(t *testing.T) {
	r := newTestRunner(t)
	opErr := errors.New("disk on fire")

	h := Submit(r, "map-save", "maps/a.json", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, opErr
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := h.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if !errors.Is(res.Err, opErr) {
		t.Errorf("Err = %v, want %v", res.Err, opErr)
	}
}

func TestPollWhileInFlight(t *testing.T) {
	r := newTestRunner(t)
	release := make(chan struct{})

	h := Submit(r, "map-load", "maps/a.json", func(ctx context.Context) (int, error) {
		<-release
		return 1, nil
	})

	if _, ok := h.Poll(); ok {
		t.Error("Poll returned a result for an in-flight operation")
	}
	close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := h.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}

func TestSamePathRunsInSubmissionOrder(t *testing.T) {
	r := newTestRunner(t)

	var mu sync.Mutex
	var order []int
	var handles []*Handle[struct{}]

	for i := 0; i < 10; i++ {
		i := i
		h := Submit(r, "map-save", "maps/a.json", func(ctx context.Context) (struct{}, error) {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return struct{}{}, nil
		})
		handles = append(handles, h)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, h := range handles {
		if _, err := h.Wait(ctx); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}

	for i, got := range order {
		if got != i {
			t.Fatalf("execution order %v, want submission order", order)
		}
	}
}

func TestPathsShareLaneAfterCleaning(t *testing.T) {
	r := newTestRunner(t)

	var mu sync.Mutex
	var order []string

	h1 := Submit(r, "map-save", "./maps/a.json", func(ctx context.Context) (struct{}, error) {
		mu.Lock()
		order = append(order, "first")
		mu.Unlock()
		return struct{}{}, nil
	})
	h2 := Submit(r, "map-load", "maps/a.json", func(ctx context.Context) (struct{}, error) {
		mu.Lock()
		order = append(order, "second")
		mu.Unlock()
		return struct{}{}, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := h1.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if _, err := h2.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("execution order %v, want [first second]", order)
	}
}

func TestDistinctPathsRunConcurrently(t *testing.T) {
	r := newTestRunner(t)

	blockA := make(chan struct{})
	h1 := Submit(r, "map-load", "maps/a.json", func(ctx context.Context) (struct{}, error) {
		<-blockA
		return struct{}{}, nil
	})
	h2 := Submit(r, "map-load", "maps/b.json", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, nil
	})

	// b completes while a is still blocked.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := h2.Wait(ctx); err != nil {
		t.Fatalf("Wait(b): %v", err)
	}

	close(blockA)
	if _, err := h1.Wait(ctx); err != nil {
		t.Fatalf("Wait(a): %v", err)
	}
}

func TestAbandonedResultIsDiscarded(t *testing.T) {
	r, err := NewRunner(testLogger{})
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}

	release := make(chan struct{})
	h := Submit(r, "map-load", "maps/a.json", func(ctx context.Context) (int, error) {
		<-release
		return 42, nil
	})

	h.Abandon()
	close(release)

	// Close drains the lane, so the completion has been processed.
	r.Close()

	if res, ok := h.Poll(); ok {
		t.Errorf("abandoned handle delivered %v", res)
	}
}

// A result that was already delivered becomes unobservable once the
// handle is abandoned.
func TestAbandonHidesDeliveredResult(t *testing.T) {
	r, err := NewRunner(testLogger{})
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}

	h := Submit(r, "map-load", "maps/a.json", func(ctx context.Context) (int, error) {
		return 42, nil
	})

	// Close drains the lane, so the result is sitting in the handle.
	r.Close()
	h.Abandon()

	if res, ok := h.Poll(); ok {
		t.Errorf("abandoned handle delivered %+v", res)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := h.Wait(ctx); !errors.Is(err, ErrAbandoned) {
		t.Errorf("Wait error = %v, want ErrAbandoned", err)
	}
}

// Submission must return promptly no matter how much work is already
// queued behind the path; only the background lane goroutine may wait.
func TestSubmitDoesNotBlockOnDeepQueue(t *testing.T) {
	r := newTestRunner(t)

	release := make(chan struct{})
	first := Submit(r, "map-save", "maps/a.json", func(ctx context.Context) (struct{}, error) {
		<-release
		return struct{}{}, nil
	})

	var handles []*Handle[struct{}]
	for i := 0; i < 100; i++ {
		handles = append(handles, Submit(r, "map-save", "maps/a.json", func(ctx context.Context) (struct{}, error) {
			return struct{}{}, nil
		}))
	}
	close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := first.Wait(ctx); err != nil {
		t.Fatalf("Wait(first): %v", err)
	}
	for _, h := range handles {
		if _, err := h.Wait(ctx); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}
}

func TestSubmitAfterClose(t *testing.T) {
	r, err := NewRunner(testLogger{})
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	r.Close()

	h := Submit(r, "map-load", "maps/a.json", func(ctx context.Context) (int, error) {
		t.Error("operation ran on a closed runner")
		return 0, nil
	})

	res, ok := h.Poll()
	if !ok {
		t.Fatal("closed-runner submit should fail immediately")
	}
	if res.Err == nil {
		t.Error("closed-runner submit should deliver an error")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	r, err := NewRunner(testLogger{})
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	r.Close()
	r.Close()
}
