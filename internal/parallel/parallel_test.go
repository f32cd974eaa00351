package parallel

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestJoin(t *testing.T) {
	cfg := DefaultConfig()

	var counter int64
	tasks := make([]func() error, 8)
	for i := range tasks {
		tasks[i] = func() error {
			atomic.AddInt64(&counter, 1)
			return nil
		}
	}

	if err := Join(cfg, tasks...); err != nil {
		t.Fatalf("Join returned unexpected error: %v", err)
	}
	if counter != int64(len(tasks)) {
		t.Errorf("Expected %d tasks to run, got %d", len(tasks), counter)
	}
}

func TestJoinSequentialFallback(t *testing.T) {
	var order []int
	err := Join(Config{Enabled: false},
		func() error { order = append(order, 0); return nil },
		func() error { order = append(order, 1); return nil },
	)
	if err != nil {
		t.Fatalf("Join returned unexpected error: %v", err)
	}
	if len(order) != 2 || order[0] != 0 || order[1] != 1 {
		t.Errorf("Sequential Join ran out of order: %v", order)
	}
}

func TestJoinFirstErrorWins(t *testing.T) {
	errA := errors.New("a")
	errB := errors.New("b")

	// The reported error must be the first failure in task order even when
	// the later task finishes first.
	err := Join(Config{Enabled: true},
		func() error { return errA },
		func() error { return errB },
	)
	if !errors.Is(err, errA) {
		t.Errorf("Join error = %v, want %v", err, errA)
	}
}
