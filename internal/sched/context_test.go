package sched

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestBlockingJoinsAllSubmittedTasks(t *testing.T) {
	ctx := NewContext("test", 4)
	var completed atomic.Int32

	ctx.Blocking(func(scope *Scope) {
		for i := 0; i < 20; i++ {
			scope.Async(func() error {
				completed.Add(1)
				return nil
			})
		}
	})

	if got := completed.Load(); got != 20 {
		t.Errorf("completed = %d, want 20", got)
	}
}

func TestAsyncRoutesErrorsToHandler(t *testing.T) {
	ctx := NewContext("test", 2)
	var mu sync.Mutex
	var errs []error
	ctx.SetUncaughtExceptionHandler(func(err error) {
		mu.Lock()
		defer mu.Unlock()
		errs = append(errs, err)
	})

	ctx.Blocking(func(scope *Scope) {
		scope.Async(func() error { return errors.New("boom") })
		scope.Async(func() error { return nil })
	})

	mu.Lock()
	defer mu.Unlock()
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	if errs[0].Error() != "boom" {
		t.Errorf("error = %v, want boom", errs[0])
	}
}

func TestAsyncRoutesPanicsToHandler(t *testing.T) {
	ctx := NewContext("test", 1)
	var caught atomic.Bool
	ctx.SetUncaughtExceptionHandler(func(err error) {
		caught.Store(true)
	})

	ctx.Blocking(func(scope *Scope) {
		scope.Async(func() error { panic("unexpected") })
	})

	if !caught.Load() {
		t.Fatal("expected panic to be routed to the uncaught-exception handler")
	}
}

func TestContextSerializesAtCapacityOne(t *testing.T) {
	ctx := NewContext("io", 1)
	var concurrent atomic.Int32
	var maxConcurrent atomic.Int32

	ctx.Blocking(func(scope *Scope) {
		for i := 0; i < 10; i++ {
			scope.Async(func() error {
				n := concurrent.Add(1)
				for {
					m := maxConcurrent.Load()
					if n <= m || maxConcurrent.CompareAndSwap(m, n) {
						break
					}
				}
				concurrent.Add(-1)
				return nil
			})
		}
	})

	if got := maxConcurrent.Load(); got != 1 {
		t.Errorf("max concurrent tasks = %d, want 1", got)
	}
}
