package perf

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/multierr"
)

func TestWorkerPoolSubmit(t *testing.T) {
	pool, err := NewWorkerPool(4)
	if err != nil {
		t.Fatalf("NewWorkerPool() error = %v", err)
	}
	pool.Start()
	defer pool.Stop()

	var count atomic.Int32
	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		err := pool.Submit(context.Background(), func() {
			if count.Add(1) == 4 {
				close(done)
			}
		})
		if err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tasks did not complete")
	}
}

func TestWorkerPoolInvalidSize(t *testing.T) {
	if _, err := NewWorkerPool(0); err == nil {
		t.Error("expected error for zero workers")
	}
	if _, err := NewWorkerPool(-1); err == nil {
		t.Error("expected error for negative workers")
	}
}

func TestWorkerPoolStop(t *testing.T) {
	pool, _ := NewWorkerPool(2)
	pool.Start()
	pool.Stop()

	if err := pool.Submit(context.Background(), func() {}); err == nil {
		t.Error("Submit() after Stop() should fail")
	}
	// Stop is idempotent.
	pool.Stop()
}

func TestWorkerPoolStopRunsQueuedTasks(t *testing.T) {
	pool, _ := NewWorkerPool(1)
	pool.Start()

	var count atomic.Int32
	for i := 0; i < 2; i++ {
		if err := pool.Submit(context.Background(), func() {
			time.Sleep(10 * time.Millisecond)
			count.Add(1)
		}); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}
	pool.Stop()

	if count.Load() != 2 {
		t.Errorf("completed tasks = %d, want 2", count.Load())
	}
}

func TestWorkerPoolSubmitDuringStop(t *testing.T) {
	// Concurrent Submit and Stop must never send on a closed queue.
	for i := 0; i < 50; i++ {
		pool, _ := NewWorkerPool(2)
		pool.Start()

		var wg sync.WaitGroup
		for j := 0; j < 4; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for k := 0; k < 20; k++ {
					if err := pool.Submit(context.Background(), func() {}); err != nil {
						return
					}
				}
			}()
		}
		pool.Stop()
		wg.Wait()
	}
}

func TestWorkerPoolSubmitCancelledContext(t *testing.T) {
	pool, _ := NewWorkerPool(1)
	pool.Start()
	defer pool.Stop()

	// Fill the worker and the queue so the next Submit blocks.
	block := make(chan struct{})
	defer close(block)
	for i := 0; i < 3; i++ {
		if err := pool.Submit(context.Background(), func() { <-block }); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := pool.Submit(ctx, func() {}); err == nil {
		t.Error("Submit() with expired context should fail")
	}
}

func TestWorkerPoolPanicRecovery(t *testing.T) {
	pool, _ := NewWorkerPool(1)
	pool.Start()
	defer pool.Stop()

	if err := pool.Submit(context.Background(), func() { panic("boom") }); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	// The worker must survive the panic and keep processing.
	done := make(chan struct{})
	if err := pool.Submit(context.Background(), func() { close(done) }); err != nil {
		t.Fatalf("Submit() after panic error = %v", err)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not recover from panic")
	}
}

func TestMapPreservesOrder(t *testing.T) {
	items := []int{5, 3, 8, 1, 9, 2}
	results, err := Map(context.Background(), items, func(n int) (int, error) {
		time.Sleep(time.Duration(n) * time.Millisecond)
		return n * 2, nil
	}, 4)
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}
	for i, n := range items {
		if results[i] != n*2 {
			t.Errorf("results[%d] = %d, want %d", i, results[i], n*2)
		}
	}
}

func TestMapError(t *testing.T) {
	items := []int{1, 2, 3}
	_, err := Map(context.Background(), items, func(n int) (int, error) {
		if n == 2 {
			return 0, fmt.Errorf("bad item")
		}
		return n, nil
	}, 2)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestBatchCollectsErrors(t *testing.T) {
	items := []int{1, 2, 3, 4}
	results, err := Batch(context.Background(), items, func(n int) (int, error) {
		if n%2 == 0 {
			return 0, fmt.Errorf("even item %d", n)
		}
		return n * 10, nil
	}, 2)
	if err == nil {
		t.Fatal("expected joined error")
	}
	if got := len(multierr.Errors(err)); got != 2 {
		t.Errorf("error count = %d, want 2", got)
	}
	if results[0] != 10 || results[2] != 30 {
		t.Errorf("successful results = %v, want 10 and 30 at indexes 0 and 2", results)
	}
	if results[1] != 0 || results[3] != 0 {
		t.Errorf("failed results = %v, want zero values at indexes 1 and 3", results)
	}
}

func TestBatchAllSucceed(t *testing.T) {
	items := []string{"a", "b", "c"}
	results, err := Batch(context.Background(), items, func(s string) (string, error) {
		return s + s, nil
	}, 2)
	if err != nil {
		t.Fatalf("Batch() error = %v", err)
	}
	want := []string{"aa", "bb", "cc"}
	for i, r := range results {
		if r != want[i] {
			t.Errorf("results[%d] = %q, want %q", i, r, want[i])
		}
	}
}

func TestMapBoundedConcurrency(t *testing.T) {
	var active, peak atomic.Int32
	items := make([]int, 20)

	_, err := Map(context.Background(), items, func(int) (int, error) {
		cur := active.Add(1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		active.Add(-1)
		return 0, nil
	}, 3)
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}
	if peak.Load() > 3 {
		t.Errorf("peak concurrency = %d, want <= 3", peak.Load())
	}
}

func TestBatchBoundedConcurrency(t *testing.T) {
	var active, peak atomic.Int32
	items := make([]int, 20)

	_, err := Batch(context.Background(), items, func(int) (int, error) {
		cur := active.Add(1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		active.Add(-1)
		return 0, nil
	}, 3)
	if err != nil {
		t.Fatalf("Batch() error = %v", err)
	}
	if peak.Load() > 3 {
		t.Errorf("peak concurrency = %d, want <= 3", peak.Load())
	}
}
