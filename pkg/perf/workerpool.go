// Package perf provides concurrency utilities for batched API calls.
package perf

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"
)

// queueMultiplier sizes the task queue relative to maxWorkers.
const queueMultiplier = 2

// WorkerPool manages a pool of goroutines for concurrent task execution.
type WorkerPool struct {
	maxWorkers int
	taskQueue  chan func()
	wg         sync.WaitGroup
	mu         sync.RWMutex
	stopped    bool
	activeJobs atomic.Int32
}

// NewWorkerPool creates a new worker pool with the specified maximum
// number of workers.
func NewWorkerPool(maxWorkers int) (*WorkerPool, error) {
	if maxWorkers <= 0 {
		return nil, fmt.Errorf("maxWorkers must be positive, got %d", maxWorkers)
	}
	return &WorkerPool{
		maxWorkers: maxWorkers,
		taskQueue:  make(chan func(), maxWorkers*queueMultiplier),
	}, nil
}

// Start starts the worker pool.
func (p *WorkerPool) Start() {
	for i := 0; i < p.maxWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()

	for task := range p.taskQueue {
		p.activeJobs.Add(1)
		func() {
			defer p.activeJobs.Add(-1)
			defer func() {
				// A panicking task must not take the worker down.
				recover()
			}()
			task()
		}()
	}
}

// Submit enqueues a task, blocking until queue space is available or
// ctx is cancelled. Returns an error if the pool is stopped, the task
// is nil, or the context ends first.
func (p *WorkerPool) Submit(ctx context.Context, task func()) error {
	if task == nil {
		return fmt.Errorf("task must not be nil")
	}

	// The read lock keeps Stop from closing the queue under an
	// in-flight send.
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return fmt.Errorf("worker pool is stopped")
	}

	select {
	case p.taskQueue <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop stops the worker pool gracefully, running already queued tasks
// to completion. Safe to call multiple times.
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.taskQueue)
	p.mu.Unlock()

	p.wg.Wait()
}

// ActiveJobs returns the number of currently running tasks.
func (p *WorkerPool) ActiveJobs() int {
	return int(p.activeJobs.Load())
}

// QueueSize returns the number of queued tasks.
func (p *WorkerPool) QueueSize() int {
	return len(p.taskQueue)
}

// Map applies fn to each element of items concurrently, preserving
// input order in the results. The first error cancels remaining work.
func Map[T, R any](ctx context.Context, items []T, fn func(T) (R, error), concurrency int) ([]R, error) {
	if len(items) == 0 {
		return nil, nil
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]R, len(items))
	errCh := make(chan error, len(items))
	sem := make(chan struct{}, concurrency)

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(idx int, it T) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			result, err := fn(it)
			if err != nil {
				select {
				case errCh <- fmt.Errorf("item %d: %w", idx, err):
					cancel()
				case <-ctx.Done():
				}
				return
			}

			select {
			case <-ctx.Done():
				return
			default:
			}
			results[idx] = result
		}(i, item)
	}

	go func() {
		wg.Wait()
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return nil, err
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return results, nil
}

// Batch applies fn to each element of items concurrently on a worker
// pool, preserving input order in the results. Unlike Map, a failing
// item does not stop the others; all per-item errors are joined and
// returned alongside the partial results. Results for failed items
// hold the zero value of R.
func Batch[T, R any](ctx context.Context, items []T, fn func(T) (R, error), concurrency int) ([]R, error) {
	if len(items) == 0 {
		return nil, nil
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	pool, err := NewWorkerPool(concurrency)
	if err != nil {
		return nil, err
	}
	pool.Start()
	defer pool.Stop()

	results := make([]R, len(items))
	itemErrs := make([]error, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		idx, it := i, item
		wg.Add(1)
		err := pool.Submit(ctx, func() {
			defer wg.Done()
			result, err := fn(it)
			if err != nil {
				itemErrs[idx] = fmt.Errorf("item %d: %w", idx, err)
				return
			}
			results[idx] = result
		})
		if err != nil {
			wg.Done()
			itemErrs[idx] = fmt.Errorf("item %d: %w", idx, err)
		}
	}
	wg.Wait()

	var combined error
	for _, err := range itemErrs {
		combined = multierr.Append(combined, err)
	}
	return results, combined
}
