// Package workerpool runs jobs on a fixed number of goroutines and collects
// their errors.
package workerpool

import (
	"sync"

	"github.com/hyp3rd/ewrap"
)

// JobFunc is a function that can be enqueued in a worker pool.
type JobFunc func() error

// WorkerPool is a pool of workers that can execute jobs concurrently.
// A pool is used once: enqueue jobs, then Shutdown.
type WorkerPool struct {
	workers int
	jobs    chan JobFunc
	wg      sync.WaitGroup
	once    sync.Once

	mu   sync.Mutex
	errs *ewrap.ErrorGroup
}

// New creates a worker pool with the given number of workers (at least one).
func New(workers int) *WorkerPool {
	workers = max(1, workers)

	pool := &WorkerPool{
		workers: workers,
		jobs:    make(chan JobFunc, workers),
		errs:    ewrap.NewErrorGroup(),
	}

	pool.wg.Add(workers)

	for range workers {
		go pool.worker()
	}

	return pool
}

// Workers returns the number of workers.
func (pool *WorkerPool) Workers() int { return pool.workers }

// Enqueue adds a job to the worker pool. It blocks while every worker is
// busy and the queue is full. Enqueue must not be called after Shutdown.
func (pool *WorkerPool) Enqueue(job JobFunc) {
	pool.jobs <- job
}

// Shutdown stops accepting jobs, waits for the queued ones to finish and
// returns their errors, if any.
func (pool *WorkerPool) Shutdown() error {
	pool.once.Do(func() {
		close(pool.jobs)
	})

	pool.wg.Wait()

	pool.mu.Lock()
	defer pool.mu.Unlock()

	return pool.errs.ErrorOrNil()
}

// worker is the main loop executed by each worker goroutine.
func (pool *WorkerPool) worker() {
	defer pool.wg.Done()

	for job := range pool.jobs {
		err := job()
		if err != nil {
			pool.mu.Lock()
			pool.errs.Add(err)
			pool.mu.Unlock()
		}
	}
}
