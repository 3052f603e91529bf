package peerstore

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// DefaultBlockingWorkers ...
const DefaultBlockingWorkers = 2

// Pool runs blocking functions, typically file system calls, away from the
// caller's goroutine. At most the configured number of functions run at the
// same time and the others wait for a slot.
type Pool struct {
	sem *semaphore.Weighted
	wg  sync.WaitGroup
}

// NewPool creates a Pool with room for the given number of concurrent
// workers. Values below 1 are replaced by 1.
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		sem: semaphore.NewWeighted(int64(workers)),
	}
}

// Go schedules fn and returns immediately. fn runs to completion whether or
// not anyone waits for it.
func (p *Pool) Go(fn func()) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		// Acquire only fails when the context is done.
		_ = p.sem.Acquire(context.Background(), 1)
		defer p.sem.Release(1)

		fn()
	}()
}

// Wait blocks until every scheduled function has returned.
func (p *Pool) Wait() {
	p.wg.Wait()
}
