package analysis

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// DefaultWorkers bounds concurrent model calls when no size is configured.
const DefaultWorkers = 3

// Pool bounds the number of model calls in flight across the whole process.
// One Pool is created at startup and shared by every request.
type Pool struct {
	sem  *semaphore.Weighted
	size int
}

func NewPool(size int) *Pool {
	if size <= 0 {
		size = DefaultWorkers
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size)), size: size}
}

// Do runs fn once a slot is free. It returns ctx.Err() without running fn
// when ctx ends first.
func (p *Pool) Do(ctx context.Context, fn func()) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer p.sem.Release(1)
	fn()
	return nil
}

func (p *Pool) Size() int { return p.size }
