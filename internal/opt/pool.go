package opt

import (
	"context"
	"time"
)

// Pool bounds how many optimizations run at once so a single large instance
// cannot stall unrelated requests. Each job owns its matrix and tour, so the
// only shared state is the slot semaphore.
type Pool struct {
	opt     *Optimizer
	sem     chan struct{}
	timeout time.Duration
}

// NewPool returns a pool running at most workers concurrent optimizations.
// When timeout is positive each job gets a per-call deadline; 2-opt stops
// between passes at the deadline and the best tour found so far is returned.
func NewPool(workers int, timeout time.Duration, o *Optimizer) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if o == nil {
		o = &Optimizer{}
	}
	return &Pool{opt: o, sem: make(chan struct{}, workers), timeout: timeout}
}

// Optimize waits for a slot (honoring ctx) and runs one optimization.
func (p *Pool) Optimize(ctx context.Context, stops []Point) (Result, error) {
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
	defer func() { <-p.sem }()

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	return p.opt.Optimize(ctx, stops)
}
