package codec

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Pool bounds concurrent codec work for a single pipeline run. It is
// acquired at run start and must be closed on every exit path; Close
// is idempotent and cancels work that has not started yet.
type Pool struct {
	group  *errgroup.Group
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

func NewPool(ctx context.Context, size int) *Pool {
	ctx, cancel := context.WithCancel(ctx)
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(size)

	return &Pool{
		group:  group,
		ctx:    gctx,
		cancel: cancel,
	}
}

// Go schedules fn on the pool. Tasks scheduled after the run failed or
// the pool was closed return immediately with the cancellation error.
func (p *Pool) Go(fn func(ctx context.Context) error) {
	p.group.Go(func() error {
		if err := p.ctx.Err(); err != nil {
			return err
		}
		return fn(p.ctx)
	})
}

// Wait joins all scheduled work and returns the first task error.
func (p *Pool) Wait() error {
	return p.group.Wait()
}

// Close releases the pool. Safe to call more than once.
func (p *Pool) Close() {
	p.once.Do(p.cancel)
}
