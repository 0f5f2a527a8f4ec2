package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"
)

// errBuildPanic marks a build that panicked instead of returning.
var errBuildPanic = errors.New("build panicked")

// errSlotWait marks a context that expired while waiting for a worker slot,
// before the build started. No output file exists in this case.
var errSlotWait = errors.New("waiting for a build worker")

// pool bounds the number of concurrently executing backend builds. Builds
// are opaque blocking calls with no cancellation hook, so each one runs on
// its own goroutine; the pool only limits how many run at once and how long
// the caller waits for each.
type pool struct {
	sem *semaphore.Weighted
}

func newPool(workers int) *pool {
	return &pool{sem: semaphore.NewWeighted(int64(workers))}
}

// run executes build off the caller's path, waiting for completion, the
// context, or the timeout, whichever comes first. On timeout or
// cancellation the build goroutine is left to finish on its own — the
// underlying kernel calls are not preemptible — and its eventual result is
// discarded. A panic inside build is recovered and reported as an error
// wrapping errBuildPanic.
func (p *pool) run(ctx context.Context, timeout time.Duration, build func() error) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("%w: %w", errSlotWait, err)
	}

	done := make(chan error, 1)
	go func() {
		defer p.sem.Release(1)
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("%w: %v", errBuildPanic, r)
			}
		}()
		done <- build()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
