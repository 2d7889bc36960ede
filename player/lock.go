package player

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// lockCounters outlive any single lock so Stats survive a Close and re-Init.
type lockCounters struct {
	acquired atomic.Uint64
	busy     atomic.Uint64
}

// opLock is the playback lock: a mutex whose acquisition gives up after a timeout,
// so a wedged holder can never deadlock the controller against its own restart path.
type opLock struct {
	sem      *semaphore.Weighted
	timeout  time.Duration
	counters *lockCounters
}

func newOpLock(timeout time.Duration, counters *lockCounters) *opLock {
	return &opLock{
		sem:      semaphore.NewWeighted(1),
		timeout:  timeout,
		counters: counters,
	}
}

// acquire waits at most the lock timeout. It returns ErrBusy when the wait times
// out and the caller's own context error when ctx ends first.
func (l *opLock) acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	if err := l.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		l.counters.busy.Add(1)
		return ErrBusy
	}

	l.counters.acquired.Add(1)
	return nil
}

func (l *opLock) release() {
	l.sem.Release(1)
}
