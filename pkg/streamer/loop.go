package streamer

import (
	"context"
	"log"
	"time"
)

// Executor is the slice of the Streamer the host loop drives.
type Executor interface {
	CanExecute() bool
	Execute(ctx context.Context) error
}

const (
	initialDelay = time.Second
	maxDelay     = 10 * time.Second
)

// Loop is the process-wide playback driver. One goroutine runs it; it is
// the only caller of CanExecute/Execute, so stream steps never overlap.
type Loop struct {
	executor Executor

	// sleep is swapped out by tests to observe the backoff sequence.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewLoop creates a host loop around an executor.
func NewLoop(executor Executor) *Loop {
	return &Loop{
		executor: executor,
		sleep:    sleepCtx,
	}
}

// Run polls the executor until the context is cancelled. While idle it
// backs off additively from 1s to a 10s cap; the delay snaps back to 1s
// the moment a tick does productive work.
func (l *Loop) Run(ctx context.Context) {
	delay := initialDelay
	for {
		if ctx.Err() != nil {
			return
		}

		if l.executor.CanExecute() {
			if err := l.executor.Execute(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("Streamer execute failed: %v", err)
			}
			delay = initialDelay
			continue
		}

		if err := l.sleep(ctx, delay); err != nil {
			return
		}
		delay += time.Second
		if delay > maxDelay {
			delay = maxDelay
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
