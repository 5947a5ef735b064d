// Package retry implements a fixed-delay retry policy composed explicitly at
// call sites.
package retry

import (
	"context"
	"errors"
	"time"
)

// Policy retries an operation a bounded number of times with a fixed delay
// between attempts. The zero value performs a single attempt.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
}

// Do runs op until it succeeds or the attempt budget is exhausted, returning
// the last error. Context cancellation is never retried.
func (p Policy) Do(ctx context.Context, op func() error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if werr := wait(ctx, p.Delay); werr != nil {
				return werr
			}
		}
		if err = op(); err == nil {
			return nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
	}
	return err
}

func wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
