package services

import (
	"context"
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"time"
)

const retryBackoff = 500 * time.Millisecond

// withRetries runs fn up to retries+1 times. Cancellation is never retried.
func withRetries(ctx context.Context, retries int, fn func() error) error {
	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryBackoff * time.Duration(attempt)):
			}
		}
		err = fn()
		if err == nil || ctx.Err() != nil {
			return err
		}
	}
	return err
}

// submitAndWait runs fn on the pool and blocks until it returns.
func submitAndWait(pool outbound.TaskDispatcher, fn func() error) error {
	done := make(chan error, 1)
	if err := pool.Submit(func() {
		done <- fn()
	}); err != nil {
		return err
	}
	return <-done
}
