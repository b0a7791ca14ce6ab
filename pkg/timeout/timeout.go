// Package timeout bounds blocking store calls. The first of result or deadline
// wins; a result that arrives after the deadline is dropped.
package timeout

import (
	"context"
	"errors"
	"time"
)

// IO is the bound applied to every ledger, ticket store and registry call.
const IO = 10 * time.Second

// ErrTimeout is returned when fn does not complete within the bound.
var ErrTimeout = errors.New("operation timed out")

type result[T any] struct {
	value T
	err   error
}

// Do runs fn with a context that is cancelled after d. If fn has not returned
// by then Do returns ErrTimeout and fn's eventual result is discarded.
func Do[T any](ctx context.Context, d time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	done := make(chan result[T], 1)
	go func() {
		v, err := fn(ctx)
		done <- result[T]{value: v, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && errors.Is(r.err, context.DeadlineExceeded) {
			var zero T
			return zero, ErrTimeout
		}
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, ErrTimeout
		}
		return zero, ctx.Err()
	}
}
