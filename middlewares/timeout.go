package middlewares

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/kennel/internal"
)

// DefaultTimeout applies when Timeout is given a non-positive duration.
const DefaultTimeout = 30 * time.Second

// Timeout puts a deadline on the request context. When it passes before
// the handler returns, a *TimeoutError is returned; the handler keeps
// running until it observes ctx.Done().
func Timeout(d time.Duration) internal.Middleware {
	if d <= 0 {
		d = DefaultTimeout
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			ctx, cancel := context.WithTimeout(c.Context(), d)
			defer cancel()

			c.SetContext(ctx)

			done := make(chan error, 1)
			go func() {
				// Recover cannot see panics from this goroutine.
				defer func() {
					if r := recover(); r != nil {
						done <- &PanicError{Value: r}
					}
				}()
				done <- next(c)
			}()

			select {
			case err := <-done:
				return err
			case <-ctx.Done():
				if errors.Is(ctx.Err(), context.DeadlineExceeded) {
					c.LogWarn("request timeout", "timeout", d.String())
					return &TimeoutError{Duration: d}
				}
				return ctx.Err()
			}
		}
	}
}
