package middlewares

import (
	"runtime"

	"github.com/dmitrymomot/kennel/internal"
)

const stackSize = 4096

// Recover turns a panic into a *PanicError for the app's error handler.
func Recover() internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					stack := make([]byte, stackSize)
					stack = stack[:runtime.Stack(stack, false)]

					c.LogError("panic recovered", "panic", r, "stack", string(stack))
					err = &PanicError{Value: r, Stack: stack}
				}
			}()

			return next(c)
		}
	}
}
