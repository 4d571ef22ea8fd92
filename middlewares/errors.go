package middlewares

import (
	"fmt"
	"time"
)

// PanicError is a recovered panic, returned by Recover.
type PanicError struct {
	Value any
	Stack []byte // nil when stack capture is disabled
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// TimeoutError is returned by Timeout when the handler overran.
type TimeoutError struct {
	Duration time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timeout after %s", e.Duration)
}
