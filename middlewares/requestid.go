package middlewares

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/kennel/internal"
	"github.com/dmitrymomot/kennel/pkg/logger"
)

type requestIDKey struct{}

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// RequestID reuses an incoming X-Request-ID or generates a UUID, stores it
// on the request context and echoes it in the response.
func RequestID() internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			id := c.Header(RequestIDHeader)
			if id == "" || len(id) > 128 {
				id = uuid.NewString()
			}

			c.Set(requestIDKey{}, id)
			c.SetHeader(RequestIDHeader, id)

			return next(c)
		}
	}
}

// GetRequestID returns the request ID, or "" outside RequestID.
func GetRequestID(c internal.Context) string {
	return internal.ContextValue[string](c, requestIDKey{})
}

// RequestIDExtractor adds "request_id" to every log record made with a
// request context.
func RequestIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if v, ok := ctx.Value(requestIDKey{}).(string); ok && v != "" {
			return slog.String("request_id", v), true
		}
		return slog.Attr{}, false
	}
}
