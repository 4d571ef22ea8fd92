package middlewares

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/kennel/internal"
)

// RequestLog logs one record per request after it completes.
// 5xx log at error level, 4xx at warn, the rest at info.
// Health probes are skipped.
func RequestLog() internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			path := c.Request().URL.Path
			if path == internal.LivenessPath || path == internal.ReadinessPath {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			rw := c.ResponseWriter()
			status := rw.Status()
			level := slog.LevelInfo
			switch {
			case status >= 500:
				level = slog.LevelError
			case status >= 400:
				level = slog.LevelWarn
			}

			c.Logger().Log(c.Context(), level, "http request",
				slog.String("method", c.Request().Method),
				slog.String("path", path),
				slog.Int("status", status),
				slog.Int64("bytes", rw.Size()),
				slog.String("remote_ip", clientIP(c.Request())),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			)
			return err
		}
	}
}
