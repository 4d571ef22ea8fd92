package internal

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/kennel/pkg/cookie"
	"github.com/dmitrymomot/kennel/pkg/health"
)

// Option configures the application.
type Option func(*App)

// WithLogger sets the application logger. Nil keeps the no-op default.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithCookies replaces the cookie manager, e.g. to enable Secure in production.
func WithCookies(m *cookie.Manager) Option {
	return func(a *App) {
		if m != nil {
			a.cookies = m
		}
	}
}

// WithMiddleware adds global middleware, applied in the order given.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithHTTPMiddleware adds plain net/http middleware ahead of every
// Middleware, e.g. chi's RealIP.
func WithHTTPMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(a *App) {
		a.httpMiddlewares = append(a.httpMiddlewares, mw...)
	}
}

// WithHandlers registers route-declaring handlers.
func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
}

// WithErrorHandler sets the renderer for handler errors.
// Without one, errors become a bare 500.
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		a.errorHandler = h
	}
}

func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.notFoundHandler = h
	}
}

func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.methodNotAllowedHandler = h
	}
}

// WithReadinessCheck adds a named check to the readiness probe.
//
//	internal.WithReadinessCheck("db", db.Healthcheck(pool))
func WithReadinessCheck(name string, fn health.CheckFunc) Option {
	return func(a *App) {
		if a.checks == nil {
			a.checks = make(health.Checks)
		}
		a.checks[name] = fn
	}
}
