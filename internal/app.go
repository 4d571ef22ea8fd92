package internal

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/kennel/pkg/cookie"
	"github.com/dmitrymomot/kennel/pkg/health"
	"github.com/dmitrymomot/kennel/pkg/logger"
)

// Server timeouts.
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 60 * time.Second // image uploads
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20
	defaultShutdownTimeout   = 30 * time.Second
)

// Default health check paths.
const (
	LivenessPath  = "/health/live"
	ReadinessPath = "/health/ready"
)

// App wires routing, middleware, error handling and the server lifecycle.
// It is immutable after New.
type App struct {
	router                  chi.Router
	errorHandler            ErrorHandler
	notFoundHandler         HandlerFunc
	methodNotAllowedHandler HandlerFunc
	logger                  *slog.Logger
	cookies                 *cookie.Manager
	checks                  health.Checks
	httpMiddlewares         []func(http.Handler) http.Handler
	middlewares             []Middleware
	handlers                []Handler
}

// New creates an application.
//
//	app := internal.New(
//	    internal.WithLogger(log),
//	    internal.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
//	    internal.WithHandlers(handlers.NewAuth(authority, denylist)),
//	)
func New(opts ...Option) *App {
	a := &App{
		router:  chi.NewRouter(),
		logger:  logger.NewNope(),
		cookies: cookie.New(),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.setupRoutes()
	return a
}

// ServeHTTP makes the App usable with httptest and custom servers.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Run serves on addr and blocks until SIGINT/SIGTERM or a server error,
// then shuts down gracefully.
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := runConfig{
		address:         addr,
		logger:          a.logger,
		shutdownTimeout: defaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return runServer(a, cfg)
}

func (a *App) setupRoutes() {
	if a.notFoundHandler != nil {
		a.router.NotFound(a.wrapHandler(a.notFoundHandler))
	}
	if a.methodNotAllowedHandler != nil {
		a.router.MethodNotAllowed(a.wrapHandler(a.methodNotAllowedHandler))
	}

	a.router.Use(a.httpMiddlewares...)
	for _, mw := range a.middlewares {
		a.router.Use(a.adaptMiddleware(mw))
	}

	// Probes bypass the error handler and answer plain JSON.
	a.router.Get(LivenessPath, health.Liveness())
	a.router.Get(ReadinessPath, health.Readiness(a.checks, health.DefaultTimeout, a.logger))

	r := &routerAdapter{router: a.router, app: a}
	for _, h := range a.handlers {
		h.Routes(r)
	}
}

func (a *App) wrapHandler(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := newContext(w, r, a)
		if err := h(c); err != nil {
			a.handleError(c, err)
		}
	}
}

func (a *App) handleError(c Context, err error) {
	if c.Written() {
		c.LogWarn("handler error after response was written", slog.Any("error", err))
		return
	}
	if a.errorHandler != nil {
		if herr := a.errorHandler(c, err); herr != nil {
			c.LogError("error handler failed", slog.Any("error", herr))
		}
		return
	}
	http.Error(c.Response(), http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// adaptMiddleware converts a Middleware to chi's http.Handler form.
// Values stored with Context.Set travel to the next handler on the request.
func (a *App) adaptMiddleware(mw Middleware) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := mw(func(c Context) error {
				next.ServeHTTP(c.Response(), c.Request())
				return nil
			})
			c := newContext(w, r, a)
			if err := wrapped(c); err != nil {
				a.handleError(c, err)
			}
		})
	}
}

// StartupHook and ShutdownHook share this signature with db.Shutdown,
// redis.Shutdown and job.Manager.Start.
type hook = func(context.Context) error
