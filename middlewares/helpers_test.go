package middlewares_test

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrymomot/kennel/internal"
	"github.com/dmitrymomot/kennel/middlewares"
)

// routes registers the same handler for every path a test touches.
type routes struct {
	paths []string
	h     internal.HandlerFunc
}

func (r routes) Routes(rt internal.Router) {
	for _, p := range r.paths {
		rt.GET(p, r.h)
		rt.POST(p, r.h)
	}
}

// errorStatus renders just enough of each error type to assert on.
func errorStatus(c internal.Context, err error) error {
	var (
		pe *middlewares.PanicError
		te *middlewares.TimeoutError
	)
	switch {
	case errors.As(err, &pe):
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "panic"})
	case errors.As(err, &te):
		return c.JSON(http.StatusGatewayTimeout, map[string]string{"error": "timeout"})
	}
	if he := internal.AsHTTPError(err); he != nil {
		return c.JSON(he.Code, map[string]string{"error": he.ErrorCode})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func newTestApp(log *slog.Logger, mw []internal.Middleware, h internal.HandlerFunc, paths ...string) *internal.App {
	if len(paths) == 0 {
		paths = []string{"/"}
	}
	return internal.New(
		internal.WithLogger(log),
		internal.WithMiddleware(mw...),
		internal.WithErrorHandler(errorStatus),
		internal.WithHandlers(routes{paths: paths, h: h}),
	)
}

func ok(c internal.Context) error {
	return c.NoContent(http.StatusNoContent)
}

func get(t *testing.T, h http.Handler, path string, opts ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, opt := range opts {
		opt(req)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
