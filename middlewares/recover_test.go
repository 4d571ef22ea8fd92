package middlewares_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/kennel/internal"
	"github.com/dmitrymomot/kennel/middlewares"
	"github.com/dmitrymomot/kennel/pkg/logger"
)

func TestRecover(t *testing.T) {
	t.Parallel()

	boom := func(c internal.Context) error { panic("boom") }
	app := newTestApp(logger.NewNope(), []internal.Middleware{middlewares.Recover()}, boom)

	rec := get(t, app, "/")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"error":"panic"}`, rec.Body.String())
}

func TestTimeout(t *testing.T) {
	t.Parallel()

	t.Run("slow handler", func(t *testing.T) {
		t.Parallel()

		slow := func(c internal.Context) error {
			select {
			case <-c.Done():
			case <-time.After(time.Second):
			}
			return nil
		}
		app := newTestApp(logger.NewNope(), []internal.Middleware{middlewares.Timeout(10 * time.Millisecond)}, slow)

		rec := get(t, app, "/")
		require.Equal(t, http.StatusGatewayTimeout, rec.Code)
	})

	t.Run("fast handler", func(t *testing.T) {
		t.Parallel()

		app := newTestApp(logger.NewNope(), []internal.Middleware{middlewares.Timeout(time.Second)}, ok)
		rec := get(t, app, "/")
		require.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("panic inside timeout", func(t *testing.T) {
		t.Parallel()

		boom := func(c internal.Context) error { panic("late boom") }
		app := newTestApp(logger.NewNope(), []internal.Middleware{middlewares.Timeout(time.Second)}, boom)
		rec := get(t, app, "/")
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
