package middlewares_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/kennel/internal"
	"github.com/dmitrymomot/kennel/middlewares"
	"github.com/dmitrymomot/kennel/pkg/logger"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	echo := func(c internal.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"id": middlewares.GetRequestID(c)})
	}
	app := newTestApp(logger.NewNope(), []internal.Middleware{middlewares.RequestID()}, echo)

	t.Run("generated", func(t *testing.T) {
		t.Parallel()

		rec := get(t, app, "/")
		id := rec.Header().Get(middlewares.RequestIDHeader)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		require.JSONEq(t, `{"id":"`+id+`"}`, rec.Body.String())
	})

	t.Run("propagated", func(t *testing.T) {
		t.Parallel()

		rec := get(t, app, "/", func(r *http.Request) { r.Header.Set("X-Request-ID", "upstream-1") })
		require.Equal(t, "upstream-1", rec.Header().Get(middlewares.RequestIDHeader))
		require.JSONEq(t, `{"id":"upstream-1"}`, rec.Body.String())
	})
}

func TestRequestIDExtractor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, _ := logger.New(logger.Config{Level: "info", Format: "json"}, &buf, middlewares.RequestIDExtractor())

	h := func(c internal.Context) error {
		c.LogInfo("inside")
		return c.NoContent(http.StatusNoContent)
	}
	app := newTestApp(log, []internal.Middleware{middlewares.RequestID()}, h)
	get(t, app, "/", func(r *http.Request) { r.Header.Set("X-Request-ID", "abc") })

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	require.Equal(t, "inside", rec[slog.MessageKey])
	require.Equal(t, "abc", rec["request_id"])
}
