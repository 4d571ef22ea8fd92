package middlewares_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/kennel/internal"
	"github.com/dmitrymomot/kennel/middlewares"
	"github.com/dmitrymomot/kennel/pkg/logger"
)

func TestRequestLog(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, _ := logger.New(logger.Config{Level: "debug", Format: "json"}, &buf)

	notFound := func(c internal.Context) error { return internal.ErrNotFound("no dog") }
	app := newTestApp(log, []internal.Middleware{middlewares.RequestLog()}, notFound, "/api/dogs/rex")

	get(t, app, "/api/dogs/rex")
	get(t, app, internal.LivenessPath)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1, "health probes are not logged")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &rec))
	require.Equal(t, "http request", rec["msg"])
	require.Equal(t, "WARN", rec["level"])
	require.Equal(t, "/api/dogs/rex", rec["path"])
	require.EqualValues(t, http.StatusNotFound, rec["status"])
	require.Equal(t, http.MethodGet, rec["method"])
}
