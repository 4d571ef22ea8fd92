package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

type ctxKey struct{}

func requestID(ctx context.Context) (slog.Attr, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	if !ok {
		return slog.Attr{}, false
	}
	return slog.String("request_id", id), true
}

func TestNew_ContextExtractor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, flush := New(Config{Level: "info", Format: "json"}, &buf, requestID, nil)
	defer flush()

	ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")
	log.With(slog.String("component", "test")).InfoContext(ctx, "hello")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "hello", rec["msg"])
	require.Equal(t, "req-1", rec["request_id"])
	require.Equal(t, "test", rec["component"])
}

func TestNew_Level(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, _ := New(Config{Level: "warn", Format: "text"}, &buf)

	log.Info("dropped")
	require.Zero(t, buf.Len())

	log.Warn("kept")
	require.Contains(t, buf.String(), "msg=kept")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	require.Equal(t, slog.LevelDebug, parseLevel("debug"))
	require.Equal(t, slog.LevelError, parseLevel("ERROR"))
	require.Equal(t, slog.LevelInfo, parseLevel("nonsense"))
}

func TestFanout(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	h := fanout{
		slog.NewJSONHandler(&a, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	}
	log := slog.New(h)

	log.Info("info")
	require.NotZero(t, a.Len())
	require.Zero(t, b.Len())

	log.Error("error")
	require.Contains(t, b.String(), `"msg":"error"`)
}

func TestNewNope(t *testing.T) {
	t.Parallel()

	require.NotPanics(t, func() { NewNope().Error("ignored") })
}
