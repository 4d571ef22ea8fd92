// Package logger builds the process-wide slog.Logger: JSON or text on
// stdout, optionally teed to Sentry, with request-scoped attributes pulled
// from the context on every record.
package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// Config selects the output format, level and Sentry forwarding.
type Config struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`

	SentryDSN   string `env:"SENTRY_DSN"`
	Environment string `env:"APP_ENV" envDefault:"development"`
}

// ContextExtractor pulls one attribute out of a request context.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// New returns a logger writing to w and a flush function that must run
// before the process exits. Without a DSN, flush is a no-op.
// A Sentry init failure is logged and the logger falls back to w only.
func New(cfg Config, w io.Writer, extractors ...ContextExtractor) (*slog.Logger, func()) {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var out slog.Handler = slog.NewJSONHandler(w, opts)
	if strings.EqualFold(cfg.Format, "text") {
		out = slog.NewTextHandler(w, opts)
	}

	flush := func() {}
	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Environment,
			EnableLogs:  true,
		})
		if err != nil {
			slog.New(out).Error("sentry disabled", slog.String("error", err.Error()))
		} else {
			// Errors become Sentry issues; warnings are kept as searchable logs.
			sentryHandler := sentryslog.Option{
				EventLevel: []slog.Level{slog.LevelError},
				LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
			}.NewSentryHandler(context.Background())

			out = fanout{out, sentryHandler}
			flush = func() { sentry.Flush(2 * time.Second) }
		}
	}

	return slog.New(withContext(out, extractors...)), flush
}

// NewNope returns a logger that discards everything.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}
