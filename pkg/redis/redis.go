// Package redis opens the shared go-redis client used by the token
// denylist and the public read cache.
package redis

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection settings.
// An empty URL means Redis is not used and callers fall back to
// in-memory caches.
type Config struct {
	URL            string        `env:"REDIS_URL"`
	PoolSize       int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	ConnectRetries int           `env:"REDIS_CONNECT_RETRIES" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
	Timeout        time.Duration `env:"REDIS_TIMEOUT" envDefault:"3s"`
}

// Enabled reports whether a connection URL is configured.
func (c Config) Enabled() bool {
	return c.URL != ""
}

// Open parses the URL and pings the server, retrying with a linear backoff.
// Both redis:// and rediss:// schemes are accepted.
func Open(ctx context.Context, cfg Config) (redis.UniversalClient, error) {
	if cfg.URL == "" {
		return nil, ErrEmptyConnectionURL
	}
	if !strings.HasPrefix(cfg.URL, "redis://") && !strings.HasPrefix(cfg.URL, "rediss://") {
		return nil, ErrInvalidURL
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, errors.Join(ErrInvalidURL, err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.Timeout > 0 {
		opts.DialTimeout = cfg.Timeout
		opts.ReadTimeout = cfg.Timeout
		opts.WriteTimeout = cfg.Timeout
	}

	var lastErr error
	for i := range max(cfg.ConnectRetries, 1) {
		client := redis.NewClient(opts)
		if lastErr = client.Ping(ctx).Err(); lastErr == nil {
			return client, nil
		}
		_ = client.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrConnectionFailed, ctx.Err())
		case <-time.After(time.Duration(i+1) * cfg.RetryInterval):
		}
	}

	return nil, errors.Join(ErrConnectionFailed, lastErr)
}

// Healthcheck pings the server; suitable for readiness probes.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if client == nil {
			return ErrHealthcheckFailed
		}
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

// Shutdown closes the client; register it as a shutdown hook.
func Shutdown(client io.Closer) func(context.Context) error {
	return func(context.Context) error {
		return client.Close()
	}
}
