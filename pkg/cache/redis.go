package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis stores JSON-encoded values under "{prefix}:{key}".
type Redis[V any] struct {
	client     redis.UniversalClient
	prefix     string
	defaultTTL time.Duration
}

// NewRedis creates a cache namespaced by prefix.
// The prefix must be non-empty so Clear never touches foreign keys.
// The client lifecycle belongs to the caller (see pkg/redis).
func NewRedis[V any](client redis.UniversalClient, prefix string, defaultTTL time.Duration) *Redis[V] {
	if defaultTTL == 0 {
		defaultTTL = time.Hour
	}
	return &Redis[V]{client: client, prefix: prefix, defaultTTL: defaultTTL}
}

func (r *Redis[V]) Get(ctx context.Context, key string) (V, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		var zero V
		if errors.Is(err, redis.Nil) {
			return zero, ErrNotFound
		}
		return zero, err
	}
	return decode[V](data)
}

func (r *Redis[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	data, err := encode(value)
	if err != nil {
		return err
	}
	if ttl == 0 {
		ttl = r.defaultTTL
	}
	// Redis treats 0 as "no expiration".
	return r.client.Set(ctx, r.key(key), data, max(ttl, 0)).Err()
}

func (r *Redis[V]) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

// Clear removes every key under the prefix using SCAN batches.
func (r *Redis[V]) Clear(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, r.prefix+":*", 100).Iterator()

	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := r.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return r.client.Del(ctx, batch...).Err()
	}
	return nil
}

// Close is a no-op; the shared client is closed by pkg/redis.Shutdown.
func (r *Redis[V]) Close() error { return nil }

func (r *Redis[V]) key(k string) string {
	return r.prefix + ":" + k
}

var _ Cache[any] = (*Redis[any])(nil)
