package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache is a key-value store with per-entry expiration.
//
// A zero ttl in Set means the backend default. A negative ttl keeps the
// entry until it is deleted.
type Cache[V any] interface {
	// Get returns ErrNotFound for missing and expired keys.
	Get(ctx context.Context, key string) (V, error)
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Clear drops every entry owned by this cache.
	Clear(ctx context.Context) error
	Close() error
}

func encode[V any](v V) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrMarshal, err)
	}
	return data, nil
}

func decode[V any](data []byte) (V, error) {
	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		return v, errors.Join(ErrUnmarshal, err)
	}
	return v, nil
}

var loads singleflight.Group

type loaded[V any] struct {
	value V
	ttl   time.Duration
}

// GetOrSet returns the cached value for key or computes it with load.
// Concurrent misses on the same key of the same cache share a single
// load call.
// Errors from load are returned as is and nothing is cached.
func GetOrSet[V any](ctx context.Context, c Cache[V], key string, load func(ctx context.Context) (V, time.Duration, error)) (V, error) {
	if v, err := c.Get(ctx, key); err == nil {
		return v, nil
	}

	res, err, _ := loads.Do(fmt.Sprintf("%p/%s", c, key), func() (any, error) {
		v, ttl, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return loaded[V]{value: v, ttl: ttl}, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}

	l := res.(loaded[V])
	// A failed write only costs the next caller a reload.
	_ = c.Set(ctx, key, l.value, l.ttl)

	return l.value, nil
}
