package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/dmitrymomot/kennel/pkg/cache"
)

// PublicCache keeps encoded public API responses. Admin mutations purge
// it wholesale. A nil *PublicCache disables caching.
type PublicCache struct {
	c   cache.Cache[[]byte]
	ttl time.Duration
	log *slog.Logger
}

func NewPublicCache(c cache.Cache[[]byte], ttl time.Duration, log *slog.Logger) *PublicCache {
	return &PublicCache{c: c, ttl: ttl, log: log}
}

// load returns the cached encoding of key, computing it with fn on a miss.
func (p *PublicCache) load(ctx context.Context, key string, fn func(ctx context.Context) (any, error)) (json.RawMessage, error) {
	encode := func(ctx context.Context) ([]byte, time.Duration, error) {
		v, err := fn(ctx)
		if err != nil {
			return nil, 0, err
		}
		b, err := json.Marshal(v)
		return b, p.ttlOrDefault(), err
	}

	if p == nil {
		b, _, err := encode(ctx)
		return b, err
	}
	return cache.GetOrSet(ctx, p.c, key, encode)
}

func (p *PublicCache) ttlOrDefault() time.Duration {
	if p == nil {
		return 0
	}
	return p.ttl
}

// Purge drops every cached response. Failures are logged: a stale entry
// expires on its own.
func (p *PublicCache) Purge(ctx context.Context) {
	if p == nil {
		return
	}
	if err := p.c.Clear(ctx); err != nil {
		p.log.WarnContext(ctx, "public cache purge failed", slog.String("error", err.Error()))
	}
}
