package adminauth

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/kennel/pkg/cache"
)

// Denylist records revoked tokens by signature until they would have expired anyway.
type Denylist interface {
	Revoke(ctx context.Context, signature string, ttl time.Duration) error
	IsRevoked(ctx context.Context, signature string) (bool, error)
}

// CacheDenylist stores revoked signatures in a cache.
// Works with both the in-memory and the Redis cache backends.
type CacheDenylist struct {
	cache cache.Cache[bool]
}

// NewCacheDenylist creates a Denylist backed by c.
func NewCacheDenylist(c cache.Cache[bool]) *CacheDenylist {
	return &CacheDenylist{cache: c}
}

// Revoke marks the signature as revoked for ttl.
// A non-positive ttl means the token is already expired and nothing is stored.
func (d *CacheDenylist) Revoke(ctx context.Context, signature string, ttl time.Duration) error {
	if signature == "" || ttl <= 0 {
		return nil
	}
	return d.cache.Set(ctx, signature, true, ttl)
}

// IsRevoked reports whether the signature was revoked.
func (d *CacheDenylist) IsRevoked(ctx context.Context, signature string) (bool, error) {
	_, err := d.cache.Get(ctx, signature)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
