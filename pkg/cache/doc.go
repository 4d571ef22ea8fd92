// Package cache provides a small generic cache with in-memory and Redis backends.
//
// The kennel server uses it for two things: the admin token denylist and
// the public listing responses. Both share the [Cache] interface so the
// in-memory backend can stand in when REDIS_URL is not configured.
//
//	c := cache.NewRedis[[]Dog](client, "kennel:public", 5*time.Minute)
//
//	dogs, err := cache.GetOrSet(ctx, c, "dogs", func(ctx context.Context) ([]Dog, time.Duration, error) {
//	    dogs, err := q.ListAvailableDogs(ctx)
//	    return dogs, 0, err
//	})
//
// Admin mutations call Clear to drop everything under the prefix.
package cache
