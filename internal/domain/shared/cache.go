package shared

import (
	"context"
	"time"
)

// Cache key prefixes for derived read views
const (
	CachePrefixReport  = "report:"
	CachePrefixStock   = "stock:"
	CachePrefixInvoice = "invoice:"
)

// ReadCache stores derived read views. Implementations are best effort:
// callers treat every error as a miss.
type ReadCache interface {
	// Get decodes the cached value into dest and reports whether it was present
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Set stores value under key for ttl
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// DeletePrefix removes every key starting with one of the prefixes
	DeletePrefix(ctx context.Context, prefixes ...string) error
}

// ReadThrough returns the cached value for key, or loads, stores and
// returns it. A nil cache always loads.
//
// A load that started before a write committed can store its result after
// the write's DeletePrefix ran. That view stays stale until ttl expires, so
// the ttl bounds how stale a read can get.
func ReadThrough[T any](ctx context.Context, cache ReadCache, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	if cache != nil {
		var cached T
		if ok, err := cache.Get(ctx, key, &cached); err == nil && ok {
			return cached, nil
		}
	}
	value, err := load()
	if err != nil {
		return value, err
	}
	if cache != nil {
		_ = cache.Set(ctx, key, value, ttl)
	}
	return value, nil
}
