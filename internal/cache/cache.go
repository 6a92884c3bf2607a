// Package cache provides a TTL key-value cache with an in-memory backend and
// a Redis backend. Values are stored as JSON.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"siteadmin/internal/logger"
	"siteadmin/internal/metrics"
)

// Clock supplies the current time. Tests inject a fake one.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// Store is a TTL cache. Get reports whether key was found and unexpired, and
// decodes the value into dest when it was.
type Store interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// GetOrLoad returns the cached value for key, or calls load and caches its
// result for ttl. Cache errors are logged and fall through to load.
func GetOrLoad[T any](ctx context.Context, store Store, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var cached T
	found, err := store.Get(ctx, key, &cached)
	switch {
	case err != nil:
		metrics.CacheLookups.WithLabelValues("error").Inc()
		logger.Named("cache").Warnw("cache read failed", "key", key, "error", err)
	case found:
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return cached, nil
	default:
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	value, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if err := store.Set(ctx, key, value, ttl); err != nil {
		logger.Named("cache").Warnw("cache write failed", "key", key, "error", err)
	}
	return value, nil
}

func encode(value any) ([]byte, error) {
	return json.Marshal(value)
}

func decode(data []byte, dest any) error {
	return json.Unmarshal(data, dest)
}
