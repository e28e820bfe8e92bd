package cache

import (
	"context"
	"errors"
	"time"
)

// Remember returns the cached value for key, or computes, stores and returns
// it on a miss. The cache is best effort: lookup or store failures other
// than context cancellation are logged and the computed value is returned.
// Errors from compute are never cached.
func Remember(ctx context.Context, c Cache, key string, ttl time.Duration, compute func() ([]byte, error)) ([]byte, error) {
	log := logger()

	value, err := c.Get(ctx, key)
	switch {
	case err == nil:
		return value, nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil, err
	case !errors.Is(err, ErrNotFound):
		log.Warn().Err(err).Str("key", key).Msg("cache lookup failed, computing value")
	}

	value, err = compute()
	if err != nil {
		return nil, err
	}

	if err := c.SetWithTTL(ctx, key, value, ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache store failed")
	}
	return value, nil
}
