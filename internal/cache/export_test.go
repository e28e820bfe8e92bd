package cache

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
)

// Exported for testing in external test package (cache_test).

// RistrettoCacheT exports the internal cache type for testing.
type RistrettoCacheT = ristrettoCache

// NoopCacheT exports the internal noop cache type for testing.
type NoopCacheT = noopCache

// RistrettoWait blocks until pending ristretto writes are applied.
func RistrettoWait(c Cache) {
	if rc, ok := c.(*ristrettoCache); ok {
		rc.cache.Wait()
	}
}

// NewForTest creates a cache via the factory with a specific logger,
// avoiding the global cache.Logger for test isolation.
func NewForTest(ctx context.Context, cfg *Config, l *zerolog.Logger) (Cache, error) {
	return newWithLog(ctx, cfg, l)
}

// NewTestLogger creates a test logger at the given level, returning the
// buffer holding its output.
func NewTestLogger(level zerolog.Level) (*bytes.Buffer, *zerolog.Logger) {
	var buf bytes.Buffer
	l := zerolog.New(&buf).Level(level)
	return &buf, &l
}

// SmallTestRistrettoConfig returns a small Ristretto configuration for tests.
func SmallTestRistrettoConfig() RistrettoConfig {
	return RistrettoConfig{
		NumCounters: 1000,
		MaxCost:     1 << 20,
		BufferItems: 64,
	}
}

// NewTestRistrettoCache creates a ristretto cache and closes it on cleanup.
func NewTestRistrettoCache(t *testing.T, l *zerolog.Logger) *ristrettoCache {
	t.Helper()
	c, err := newRistrettoCacheWithLog(SmallTestRistrettoConfig(), l)
	if err != nil {
		t.Fatalf("newRistrettoCacheWithLog failed: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := c.Close(); closeErr != nil {
			t.Errorf("Close() error = %v", closeErr)
		}
	})
	return c
}
