package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// noopCache stores nothing. Writes succeed, reads miss.
type noopCache struct {
	log    zerolog.Logger
	closed atomic.Bool
}

func newNoopCache() *noopCache {
	l := logger()
	return newNoopCacheWithLog(&l)
}

func newNoopCacheWithLog(base *zerolog.Logger) *noopCache {
	log := base.With().Str("backend", "noop").Logger()
	log.Debug().Str("note", "page cache is disabled").Msg("noop cache created")
	return &noopCache{log: log}
}

func (c *noopCache) Get(_ context.Context, key string) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	c.log.Debug().Str("key", key).Bool("hit", false).Msg("cache get")
	return nil, ErrNotFound
}

func (c *noopCache) Set(_ context.Context, _ string, _ []byte) error {
	if c.closed.Load() {
		return ErrClosed
	}
	return nil
}

func (c *noopCache) SetWithTTL(_ context.Context, _ string, _ []byte, _ time.Duration) error {
	if c.closed.Load() {
		return ErrClosed
	}
	return nil
}

func (c *noopCache) Delete(_ context.Context, _ string) error {
	if c.closed.Load() {
		return ErrClosed
	}
	return nil
}

func (c *noopCache) Exists(_ context.Context, _ string) (bool, error) {
	if c.closed.Load() {
		return false, ErrClosed
	}
	return false, nil
}

func (c *noopCache) Clear(_ context.Context) error {
	if c.closed.Load() {
		return ErrClosed
	}
	return nil
}

// Close marks the cache as closed. It is idempotent.
func (c *noopCache) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	c.log.Info().Msg("noop cache closed")
	return nil
}

// Stats returns zeroed statistics.
func (c *noopCache) Stats() Stats {
	return Stats{}
}

var (
	_ Cache         = (*noopCache)(nil)
	_ StatsProvider = (*noopCache)(nil)
)
