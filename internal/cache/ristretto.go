package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/rs/zerolog"
)

const defaultBufferItems = 64

// ristrettoCache implements Cache on top of Ristretto. Values are copied on
// the way in and out so callers never share a slice with the cache.
// Writes are admitted asynchronously: a Get right after Set may still miss.
type ristrettoCache struct {
	cache  *ristretto.Cache[string, []byte]
	log    zerolog.Logger
	closed atomic.Bool
	mu     sync.RWMutex
}

var (
	_ Cache         = (*ristrettoCache)(nil)
	_ StatsProvider = (*ristrettoCache)(nil)
)

func newRistrettoCache(cfg RistrettoConfig) (*ristrettoCache, error) {
	l := logger()
	return newRistrettoCacheWithLog(cfg, &l)
}

func newRistrettoCacheWithLog(cfg RistrettoConfig, base *zerolog.Logger) (*ristrettoCache, error) {
	log := base.With().Str("backend", "ristretto").Logger()

	bufferItems := cfg.BufferItems
	if bufferItems <= 0 {
		bufferItems = defaultBufferItems
	}

	cache, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: bufferItems,
		Metrics:     true,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create ristretto cache")
		return nil, err
	}

	log.Info().
		Int64("num_counters", cfg.NumCounters).
		Int64("max_cost", cfg.MaxCost).
		Int64("buffer_items", bufferItems).
		Msg("ristretto cache created")

	return &ristrettoCache{cache: cache, log: log}, nil
}

// acquire takes the read lock for one operation. The returned release must
// be called when the error is nil.
func (r *ristrettoCache) acquire(ctx context.Context) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.closed.Load() {
		return nil, ErrClosed
	}

	r.mu.RLock()
	if r.closed.Load() {
		r.mu.RUnlock()
		return nil, ErrClosed
	}
	return r.mu.RUnlock, nil
}

func (r *ristrettoCache) Get(ctx context.Context, key string) ([]byte, error) {
	release, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	value, found := r.cache.Get(key)
	r.log.Debug().Str("key", key).Bool("hit", found).Msg("cache get")
	if !found {
		return nil, ErrNotFound
	}

	return append([]byte(nil), value...), nil
}

func (r *ristrettoCache) Set(ctx context.Context, key string, value []byte) error {
	return r.SetWithTTL(ctx, key, value, 0)
}

// SetWithTTL stores a copy of value. A zero ttl means no expiration.
// The entry cost is the value length in bytes.
func (r *ristrettoCache) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	release, err := r.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	admitted := r.cache.SetWithTTL(key, append([]byte(nil), value...), int64(len(value)), ttl)

	r.log.Debug().
		Str("key", key).
		Int("size", len(value)).
		Dur("ttl", ttl).
		Bool("admitted", admitted).
		Msg("cache set")

	return nil
}

func (r *ristrettoCache) Delete(ctx context.Context, key string) error {
	release, err := r.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	r.cache.Del(key)
	r.log.Debug().Str("key", key).Msg("cache delete")
	return nil
}

func (r *ristrettoCache) Exists(ctx context.Context, key string) (bool, error) {
	release, err := r.acquire(ctx)
	if err != nil {
		return false, err
	}
	defer release()

	_, found := r.cache.Get(key)
	return found, nil
}

func (r *ristrettoCache) Clear(ctx context.Context) error {
	release, err := r.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	r.cache.Clear()
	r.log.Debug().Msg("cache cleared")
	return nil
}

// Close waits for pending writes and releases the cache. It is idempotent.
func (r *ristrettoCache) Close() error {
	if r.closed.Load() {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed.Swap(true) {
		return nil
	}

	r.cache.Wait()
	r.cache.Close()

	r.log.Info().Msg("ristretto cache closed")
	return nil
}

// Stats returns current cache statistics. A closed cache reports zeros.
func (r *ristrettoCache) Stats() Stats {
	release, err := r.acquire(context.Background())
	if err != nil {
		return Stats{}
	}
	defer release()

	metrics := r.cache.Metrics

	return Stats{
		Hits:      metrics.Hits(),
		Misses:    metrics.Misses(),
		KeyCount:  metrics.KeysAdded() - metrics.KeysEvicted(),
		BytesUsed: metrics.CostAdded() - metrics.CostEvicted(),
		Evictions: metrics.KeysEvicted(),
	}
}
