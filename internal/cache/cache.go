// Package cache provides the byte cache used for rendered page bodies.
//
// Two backends are available:
//   - Single mode (Ristretto): local in-memory cache with cost-based admission
//   - Disabled mode (Noop): every lookup misses
//
// All implementations are safe for concurrent use.
//
// Basic usage:
//
//	c, err := cache.New(ctx, &cache.Config{
//		Mode:      cache.ModeSingle,
//		Ristretto: cache.DefaultRistrettoConfig(),
//	})
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//
//	html, err := cache.Remember(ctx, c, "page:about", 5*time.Minute, func() ([]byte, error) {
//		return render(page)
//	})
package cache

import (
	"context"
	"time"
)

// Cache defines the interface for cache operations.
type Cache interface {
	// Get retrieves a value. Returns ErrNotFound on a miss and ErrClosed
	// after Close.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with no expiration.
	Set(ctx context.Context, key string, value []byte) error

	// SetWithTTL stores a value that stops being retrievable after ttl.
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether a key is present.
	Exists(ctx context.Context, key string) (bool, error)

	// Clear drops every entry.
	Clear(ctx context.Context) error

	// Close releases resources. Close is idempotent.
	Close() error
}

// Stats provides cache statistics for observability.
type Stats struct {
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	KeyCount  uint64 `json:"key_count"`
	BytesUsed uint64 `json:"bytes_used"`
	Evictions uint64 `json:"evictions"`
}

// StatsProvider is implemented by caches that keep statistics.
//
//	if sp, ok := c.(cache.StatsProvider); ok {
//		stats := sp.Stats()
//	}
type StatsProvider interface {
	Stats() Stats
}
