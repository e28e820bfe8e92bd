package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// New creates a Cache for the configured mode. It fails if the configuration
// is invalid or the backend cannot be initialized.
//
// The context is accepted for symmetry with other constructors; local
// backends do not block during initialization.
func New(ctx context.Context, cfg *Config) (Cache, error) {
	l := logger()
	return newWithLog(ctx, cfg, &l)
}

func newWithLog(_ context.Context, cfg *Config, base *zerolog.Logger) (Cache, error) {
	log := base.With().Str("component", "cache_factory").Logger()
	start := time.Now()

	if err := cfg.Validate(); err != nil {
		log.Debug().Err(err).Str("mode", string(cfg.Mode)).Msg("cache factory: validation failed")
		return nil, err
	}

	var (
		c   Cache
		err error
	)

	switch cfg.Mode {
	case ModeSingle:
		c, err = newRistrettoCacheWithLog(cfg.Ristretto, base)
	case ModeDisabled:
		c = newNoopCacheWithLog(base)
	default:
		return nil, fmt.Errorf("cache: unknown mode %q", cfg.Mode)
	}

	if err != nil {
		log.Error().Err(err).Str("mode", string(cfg.Mode)).Msg("cache factory: backend initialization failed")
		return nil, err
	}

	log.Info().
		Str("mode", string(cfg.Mode)).
		Dur("ttl", cfg.TTL()).
		Dur("init_time", time.Since(start)).
		Msg("cache factory: backend initialized")

	return c, nil
}
