package cache

import (
	"errors"
	"fmt"
	"time"

	"github.com/samber/mo"
)

// Mode represents the cache operating mode.
type Mode string

const (
	// ModeSingle uses the local Ristretto cache (default).
	ModeSingle Mode = "single"

	// ModeDisabled uses the noop cache. Every page is rendered on each request.
	ModeDisabled Mode = "disabled"
)

// DefaultTTL is how long rendered bodies stay cached when ttl_ms is unset.
const DefaultTTL = 5 * time.Minute

// Config defines cache configuration.
type Config struct {
	Mode      Mode            `yaml:"mode" toml:"mode"`
	Ristretto RistrettoConfig `yaml:"ristretto" toml:"ristretto"`

	// TTLMS bounds how long a rendered body is reused. Zero means DefaultTTL.
	TTLMS int `yaml:"ttl_ms" toml:"ttl_ms"`
}

// RistrettoConfig configures the Ristretto local cache.
type RistrettoConfig struct {
	// NumCounters is the number of 4-bit access counters.
	// Recommended: 10x expected max items.
	NumCounters int64 `yaml:"num_counters" toml:"num_counters"`

	// MaxCost is the maximum total size in bytes of cached values.
	MaxCost int64 `yaml:"max_cost" toml:"max_cost"`

	// BufferItems is the number of keys per Get buffer. Default 64.
	BufferItems int64 `yaml:"buffer_items" toml:"buffer_items"`
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.TTLMS < 0 {
		return errors.New("cache: ttl_ms must be >= 0")
	}

	switch c.Mode {
	case ModeSingle:
		if c.Ristretto.MaxCost <= 0 {
			return errors.New("cache: ristretto.max_cost must be positive")
		}
		if c.Ristretto.NumCounters <= 0 {
			return errors.New("cache: ristretto.num_counters must be positive")
		}
	case ModeDisabled:
	case "":
		return errors.New("cache: mode is required")
	default:
		return fmt.Errorf("cache: unknown mode %q (valid: single, disabled)", c.Mode)
	}
	return nil
}

// TTL returns the effective entry lifetime.
func (c *Config) TTL() time.Duration {
	return c.TTLOption().OrElse(DefaultTTL)
}

// TTLOption returns the configured lifetime, or None when unset.
func (c *Config) TTLOption() mo.Option[time.Duration] {
	if c.TTLMS <= 0 {
		return mo.None[time.Duration]()
	}
	return mo.Some(time.Duration(c.TTLMS) * time.Millisecond)
}

// DefaultConfig returns a single-mode configuration with default sizing.
func DefaultConfig() Config {
	return Config{
		Mode:      ModeSingle,
		Ristretto: DefaultRistrettoConfig(),
		TTLMS:     0,
	}
}

// DefaultRistrettoConfig returns a RistrettoConfig sized for ~10K rendered pages.
// NumCounters: 100,000. MaxCost: 64 MB. BufferItems: 64.
func DefaultRistrettoConfig() RistrettoConfig {
	return RistrettoConfig{
		NumCounters: 100_000,
		MaxCost:     64 << 20,
		BufferItems: 64,
	}
}
