// Package config provides loading, defaults and validation for the twcfg
// tool settings file (twcfg.yaml or twcfg.toml).
//
// The settings file is distinct from the stylesheet descriptor: it tells the
// tool where the descriptor lives and how the pages site is served.
package config

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/mo"

	"github.com/omarluq/twcfg/internal/cache"
)

// Log level constants.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Defaults applied before the settings file is decoded.
const (
	DefaultDescriptorPath = "tailwind.config.yaml"
	DefaultListen         = "127.0.0.1:8787"
	DefaultStoragePath    = "twcfg.db"
	DefaultTimeoutMS      = 30_000
	DefaultBusyTimeoutMS  = 5_000
	DefaultMaxBodyBytes   = 1 << 20
)

// Config represents the complete twcfg settings.
type Config struct {
	Descriptor DescriptorConfig `yaml:"descriptor" toml:"descriptor"`
	Server     ServerConfig     `yaml:"server" toml:"server"`
	Storage    StorageConfig    `yaml:"storage" toml:"storage"`
	Logging    LoggingConfig    `yaml:"logging" toml:"logging"`
	Cache      cache.Config     `yaml:"cache" toml:"cache"`
}

// Default returns the settings used when no file is present.
func Default() *Config {
	return &Config{
		Descriptor: DescriptorConfig{
			Path:  DefaultDescriptorPath,
			Watch: true,
		},
		Server: ServerConfig{
			Listen:       DefaultListen,
			TimeoutMS:    DefaultTimeoutMS,
			MaxBodyBytes: DefaultMaxBodyBytes,
		},
		Storage: StorageConfig{
			Path:          DefaultStoragePath,
			BusyTimeoutMS: DefaultBusyTimeoutMS,
		},
		Logging: LoggingConfig{
			Level:  LevelInfo,
			Format: "json",
			Output: "stdout",
		},
		Cache: cache.DefaultConfig(),
	}
}

// DescriptorConfig locates the stylesheet descriptor.
type DescriptorConfig struct {
	// Path is the descriptor file. Relative paths resolve against the
	// working directory.
	Path string `yaml:"path" toml:"path"`

	// Watch enables hot reload of the descriptor while serving.
	Watch bool `yaml:"watch" toml:"watch"`
}

// ServerConfig defines settings for the pages site.
type ServerConfig struct {
	Listen string     `yaml:"listen" toml:"listen"`
	Auth   AuthConfig `yaml:"auth" toml:"auth"`

	TimeoutMS    int   `yaml:"timeout_ms" toml:"timeout_ms"`
	MaxBodyBytes int64 `yaml:"max_body_bytes" toml:"max_body_bytes"`

	// RateLimitRPM caps requests per minute per client IP. Zero disables it.
	RateLimitRPM int `yaml:"rate_limit_rpm" toml:"rate_limit_rpm"`

	// WriteLimitRPS caps page writes per second across all clients. Zero disables it.
	WriteLimitRPS float64 `yaml:"write_limit_rps" toml:"write_limit_rps"`

	EnableHTTP2 bool `yaml:"enable_http2" toml:"enable_http2"` // Enable HTTP/2 cleartext (h2c) support
}

// AuthConfig protects the page write endpoints.
type AuthConfig struct {
	// APIKey is the expected value of the x-api-key header.
	APIKey string `yaml:"api_key" toml:"api_key"`

	// Username and PasswordHash enable HTTP basic auth. PasswordHash is a
	// bcrypt hash, as printed by `twcfg hash-password`.
	Username     string `yaml:"username" toml:"username"`
	PasswordHash string `yaml:"password_hash" toml:"password_hash"`
}

// IsEnabled returns true if any authentication method is configured.
func (a *AuthConfig) IsEnabled() bool {
	return a.APIKey != "" || a.IsBasicEnabled()
}

// IsBasicEnabled returns true if basic auth credentials are configured.
func (a *AuthConfig) IsBasicEnabled() bool {
	return a.Username != "" && a.PasswordHash != ""
}

// GetTimeoutOption returns the request timeout, or None when unset.
func (s *ServerConfig) GetTimeoutOption() mo.Option[time.Duration] {
	if s.TimeoutMS <= 0 {
		return mo.None[time.Duration]()
	}
	return mo.Some(time.Duration(s.TimeoutMS) * time.Millisecond)
}

// GetMaxBodyBytesOption returns the body size limit, or None when unlimited.
func (s *ServerConfig) GetMaxBodyBytesOption() mo.Option[int64] {
	if s.MaxBodyBytes <= 0 {
		return mo.None[int64]()
	}
	return mo.Some(s.MaxBodyBytes)
}

// StorageConfig configures the page database.
type StorageConfig struct {
	// Path is the sqlite database file. ":memory:" keeps pages in memory.
	Path          string `yaml:"path" toml:"path"`
	BusyTimeoutMS int    `yaml:"busy_timeout_ms" toml:"busy_timeout_ms"`
}

// IsMemory reports whether the database lives only in memory.
func (s *StorageConfig) IsMemory() bool {
	return s.Path == ":memory:"
}

// BusyTimeout returns how long sqlite waits on a locked database.
func (s *StorageConfig) BusyTimeout() time.Duration {
	if s.BusyTimeoutMS <= 0 {
		return DefaultBusyTimeoutMS * time.Millisecond
	}
	return time.Duration(s.BusyTimeoutMS) * time.Millisecond
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`   // debug, info, warn, error
	Format string `yaml:"format" toml:"format"` // json, console
	Output string `yaml:"output" toml:"output"` // stdout, stderr, or file path
	Pretty bool   `yaml:"pretty" toml:"pretty"` // enable colored console output
}

// ParseLevel converts a string log level to zerolog.Level.
// Returns zerolog.InfoLevel if the level string is invalid.
func (l *LoggingConfig) ParseLevel() zerolog.Level {
	switch strings.ToLower(l.Level) {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
