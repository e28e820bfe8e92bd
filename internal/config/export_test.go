package config

import "github.com/omarluq/twcfg/internal/cache"

// Test helpers with all fields initialized for exhaustruct compliance.

// MakeTestConfig returns a minimal valid Config with all fields set.
func MakeTestConfig() *Config {
	return &Config{
		Descriptor: DescriptorConfig{Path: "tailwind.config.yaml", Watch: false},
		Server:     MakeTestServerConfig(),
		Storage:    StorageConfig{Path: ":memory:", BusyTimeoutMS: 0},
		Logging:    MakeTestLoggingConfig(),
		Cache:      cache.Config{Mode: cache.ModeDisabled, Ristretto: cache.DefaultRistrettoConfig(), TTLMS: 0},
	}
}

// MakeTestServerConfig returns a minimal ServerConfig with all fields set.
func MakeTestServerConfig() ServerConfig {
	return ServerConfig{
		Listen:        "127.0.0.1:8787",
		Auth:          AuthConfig{APIKey: "", Username: "", PasswordHash: ""},
		TimeoutMS:     60000,
		MaxBodyBytes:  0,
		RateLimitRPM:  0,
		WriteLimitRPS: 0,
		EnableHTTP2:   false,
	}
}

// MakeTestLoggingConfig returns a minimal LoggingConfig with all fields set.
func MakeTestLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: "stdout",
		Pretty: false,
	}
}

// TestPasswordHash has the shape of a bcrypt hash. Validation only checks the prefix.
const TestPasswordHash = "$2a$04$6pQ2/dXF7cL1kTt8OHZK6OZyZp2k7mYbQq3B/2Yw7tRr8Xn1b8Gmy"
