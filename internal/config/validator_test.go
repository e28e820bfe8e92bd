package config

import (
	"errors"
	"strconv"
	"strings"
	"testing"
)

const defaultListenAddr = "127.0.0.1:8787"

func configWithListen(listen string) *Config {
	cfg := MakeTestConfig()
	cfg.Server.Listen = listen
	return cfg
}

func assertValidationContains(t *testing.T, cfg *Config, want string) {
	t.Helper()

	err := cfg.Validate()
	if err == nil {
		t.Fatalf("Expected error containing %q, got nil", want)
	}
	if !strings.Contains(err.Error(), want) {
		t.Errorf("Expected %q in error, got: %v", want, err)
	}
}

func TestValidateValidMinimalConfig(t *testing.T) {
	t.Parallel()

	cfg := configWithListen(defaultListenAddr)

	err := cfg.Validate()
	if err != nil {
		t.Errorf("Expected valid config, got error: %v", err)
	}
}

func TestValidateValidFullConfig(t *testing.T) {
	t.Parallel()

	cfg := configWithListen("0.0.0.0:8787")
	cfg.Server.TimeoutMS = 60000
	cfg.Server.MaxBodyBytes = 4096
	cfg.Server.RateLimitRPM = 600
	cfg.Server.WriteLimitRPS = 1.5
	cfg.Server.EnableHTTP2 = true
	cfg.Server.Auth = AuthConfig{APIKey: "k", Username: "admin", PasswordHash: TestPasswordHash}
	cfg.Storage = StorageConfig{Path: "pages.db", BusyTimeoutMS: 1000}
	cfg.Logging = LoggingConfig{Level: LevelDebug, Format: "console", Output: "stderr", Pretty: true}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected valid config, got error: %v", err)
	}
}

func TestValidateMissingServerListen(t *testing.T) {
	t.Parallel()

	assertValidationContains(t, configWithListen(""), "server.listen is required")
}

func TestValidateInvalidListenFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		listen string
	}{
		{"no_port", "127.0.0.1"},
		{"no_colon", "localhost8787"},
		{"empty_port", "127.0.0.1:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assertValidationContains(t, configWithListen(tt.listen), "server.listen")
		})
	}
}

func TestValidateValidListenFormats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		listen string
	}{
		{"localhost", "localhost:8787"},
		{"ipv4", defaultListenAddr},
		{"ipv4_all", "0.0.0.0:8787"},
		{"empty_host", ":8787"},
		{"ipv6", "[::1]:8787"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := configWithListen(tt.listen)

			err := cfg.Validate()
			if err != nil {
				t.Errorf("Expected valid listen=%q, got error: %v", tt.listen, err)
			}
		})
	}
}

func TestValidateNegativeServerLimits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*ServerConfig)
		want   string
	}{
		{"timeout", func(s *ServerConfig) { s.TimeoutMS = -1 }, "server.timeout_ms must be >= 0"},
		{"max_body", func(s *ServerConfig) { s.MaxBodyBytes = -1 }, "server.max_body_bytes must be >= 0"},
		{"rate_limit", func(s *ServerConfig) { s.RateLimitRPM = -5 }, "server.rate_limit_rpm must be >= 0"},
		{"write_limit", func(s *ServerConfig) { s.WriteLimitRPS = -0.5 }, "server.write_limit_rps must be >= 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := configWithListen(defaultListenAddr)
			tt.mutate(&cfg.Server)
			assertValidationContains(t, cfg, tt.want)
		})
	}
}

func TestValidateAuth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		auth AuthConfig
		want string
	}{
		{
			name: "username_without_hash",
			auth: AuthConfig{Username: "admin"},
			want: "server.auth.password_hash is required when username is set",
		},
		{
			name: "hash_without_username",
			auth: AuthConfig{PasswordHash: TestPasswordHash},
			want: "server.auth.username is required when password_hash is set",
		},
		{
			name: "plaintext_password",
			auth: AuthConfig{Username: "admin", PasswordHash: "hunter2"},
			want: "server.auth.password_hash must be a bcrypt hash",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := configWithListen(defaultListenAddr)
			cfg.Server.Auth = tt.auth
			assertValidationContains(t, cfg, tt.want)
		})
	}
}

func TestValidateBcryptPrefixes(t *testing.T) {
	t.Parallel()

	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		cfg := configWithListen(defaultListenAddr)
		cfg.Server.Auth = AuthConfig{Username: "admin", PasswordHash: prefix + "10$abcdefghijklmnopqrstuv"}
		if err := cfg.Validate(); err != nil {
			t.Errorf("Expected %s hash to validate, got: %v", prefix, err)
		}
	}
}

func TestValidateDescriptorAndStorage(t *testing.T) {
	t.Parallel()

	cfg := configWithListen(defaultListenAddr)
	cfg.Descriptor.Path = "  "
	assertValidationContains(t, cfg, "descriptor.path is required")

	cfg = configWithListen(defaultListenAddr)
	cfg.Storage.Path = ""
	assertValidationContains(t, cfg, "storage.path is required")

	cfg = configWithListen(defaultListenAddr)
	cfg.Storage.BusyTimeoutMS = -1
	assertValidationContains(t, cfg, "storage.busy_timeout_ms must be >= 0")
}

func TestValidateCache(t *testing.T) {
	t.Parallel()

	cfg := configWithListen(defaultListenAddr)
	cfg.Cache.Mode = "distributed"
	assertValidationContains(t, cfg, `cache: unknown mode "distributed"`)

	cfg = configWithListen(defaultListenAddr)
	cfg.Cache.TTLMS = -1
	assertValidationContains(t, cfg, "cache: ttl_ms must be >= 0")
}

func TestValidateInvalidLoggingLevel(t *testing.T) {
	t.Parallel()

	cfg := configWithListen(defaultListenAddr)
	cfg.Logging.Level = "verbose"

	assertValidationContains(t, cfg, `logging.level is invalid (got "verbose"`)
}

func TestValidateInvalidLoggingFormat(t *testing.T) {
	t.Parallel()

	cfg := configWithListen(defaultListenAddr)
	cfg.Logging.Format = "xml"

	assertValidationContains(t, cfg, `logging.format is invalid (got "xml"`)
}

func TestValidateMultipleErrors(t *testing.T) {
	t.Parallel()

	cfg := configWithListen("")
	cfg.Server.TimeoutMS = -1
	cfg.Storage.Path = ""
	cfg.Logging.Level = "verbose"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected multiple validation errors")
	}

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Expected ValidationError, got %T", err)
	}

	if len(validationErr.Errors) != 4 {
		t.Errorf("Expected 4 errors, got %d: %v", len(validationErr.Errors), validationErr.Errors)
	}
}

func TestValidationErrorSingleError(t *testing.T) {
	t.Parallel()

	verr := &ValidationError{}
	verr.Add("test error")

	expected := "config validation failed: test error"
	if verr.Error() != expected {
		t.Errorf("Expected %q, got %q", expected, verr.Error())
	}
}

func TestValidationErrorMultipleErrors(t *testing.T) {
	t.Parallel()

	verr := &ValidationError{}
	verr.Add("error 1")
	verr.Add("error 2")
	verr.Addf("error %d", 3)

	result := verr.Error()
	if !strings.Contains(result, "3 errors") {
		t.Errorf("Expected '3 errors' in message, got: %s", result)
	}

	for i := 1; i <= 3; i++ {
		if !strings.Contains(result, "error "+strconv.Itoa(i)) {
			t.Errorf("Expected 'error %d' in message, got: %s", i, result)
		}
	}
}

func TestValidationErrorEmpty(t *testing.T) {
	t.Parallel()

	verr := &ValidationError{}

	if verr.HasErrors() {
		t.Error("Expected HasErrors() to be false for empty error")
	}

	if verr.ToError() != nil {
		t.Error("Expected ToError() to be nil for empty error")
	}
}
