package config

import (
	"net"
	"strings"
)

// Valid logging levels.
var validLogLevels = map[string]bool{
	"":      true, // Empty defaults to info
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Valid logging formats.
var validLogFormats = map[string]bool{
	"":        true, // Empty defaults to json
	"json":    true,
	"console": true,
	"text":    true, // Alias for console
	"pretty":  true,
}

// bcryptPrefixes are the hash identifiers produced by bcrypt implementations.
var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// Validate checks the configuration for errors.
// Returns a ValidationError containing all errors found, or nil if valid.
func (c *Config) Validate() error {
	errs := &ValidationError{}

	validateDescriptor(c, errs)
	validateServer(c, errs)
	validateAuth(c, errs)
	validateStorage(c, errs)
	validateCache(c, errs)
	validateLogging(c, errs)

	return errs.ToError()
}

func validateDescriptor(c *Config, errs *ValidationError) {
	if strings.TrimSpace(c.Descriptor.Path) == "" {
		errs.Add("descriptor.path is required")
	}
}

func validateServer(c *Config, errs *ValidationError) {
	if c.Server.Listen == "" {
		errs.Add("server.listen is required")
	} else {
		validateListenAddress(c.Server.Listen, errs)
	}

	if c.Server.TimeoutMS < 0 {
		errs.Add("server.timeout_ms must be >= 0")
	}
	if c.Server.MaxBodyBytes < 0 {
		errs.Add("server.max_body_bytes must be >= 0")
	}
	if c.Server.RateLimitRPM < 0 {
		errs.Add("server.rate_limit_rpm must be >= 0")
	}
	if c.Server.WriteLimitRPS < 0 {
		errs.Add("server.write_limit_rps must be >= 0")
	}
}

// validateListenAddress validates a listen address in host:port format.
func validateListenAddress(addr string, errs *ValidationError) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		errs.Addf("server.listen must be in host:port format (got %q)", addr)
		return
	}

	if host != "" && net.ParseIP(host) == nil && strings.ContainsAny(host, " \t\n") {
		errs.Add("server.listen host contains invalid characters")
	}

	if port == "" {
		errs.Add("server.listen port is required")
	}
}

func validateAuth(c *Config, errs *ValidationError) {
	auth := &c.Server.Auth

	switch {
	case auth.Username != "" && auth.PasswordHash == "":
		errs.Add("server.auth.password_hash is required when username is set")
	case auth.Username == "" && auth.PasswordHash != "":
		errs.Add("server.auth.username is required when password_hash is set")
	}

	if auth.PasswordHash != "" && !hasBcryptPrefix(auth.PasswordHash) {
		errs.Add("server.auth.password_hash must be a bcrypt hash (see twcfg hash-password)")
	}
}

func hasBcryptPrefix(hash string) bool {
	for _, prefix := range bcryptPrefixes {
		if strings.HasPrefix(hash, prefix) {
			return true
		}
	}
	return false
}

func validateStorage(c *Config, errs *ValidationError) {
	if strings.TrimSpace(c.Storage.Path) == "" {
		errs.Add("storage.path is required")
	}
	if c.Storage.BusyTimeoutMS < 0 {
		errs.Add("storage.busy_timeout_ms must be >= 0")
	}
}

func validateCache(c *Config, errs *ValidationError) {
	if err := c.Cache.Validate(); err != nil {
		errs.Add(err.Error())
	}
}

func validateLogging(c *Config, errs *ValidationError) {
	if !validLogLevels[c.Logging.Level] {
		errs.Addf("logging.level is invalid (got %q, valid: debug, info, warn, error)",
			c.Logging.Level)
	}

	if !validLogFormats[c.Logging.Format] {
		errs.Addf("logging.format is invalid (got %q, valid: json, console, text, pretty)",
			c.Logging.Format)
	}
}
