package auth

import (
	"net/http"

	"github.com/samber/mo"

	"github.com/omarluq/twcfg/internal/config"
)

// ChainAuthenticator accepts a request when any of its authenticators does.
type ChainAuthenticator struct {
	authenticators []Authenticator
}

// NewChainAuthenticator creates a chain tried in the given order.
func NewChainAuthenticator(authenticators ...Authenticator) *ChainAuthenticator {
	return &ChainAuthenticator{authenticators: authenticators}
}

// FromConfig builds the authenticator chain for the configured methods:
// x-api-key first, then basic auth.
// Returns None when no method is configured and writes are open.
func FromConfig(cfg *config.AuthConfig) mo.Option[Authenticator] {
	var authenticators []Authenticator

	if cfg.APIKey != "" {
		authenticators = append(authenticators, NewAPIKeyAuthenticator(cfg.APIKey))
	}
	if cfg.IsBasicEnabled() {
		authenticators = append(authenticators, NewBasicAuthenticator(cfg.Username, cfg.PasswordHash))
	}

	if len(authenticators) == 0 {
		return mo.None[Authenticator]()
	}
	return mo.Some[Authenticator](NewChainAuthenticator(authenticators...))
}

// Validate returns the first successful result. When every authenticator
// rejects the request, the last rejection is reported with TypeNone so the
// response does not reveal which methods are enabled.
func (c *ChainAuthenticator) Validate(r *http.Request) Result {
	if len(c.authenticators) == 0 {
		return failure(TypeNone, "no authentication configured")
	}

	var last Result
	for _, a := range c.authenticators {
		last = a.Validate(r)
		if last.Valid {
			return last
		}
	}
	return failure(TypeNone, last.Error)
}

// Type returns TypeNone; the chain has no method of its own.
func (c *ChainAuthenticator) Type() Type {
	return TypeNone
}

// ValidateResult is Validate as a mo.Result. Failures carry the last
// rejection message.
func (c *ChainAuthenticator) ValidateResult(r *http.Request) mo.Result[Result] {
	return asResult(c.Validate(r))
}

// ValidationError wraps authentication failure details.
type ValidationError struct {
	Type    Type
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new ValidationError with the given type and message.
func NewValidationError(authType Type, message string) *ValidationError {
	return &ValidationError{
		Type:    authType,
		Message: message,
	}
}

func failure(t Type, msg string) Result {
	return Result{Valid: false, Type: t, Error: msg}
}

func asResult(result Result) mo.Result[Result] {
	if result.Valid {
		return mo.Ok(result)
	}
	return mo.Err[Result](NewValidationError(result.Type, result.Error))
}
