// Package auth guards the page write endpoints. It supports an x-api-key
// header and HTTP basic auth checked against a bcrypt hash.
package auth

import "net/http"

// Type represents the authentication method used.
type Type string

const (
	// TypeAPIKey represents x-api-key header authentication.
	TypeAPIKey Type = "api_key"
	// TypeBasic represents Authorization: Basic authentication.
	TypeBasic Type = "basic"
	// TypeNone represents no authentication or failed auth with no valid type.
	TypeNone Type = "none"
)

// Result contains the outcome of an authentication attempt.
type Result struct {
	// Type indicates which authentication method was used (or attempted).
	Type Type
	// Error contains the error message if authentication failed.
	Error string
	// Subject names the authenticated principal (the basic auth username).
	Subject string
	// Valid indicates whether authentication succeeded.
	Valid bool
}

// Authenticator defines the interface for authentication mechanisms.
type Authenticator interface {
	// Validate checks the request for valid credentials.
	// Returns a Result with Valid=true if authentication succeeds.
	Validate(r *http.Request) Result

	// Type returns the authentication type this authenticator handles.
	Type() Type
}
