package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"

	"github.com/samber/mo"
)

// APIKeyHeader carries the write key.
const APIKeyHeader = "x-api-key"

// APIKeyAuthenticator checks the x-api-key header against the configured key.
type APIKeyAuthenticator struct {
	keyDigest [32]byte
}

// NewAPIKeyAuthenticator creates an authenticator for key. Only a SHA-256
// digest of the key is kept, and requests are compared digest to digest in
// constant time.
func NewAPIKeyAuthenticator(key string) *APIKeyAuthenticator {
	// #nosec G401 -- API keys are high-entropy secrets, not passwords
	return &APIKeyAuthenticator{keyDigest: sha256.Sum256([]byte(key))}
}

// Validate checks the x-api-key header.
func (a *APIKeyAuthenticator) Validate(r *http.Request) Result {
	provided := r.Header.Get(APIKeyHeader)
	if provided == "" {
		return failure(TypeAPIKey, "missing x-api-key header")
	}

	// #nosec G401 -- see NewAPIKeyAuthenticator
	digest := sha256.Sum256([]byte(provided))
	if subtle.ConstantTimeCompare(digest[:], a.keyDigest[:]) != 1 {
		return failure(TypeAPIKey, "invalid x-api-key")
	}

	return Result{Valid: true, Type: TypeAPIKey, Subject: string(TypeAPIKey)}
}

// Type returns TypeAPIKey.
func (a *APIKeyAuthenticator) Type() Type {
	return TypeAPIKey
}

// ValidateResult is Validate as a mo.Result.
func (a *APIKeyAuthenticator) ValidateResult(r *http.Request) mo.Result[Result] {
	return asResult(a.Validate(r))
}
