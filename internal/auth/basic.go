package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"

	"github.com/samber/mo"
	"golang.org/x/crypto/bcrypt"
)

// BasicAuthenticator validates Authorization: Basic credentials against a
// configured username and bcrypt password hash.
type BasicAuthenticator struct {
	usernameHash [32]byte
	passwordHash []byte
}

// NewBasicAuthenticator creates a basic auth authenticator. passwordHash is
// a bcrypt hash as produced by HashPassword.
func NewBasicAuthenticator(username, passwordHash string) *BasicAuthenticator {
	return &BasicAuthenticator{
		usernameHash: sha256.Sum256([]byte(username)),
		passwordHash: []byte(passwordHash),
	}
}

// Validate checks the basic auth credentials. The bcrypt comparison runs even
// when the username is wrong so both failures take the same time.
func (a *BasicAuthenticator) Validate(r *http.Request) Result {
	username, password, ok := r.BasicAuth()
	if !ok {
		return failure(TypeBasic, "missing basic auth credentials")
	}

	providedHash := sha256.Sum256([]byte(username))
	userOK := subtle.ConstantTimeCompare(providedHash[:], a.usernameHash[:]) == 1
	passOK := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)) == nil

	if !userOK || !passOK {
		return failure(TypeBasic, "invalid username or password")
	}

	return Result{
		Valid:   true,
		Type:    TypeBasic,
		Subject: username,
	}
}

// Type returns the authentication type (basic).
func (a *BasicAuthenticator) Type() Type {
	return TypeBasic
}

// ValidateResult is Validate as a mo.Result.
func (a *BasicAuthenticator) ValidateResult(r *http.Request) mo.Result[Result] {
	return asResult(a.Validate(r))
}
