// Package auth issues and checks the session tokens that identify qadesk callers
package auth

import (
	"errors"
	"strings"

	"github.com/qadesk/qadesk/internal/model"
)

var (
	// ErrAuthRequired is returned when authentication is required but not provided
	ErrAuthRequired = errors.New("authentication required")
	// ErrInvalidToken is returned when a token fails signature, expiry or claim checks
	ErrInvalidToken = errors.New("invalid token")
	// ErrUnsupportedAuthMethod is returned when an unsupported auth method is used
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")
)

const bearerPrefix = "Bearer "

// ExtractBearerToken returns the token from an Authorization header value
func ExtractBearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrAuthRequired
	}
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", ErrInvalidToken
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", ErrAuthRequired
	}
	return token, nil
}

// PrincipalFor builds the principal for a subject authenticated with method,
// e.g. "oidc:1234".
func PrincipalFor(method Method, subject string) model.Principal {
	return model.Principal(string(method) + ":" + subject)
}
