// Package auth resolves the member behind an HTTP request. Exactly one
// Provider is active per deployment.
package auth

import (
	"errors"
	"net/http"
)

const (
	ModeSession = "session"
	ModeClaims  = "claims"
)

// ErrUnauthenticated means the request carries no usable identity.
var ErrUnauthenticated = errors.New("unauthenticated")

type Provider interface {
	Name() string
	// Authenticate returns the member id for r. It returns ErrUnauthenticated
	// when no valid credential is present; any other error is infrastructure.
	Authenticate(r *http.Request) (string, error)
}
