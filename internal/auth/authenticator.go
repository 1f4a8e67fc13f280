// Package auth implements the Rubus authenticator: mapping a request
// originator's opaque token into an authorization-bearing Viewer
// record.
package auth

import (
	"context"

	"github.com/rubusproject/rubus/internal/rubus"
)

// Authenticator maps a request originator to a Viewer, or fails with
// rubus.ErrUnauthenticated.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (rubus.Viewer, error)
}

// TokenAuthenticator is the default authenticator: it accepts any
// originator presenting a non-empty opaque token and issues a Viewer
// with HasAdminPrivileges=false. Admin elevation is reserved for a
// future authenticator.
type TokenAuthenticator struct{}

// NewTokenAuthenticator constructs the default authenticator.
func NewTokenAuthenticator() *TokenAuthenticator {
	return &TokenAuthenticator{}
}

var _ Authenticator = (*TokenAuthenticator)(nil)

// Authenticate implements Authenticator.
func (a *TokenAuthenticator) Authenticate(_ context.Context, token string) (rubus.Viewer, error) {
	if token == "" {
		return rubus.Viewer{}, rubus.ErrUnauthenticated
	}
	return rubus.Viewer{Identity: token, HasAdminPrivileges: false}, nil
}
