// Package auth verifies user credentials and issues the bearer tokens
// the API layer uses in place of server-side sessions.
package auth

import (
	"context"
	"errors"

	"github.com/softcentric/tracker/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrMissingToken       = errors.New("authorization token required")
)

// UserSource is the slice of the users repository the authenticator
// needs. This allows the authenticator to be independent of the storage
// implementation.
type UserSource interface {
	List(ctx context.Context) ([]models.User, error)
}

// Authenticator verifies username/password pairs against stored accounts.
//
// Passwords are compared byte-for-byte against the stored value:
// the data files this system shares with earlier deployments store
// credentials as entered, and both login and password change are
// specified as exact, case-sensitive comparisons against that value.
type Authenticator struct {
	users UserSource
}

// NewAuthenticator creates an authenticator over the given user source.
func NewAuthenticator(users UserSource) *Authenticator {
	return &Authenticator{users: users}
}

// Authenticate returns the first account matching the username and
// password exactly, or ErrInvalidCredentials. When duplicate usernames
// exist (creation does not forbid them) the earliest record wins.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	users, err := a.users.List(ctx)
	if err != nil {
		return models.User{}, err
	}
	for _, u := range users {
		if u.Username == username && u.Password == password {
			return u, nil
		}
	}
	return models.User{}, ErrInvalidCredentials
}
