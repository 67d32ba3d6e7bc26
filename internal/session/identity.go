// Package session holds the per-page-view notion of "who is signed in" and the
// route guard that gates every non-public page on it.
package session

import (
	"errors"

	"github.com/google/uuid"
)

// ErrUnauthenticated is returned by any operation that needs a signed-in user.
var ErrUnauthenticated = errors.New("auth: not signed in")

// Identity is the current authenticated user. A nil *Identity means "no session".
type Identity struct {
	UserId uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}

// Require returns ErrUnauthenticated when id is nil or carries no user.
func Require(id *Identity) error {
	if id == nil || id.UserId == uuid.Nil {
		return ErrUnauthenticated
	}
	return nil
}
