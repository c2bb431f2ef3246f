// Package session issues and resolves the opaque credentials shared by the
// HTTP layer and the chat gateway. A credential is a signed token wrapping a
// session ID; the authoritative session record lives in Redis with a TTL, so
// revocation and expiry are server-side.
package session

import (
	"context"
	"errors"
)

// CookieName is the cookie carrying the session credential. The chat
// handshake reads the same cookie the HTTP layer sets at login.
const CookieName = "social_session"

var (
	// ErrInvalidSession means the credential is missing, malformed or not
	// signed by us.
	ErrInvalidSession = errors.New("session: invalid credential")

	// ErrExpiredSession means the credential parsed fine but the backing
	// record is gone (TTL expiry or revocation).
	ErrExpiredSession = errors.New("session: expired")

	// ErrStoreUnavailable means the backing store could not answer in time.
	ErrStoreUnavailable = errors.New("session: store unavailable")
)

// Resolver resolves a session credential to a stable user identity.
// Implementations must be read-only on the session store and honor the
// context deadline.
type Resolver interface {
	Resolve(ctx context.Context, credential string) (string, error)
}
