// Package identity adapts the remote API's authentication to local browser
// sessions. The remote API issues the bearer credential; this package only
// carries it between requests.
package identity

import (
	"context"

	"clinic-web/internal/domain"
)

// SessionCookieName is the cookie holding the session token.
const SessionCookieName = "clinic_session"

// Store issues, resolves and revokes session tokens.
type Store interface {
	// Issue stores the session (if the store is stateful) and returns the
	// token to place in the session cookie. session.Token is set as well.
	Issue(ctx context.Context, session *domain.Session) (string, error)
	// Resolve returns the live session for token, or ErrSessionNotFound /
	// ErrSessionExpired.
	Resolve(ctx context.Context, token string) (*domain.Session, error)
	// Revoke invalidates token. Revoking an unknown token is not an error.
	Revoke(ctx context.Context, token string) error
}
