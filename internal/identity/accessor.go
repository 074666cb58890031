package identity

import (
	"context"

	"clinic-web/internal/domain"
)

type contextKey string

const sessionTokenKey contextKey = "session_token"

// WithSessionToken stores the raw session cookie value on the request context.
func WithSessionToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, sessionTokenKey, token)
}

// SessionTokenFrom returns the raw session token carried by ctx.
func SessionTokenFrom(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(sessionTokenKey).(string)
	return token, ok && token != ""
}

// RequestAccessor resolves the request's session token through the store on
// every call; it never caches.
type RequestAccessor struct {
	store Store
}

// NewRequestAccessor creates an accessor backed by store.
func NewRequestAccessor(store Store) *RequestAccessor {
	return &RequestAccessor{store: store}
}

// CurrentSession implements action.SessionAccessor.
func (a *RequestAccessor) CurrentSession(ctx context.Context) (*domain.Session, error) {
	token, ok := SessionTokenFrom(ctx)
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}
	return a.store.Resolve(ctx, token)
}
