package service

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"clinic-web/internal/domain"
	"clinic-web/internal/identity"
	"clinic-web/internal/observability"
	"clinic-web/internal/security"

	"github.com/google/uuid"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// IdentityProvider is the remote API's authentication surface.
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (*identity.Identity, error)
	SignUp(ctx context.Context, input identity.SignUpInput) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
}

// AuthService turns remote sign-ins into local sessions.
type AuthService struct {
	provider  IdentityProvider
	store     identity.Store
	storeName string
	tokens    *security.TokenManager
	ttl       time.Duration
	now       func() time.Time
}

func NewAuthService(provider IdentityProvider, store identity.Store, storeName string, ttl time.Duration) *AuthService {
	return &AuthService{
		provider:  provider,
		store:     store,
		storeName: storeName,
		tokens:    security.NewTokenManager(),
		ttl:       ttl,
		now:       time.Now,
	}
}

// SignIn authenticates against the remote API and issues a session holding
// its bearer credential. The returned session's Token goes in the cookie.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidInput
	}

	id, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	csrfToken, err := s.tokens.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate csrf token: %w", err)
	}

	now := s.now()
	session := &domain.Session{
		ID:          uuid.NewString(),
		UserID:      id.UserID,
		Name:        id.Name,
		Email:       id.Email,
		AccessToken: id.AccessToken,
		CSRFToken:   csrfToken,
		ExpiresAt:   now.Add(s.ttl),
		CreatedAt:   now,
	}

	if _, err := s.store.Issue(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	observability.SessionsIssued.WithLabelValues(s.storeName).Inc()
	observability.FromContext(ctx).Info("user signed in", "user_id", session.UserID, "session_id", session.ID)
	return session, nil
}

// SignUp registers an account with the remote API and returns its message.
func (s *AuthService) SignUp(ctx context.Context, input identity.SignUpInput) (string, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if input.Name == "" || input.Password == "" || !emailRegex.MatchString(input.Email) {
		return "", domain.ErrInvalidInput
	}
	return s.provider.SignUp(ctx, input)
}

// ForgotPassword asks the remote API to email a reset link.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if !emailRegex.MatchString(email) {
		return "", domain.ErrInvalidInput
	}
	return s.provider.ForgotPassword(ctx, email)
}

// SignOut revokes the session token. An empty token is a no-op.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.store.Revoke(ctx, token)
}

// Session resolves a cookie token.
func (s *AuthService) Session(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrNotAuthenticated
	}
	return s.store.Resolve(ctx, token)
}

// SafeCallback returns raw if it is a same-site relative path, otherwise "/".
// It keeps the sign-in callbackUrl from becoming an open redirect.
func SafeCallback(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, `/\`) {
		return "/"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return raw
}
