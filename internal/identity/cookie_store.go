package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic-web/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

const cookieIssuer = "clinic-web"

// sessionClaims is the signed payload of a cookie session.
type sessionClaims struct {
	SessionID   string `json:"sid"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	AccessToken string `json:"at"`
	CSRFToken   string `json:"csrf"`
	jwt.RegisteredClaims
}

// CookieStore keeps the whole session in an HS256-signed token. Nothing is
// persisted server side, so Revoke only relies on the cookie being cleared.
type CookieStore struct {
	key []byte
	now func() time.Time
}

// NewCookieStore creates a stateless store signing with a key derived from secret.
func NewCookieStore(secret string) (*CookieStore, error) {
	key, err := DeriveKey(secret, "session")
	if err != nil {
		return nil, err
	}
	return &CookieStore{key: key, now: time.Now}, nil
}

func (s *CookieStore) Issue(ctx context.Context, session *domain.Session) (string, error) {
	now := s.now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}

	claims := sessionClaims{
		SessionID:   session.ID,
		Name:        session.Name,
		Email:       session.Email,
		AccessToken: session.AccessToken,
		CSRFToken:   session.CSRFToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cookieIssuer,
			Subject:   session.UserID,
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	session.Token = token
	return token, nil
}

func (s *CookieStore) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrSessionNotFound
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cookieIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	claims := &sessionClaims{}
	_, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrSessionExpired
		}
		return nil, domain.ErrSessionNotFound
	}

	session := &domain.Session{
		ID:          claims.SessionID,
		UserID:      claims.Subject,
		Name:        claims.Name,
		Email:       claims.Email,
		Token:       token,
		AccessToken: claims.AccessToken,
		CSRFToken:   claims.CSRFToken,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	if claims.IssuedAt != nil {
		session.CreatedAt = claims.IssuedAt.Time
	}
	return session, nil
}

func (s *CookieStore) Revoke(ctx context.Context, token string) error {
	return nil
}
