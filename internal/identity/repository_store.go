package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic-web/internal/domain"
	"clinic-web/internal/security"
)

// RepositoryStore keeps sessions server side behind a random opaque token.
type RepositoryStore struct {
	repo   domain.SessionRepository
	tokens *security.TokenManager
	now    func() time.Time
}

// NewRepositoryStore wraps a session repository.
func NewRepositoryStore(repo domain.SessionRepository) *RepositoryStore {
	return &RepositoryStore{repo: repo, tokens: security.NewTokenManager(), now: time.Now}
}

func (s *RepositoryStore) Issue(ctx context.Context, session *domain.Session) (string, error) {
	token, err := s.tokens.Generate()
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	session.Token = token

	if err := s.repo.Create(ctx, session); err != nil {
		return "", err
	}
	return token, nil
}

func (s *RepositoryStore) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrSessionNotFound
	}
	session, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(s.now()) {
		return nil, domain.ErrSessionExpired
	}
	return session, nil
}

func (s *RepositoryStore) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.repo.Delete(ctx, token); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return err
	}
	return nil
}

// Cleanup removes expired sessions and returns how many were deleted.
func (s *RepositoryStore) Cleanup(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx)
}
