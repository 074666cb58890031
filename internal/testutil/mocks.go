package testutil

import (
	"context"
	"sync"
	"time"

	"clinic-web/internal/domain"
)

// MockSessionRepository implements domain.SessionRepository for testing
type MockSessionRepository struct {
	mu sync.RWMutex

	CreateFunc     func(ctx context.Context, session *domain.Session) error
	GetByTokenFunc func(ctx context.Context, token string) (*domain.Session, error)
	DeleteFunc     func(ctx context.Context, token string) error

	Sessions map[string]*domain.Session
}

// NewMockSessionRepository creates a new MockSessionRepository with initialized maps
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{Sessions: make(map[string]*domain.Session)}
}

func (m *MockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.Sessions[session.Token]; exists {
		return domain.ErrSessionExists
	}
	m.Sessions[session.Token] = session
	return nil
}

func (m *MockSessionRepository) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	if m.GetByTokenFunc != nil {
		return m.GetByTokenFunc(ctx, token)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.Sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (m *MockSessionRepository) Delete(ctx context.Context, token string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, token)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Sessions, token)
	return nil
}

func (m *MockSessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	now := time.Now()
	for token, session := range m.Sessions {
		if session.ExpiresAt.Before(now) {
			delete(m.Sessions, token)
			count++
		}
	}
	return count, nil
}

// MockStore is an in-memory session store keyed by session.Token. It
// satisfies identity.Store.
type MockStore struct {
	mu       sync.RWMutex
	Sessions map[string]*domain.Session
	Revoked  []string
	Resolves int
}

// NewMockStore creates an empty store
func NewMockStore(sessions ...*domain.Session) *MockStore {
	s := &MockStore{Sessions: make(map[string]*domain.Session)}
	for _, session := range sessions {
		s.Sessions[session.Token] = session
	}
	return s
}

func (s *MockStore) Issue(ctx context.Context, session *domain.Session) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session.Token == "" {
		session.Token = nextID("token")
	}
	s.Sessions[session.Token] = session
	return session.Token, nil
}

func (s *MockStore) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Resolves++
	session, ok := s.Sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if session.IsExpired(time.Now()) {
		return nil, domain.ErrSessionExpired
	}
	return session, nil
}

func (s *MockStore) Revoke(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Sessions, token)
	s.Revoked = append(s.Revoked, token)
	return nil
}

// MockCartStore is an in-memory domain.CartStore
type MockCartStore struct {
	mu    sync.Mutex
	Carts map[string]*domain.Cart
	Err   error
}

// NewMockCartStore creates an empty cart store
func NewMockCartStore() *MockCartStore {
	return &MockCartStore{Carts: make(map[string]*domain.Cart)}
}

func (m *MockCartStore) cart(id string) *domain.Cart {
	c, ok := m.Carts[id]
	if !ok {
		c = &domain.Cart{ID: id}
		m.Carts[id] = c
	}
	return c
}

func (m *MockCartStore) Get(ctx context.Context, cartID string) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	c, ok := m.Carts[cartID]
	if !ok {
		return &domain.Cart{ID: cartID, Items: []domain.CartItem{}}, nil
	}
	out := &domain.Cart{ID: c.ID, Items: append([]domain.CartItem{}, c.Items...)}
	return out, nil
}

func (m *MockCartStore) Add(ctx context.Context, cartID string, item domain.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	c := m.cart(cartID)
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity += item.Quantity
			return nil
		}
	}
	c.Items = append(c.Items, item)
	return nil
}

func (m *MockCartStore) SetQuantity(ctx context.Context, cartID, productID string, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	c := m.cart(cartID)
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			if quantity <= 0 {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
			} else {
				c.Items[i].Quantity = quantity
			}
			return nil
		}
	}
	return nil
}

func (m *MockCartStore) Remove(ctx context.Context, cartID, productID string) error {
	return m.SetQuantity(ctx, cartID, productID, 0)
}

func (m *MockCartStore) Clear(ctx context.Context, cartID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	delete(m.Carts, cartID)
	return nil
}
