package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"clinic-web/internal/domain"
)

var idCounter atomic.Int64

func nextID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, idCounter.Add(1))
}

// SessionOptions allows customizing session fixture creation
type SessionOptions struct {
	ID          string
	UserID      string
	Name        string
	Email       string
	Token       string
	AccessToken string
	CSRFToken   string
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// NewTestSession creates a signed-in session with sensible defaults
func NewTestSession(opts ...func(*SessionOptions)) *domain.Session {
	o := &SessionOptions{
		ID:          nextID("session"),
		UserID:      nextID("user"),
		Name:        "Test Patient",
		Email:       "patient@example.com",
		Token:       nextID("token"),
		AccessToken: nextID("access"),
		CSRFToken:   nextID("csrf"),
		ExpiresAt:   time.Now().Add(24 * time.Hour),
		CreatedAt:   time.Now(),
	}

	for _, opt := range opts {
		opt(o)
	}

	return &domain.Session{
		ID:          o.ID,
		UserID:      o.UserID,
		Name:        o.Name,
		Email:       o.Email,
		Token:       o.Token,
		AccessToken: o.AccessToken,
		CSRFToken:   o.CSRFToken,
		ExpiresAt:   o.ExpiresAt,
		CreatedAt:   o.CreatedAt,
	}
}

// WithSessionID sets the session ID
func WithSessionID(id string) func(*SessionOptions) {
	return func(o *SessionOptions) { o.ID = id }
}

// WithSessionUserID sets the user ID for the session
func WithSessionUserID(userID string) func(*SessionOptions) {
	return func(o *SessionOptions) { o.UserID = userID }
}

// WithToken sets the session cookie token
func WithToken(token string) func(*SessionOptions) {
	return func(o *SessionOptions) { o.Token = token }
}

// WithAccessToken sets the remote bearer credential
func WithAccessToken(token string) func(*SessionOptions) {
	return func(o *SessionOptions) { o.AccessToken = token }
}

// WithCSRFToken sets the CSRF token
func WithCSRFToken(token string) func(*SessionOptions) {
	return func(o *SessionOptions) { o.CSRFToken = token }
}

// WithExpired creates an expired session
func WithExpired() func(*SessionOptions) {
	return func(o *SessionOptions) { o.ExpiresAt = time.Now().Add(-1 * time.Hour) }
}

// NewTestOrder creates an order as the remote API would return it
func NewTestOrder(status string) domain.Order {
	return domain.Order{
		ID:          nextID("order"),
		OrderNumber: nextID("GYN"),
		Items: []domain.OrderItem{
			{ProductID: "prod-1", Name: "Prenatal vitamins", Quantity: 1, Price: 24.5},
		},
		Status:    status,
		Total:     24.5,
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}
}

// NewTestReview creates a review fixture
func NewTestReview(productID, orderID string, rating int) domain.Review {
	return domain.Review{
		ID:        nextID("review"),
		ProductID: productID,
		OrderID:   orderID,
		Rating:    rating,
		Comment:   "Helpful and discreet delivery",
	}
}

// NewTestProduct creates a catalog product fixture
func NewTestProduct(name string, price float64) domain.Product {
	return domain.Product{
		ID:       nextID("prod"),
		Name:     name,
		Category: "wellbeing",
		Price:    price,
		Stock:    10,
	}
}
