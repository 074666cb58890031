package domain

import "time"

// Review is a customer review of a product from a delivered order. The
// delivered-order rule is enforced by the remote API.
type Review struct {
	ID        string    `json:"_id"`
	ProductID string    `json:"product"`
	OrderID   string    `json:"order"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title,omitempty"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// CreateReviewInput is the payload forwarded to POST /api/reviews.
type CreateReviewInput struct {
	ProductID string `json:"product"`
	OrderID   string `json:"order"`
	Rating    int    `json:"rating"`
	Title     string `json:"title,omitempty"`
	Comment   string `json:"comment"`
}
