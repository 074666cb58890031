package domain

import (
	"context"
	"errors"
)

var ErrCartNotFound = errors.New("cart not found")

// CartItem is one product line in a visitor's cart
type CartItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Subtotal returns price times quantity.
func (i CartItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Cart represents a visitor's cart, keyed by the cart cookie
type Cart struct {
	ID    string     `json:"id"`
	Items []CartItem `json:"items"`
}

// Total returns the sum of all line subtotals.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

// Count returns the number of units in the cart.
func (c *Cart) Count() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no items
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// CartStore defines the interface for cart persistence
type CartStore interface {
	Get(ctx context.Context, cartID string) (*Cart, error)
	Add(ctx context.Context, cartID string, item CartItem) error
	SetQuantity(ctx context.Context, cartID, productID string, quantity int) error
	Remove(ctx context.Context, cartID, productID string) error
	Clear(ctx context.Context, cartID string) error
}
