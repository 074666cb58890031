package domain

import "time"

// Address is a shipping or billing address as accepted by the remote API.
type Address struct {
	FullName   string `json:"fullName"`
	Phone      string `json:"phone,omitempty"`
	Line1      string `json:"addressLine1"`
	Line2      string `json:"addressLine2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// OrderItem is a single line of an order.
type OrderItem struct {
	ProductID string  `json:"product"`
	Name      string  `json:"name,omitempty"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price,omitempty"`
}

// Order is owned by the remote API; this service only passes it through.
type Order struct {
	ID             string      `json:"_id"`
	OrderNumber    string      `json:"orderNumber,omitempty"`
	Items          []OrderItem `json:"items"`
	ShippingAddr   *Address    `json:"shippingAddress,omitempty"`
	BillingAddr    *Address    `json:"billingAddress,omitempty"`
	PaymentMethod  string      `json:"paymentMethod,omitempty"`
	ShippingMethod string      `json:"shippingMethod,omitempty"`
	Status         string      `json:"status,omitempty"`
	Total          float64     `json:"total,omitempty"`
	Notes          string      `json:"notes,omitempty"`
	CreatedAt      time.Time   `json:"createdAt,omitempty"`
}

// CreateOrderInput is the payload forwarded to POST /api/orders. It is not
// validated locally.
type CreateOrderInput struct {
	Items           []OrderItem `json:"items"`
	ShippingAddress Address     `json:"shippingAddress"`
	BillingAddress  *Address    `json:"billingAddress,omitempty"`
	PaymentMethod   string      `json:"paymentMethod"`
	ShippingMethod  string      `json:"shippingMethod,omitempty"`
	Notes           string      `json:"notes,omitempty"`
}
