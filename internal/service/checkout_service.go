package service

import (
	"context"

	"clinic-web/internal/action"
	"clinic-web/internal/domain"
	"clinic-web/internal/observability"
)

const (
	MsgCartEmpty       = "Your cart is empty"
	MsgCartUnavailable = "Your cart could not be loaded"
)

// OrderCreator places orders on the remote API.
type OrderCreator interface {
	CreateOrder(ctx context.Context, input domain.CreateOrderInput) action.Result[*domain.Order]
}

// CheckoutInput is what the checkout form collects.
type CheckoutInput struct {
	ShippingAddress domain.Address
	BillingAddress  *domain.Address
	PaymentMethod   string
	ShippingMethod  string
	Notes           string
}

// CheckoutService turns a cart into a remote order.
type CheckoutService struct {
	carts  domain.CartStore
	orders OrderCreator
}

func NewCheckoutService(carts domain.CartStore, orders OrderCreator) *CheckoutService {
	return &CheckoutService{carts: carts, orders: orders}
}

// Checkout places an order for the cart's lines. The remote result is
// returned unchanged; the cart is cleared only when the order succeeded.
func (s *CheckoutService) Checkout(ctx context.Context, cartID string, in CheckoutInput) action.Result[*domain.Order] {
	logger := observability.FromContext(ctx)

	if cartID == "" {
		return action.Result[*domain.Order]{Error: MsgCartEmpty}
	}

	cart, err := s.carts.Get(ctx, cartID)
	if err != nil {
		logger.Error("failed to load cart for checkout", "cart_id", cartID, observability.Err(err))
		return action.Result[*domain.Order]{Error: MsgCartUnavailable}
	}
	if cart.IsEmpty() {
		return action.Result[*domain.Order]{Error: MsgCartEmpty}
	}

	items := make([]domain.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, domain.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	result := s.orders.CreateOrder(ctx, domain.CreateOrderInput{
		Items:           items,
		ShippingAddress: in.ShippingAddress,
		BillingAddress:  in.BillingAddress,
		PaymentMethod:   in.PaymentMethod,
		ShippingMethod:  in.ShippingMethod,
		Notes:           in.Notes,
	})
	if result.Failed() {
		return result
	}

	if err := s.carts.Clear(ctx, cartID); err != nil {
		logger.Warn("order placed but cart not cleared", "cart_id", cartID, observability.Err(err))
	}
	return result
}
