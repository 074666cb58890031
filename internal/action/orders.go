package action

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"clinic-web/internal/domain"
)

// OrderActions proxies the signed-in customer's order endpoints.
type OrderActions struct {
	client *Client
}

// GetMyOrders lists the customer's orders. page and limit below 1 fall back
// to 1 and 10.
func (a *OrderActions) GetMyOrders(ctx context.Context, page, limit int) Result[[]domain.Order] {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	return callList[domain.Order](ctx, a.client, request{
		resource:  "orders",
		operation: "list",
		method:    http.MethodGet,
		path:      "/api/orders/my-orders",
		query: url.Values{
			"page":  {strconv.Itoa(page)},
			"limit": {strconv.Itoa(limit)},
		},
		fallback: "Failed to fetch orders",
	})
}

// GetOrder fetches a single order.
func (a *OrderActions) GetOrder(ctx context.Context, id string) Result[*domain.Order] {
	return call[*domain.Order](ctx, a.client, request{
		resource:  "orders",
		operation: "get",
		method:    http.MethodGet,
		path:      "/api/orders/" + url.PathEscape(id),
		fallback:  "Failed to fetch order",
	})
}

// CreateOrder places an order. The payload is forwarded as is.
func (a *OrderActions) CreateOrder(ctx context.Context, input domain.CreateOrderInput) Result[*domain.Order] {
	return call[*domain.Order](ctx, a.client, request{
		resource:  "orders",
		operation: "create",
		method:    http.MethodPost,
		path:      "/api/orders",
		body:      input,
		fallback:  "Failed to create order",
	})
}
