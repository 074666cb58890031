package action

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"clinic-web/internal/domain"
)

// CatalogActions reads the public product catalog. No session is needed.
type CatalogActions struct {
	client *Client
}

// ListProducts returns one page of the catalog.
func (a *CatalogActions) ListProducts(ctx context.Context, q domain.ProductQuery) Result[[]domain.Product] {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}

	query := url.Values{
		"page":  {strconv.Itoa(q.Page)},
		"limit": {strconv.Itoa(q.Limit)},
	}
	if q.Category != "" {
		query.Set("category", q.Category)
	}
	if q.Search != "" {
		query.Set("search", q.Search)
	}

	return callList[domain.Product](ctx, a.client, request{
		resource:  "products",
		operation: "list",
		method:    http.MethodGet,
		path:      "/api/products",
		query:     query,
		public:    true,
		fallback:  "Failed to fetch products",
	})
}

// GetProduct fetches a single product by id or slug.
func (a *CatalogActions) GetProduct(ctx context.Context, id string) Result[*domain.Product] {
	return call[*domain.Product](ctx, a.client, request{
		resource:  "products",
		operation: "get",
		method:    http.MethodGet,
		path:      "/api/products/" + url.PathEscape(id),
		public:    true,
		fallback:  "Failed to fetch product",
	})
}
