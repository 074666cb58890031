package action

import (
	"context"
	"net/http"
	"net/url"

	"clinic-web/internal/domain"
)

// myReviewsLimit is large enough to return every review a customer has written.
const myReviewsLimit = "1000"

// ReviewActions proxies the review endpoints.
type ReviewActions struct {
	client *Client
}

// GetMyReviews lists every review written by the signed-in customer.
func (a *ReviewActions) GetMyReviews(ctx context.Context) Result[[]domain.Review] {
	return callList[domain.Review](ctx, a.client, request{
		resource:  "reviews",
		operation: "list",
		method:    http.MethodGet,
		path:      "/api/reviews",
		query: url.Values{
			"customer": {"me"},
			"limit":    {myReviewsLimit},
		},
		fallback: "Failed to fetch reviews",
	})
}

// CreateReview submits a review. Whether the order was delivered is decided
// by the remote API.
func (a *ReviewActions) CreateReview(ctx context.Context, input domain.CreateReviewInput) Result[*domain.Review] {
	return call[*domain.Review](ctx, a.client, request{
		resource:  "reviews",
		operation: "create",
		method:    http.MethodPost,
		path:      "/api/reviews",
		body:      input,
		fallback:  "Failed to create review",
	})
}
