package handler

import (
	"encoding/json"
	"net/http"

	"clinic-web/internal/action"
	"clinic-web/internal/domain"

	"github.com/go-chi/chi/v5"
)

// AccountHandler exposes the signed-in customer's orders and reviews as JSON.
// Bodies are the action envelope, unchanged.
type AccountHandler struct {
	orders  *action.OrderActions
	reviews *action.ReviewActions
}

func NewAccountHandler(orders *action.OrderActions, reviews *action.ReviewActions) *AccountHandler {
	return &AccountHandler{orders: orders, reviews: reviews}
}

// ListOrders handles GET /api/account/orders?page&limit
func (h *AccountHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeResult(w, r, http.StatusOK, h.orders.GetMyOrders(r.Context(), queryInt(q.Get("page")), queryInt(q.Get("limit"))))
}

// GetOrder handles GET /api/account/orders/{id}
func (h *AccountHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	writeResult(w, r, http.StatusOK, h.orders.GetOrder(r.Context(), chi.URLParam(r, "id")))
}

// CreateOrder handles POST /api/account/orders
func (h *AccountHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var input domain.CreateOrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	writeResult(w, r, http.StatusCreated, h.orders.CreateOrder(r.Context(), input))
}

// ListReviews handles GET /api/account/reviews
func (h *AccountHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	writeResult(w, r, http.StatusOK, h.reviews.GetMyReviews(r.Context()))
}

// CreateReview handles POST /api/account/reviews
func (h *AccountHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var input domain.CreateReviewInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	writeResult(w, r, http.StatusCreated, h.reviews.CreateReview(r.Context(), input))
}
