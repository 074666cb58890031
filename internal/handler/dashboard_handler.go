package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"clinic-web/internal/action"
	"clinic-web/internal/domain"
	"clinic-web/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// DashboardHandler renders the account pages. The gatekeeper has already
// redirected anonymous visitors; a session that lapses mid-request shows
// up as a "Not authenticated" result and is sent back to sign-in.
type DashboardHandler struct {
	orders   *action.OrderActions
	reviews  *action.ReviewActions
	renderer *Renderer
}

func NewDashboardHandler(orders *action.OrderActions, reviews *action.ReviewActions, renderer *Renderer) *DashboardHandler {
	return &DashboardHandler{orders: orders, reviews: reviews, renderer: renderer}
}

type dashboardPage struct {
	Orders  action.Result[[]domain.Order]
	Reviews action.Result[[]domain.Review]
}

func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data := PageData{Title: "Your account"}
	if r.URL.Query().Get("review") == "created" {
		data.Notice = "Thank you, your review has been submitted."
	}
	h.render(w, r, http.StatusOK, data)
}

// render loads the visitor's orders and reviews into data. Messages shown on
// the page come from the handlers, never from the query string.
func (h *DashboardHandler) render(w http.ResponseWriter, r *http.Request, status int, data PageData) {
	q := r.URL.Query()
	orders := h.orders.GetMyOrders(r.Context(), queryInt(q.Get("page")), queryInt(q.Get("limit")))
	if action.IsNotAuthenticated(orders) {
		redirectToSignIn(w, r, "/dashboard")
		return
	}
	data.Data = dashboardPage{Orders: orders, Reviews: h.reviews.GetMyReviews(r.Context())}
	h.renderer.Render(w, r, status, "dashboard", data)
}

func (h *DashboardHandler) Order(w http.ResponseWriter, r *http.Request) {
	result := h.orders.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if action.IsNotAuthenticated(result) {
		redirectToSignIn(w, r, r.URL.Path)
		return
	}
	if result.Failed() || result.Data == nil {
		h.renderer.Render(w, r, http.StatusNotFound, "not_found", PageData{
			Title: "Order not found",
			Error: result.Error,
		})
		return
	}

	data := PageData{Title: "Order", Data: result.Data}
	if r.URL.Query().Get("placed") == "1" {
		data.Notice = "Thank you, your order has been placed."
	}
	h.renderer.Render(w, r, http.StatusOK, "order", data)
}

// CreateReview handles the review form on the order page. Eligibility is
// decided by the remote API.
func (h *DashboardHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	rating, _ := strconv.Atoi(r.PostForm.Get("rating"))
	orderID := r.PostForm.Get("order_id")

	result := h.reviews.CreateReview(r.Context(), domain.CreateReviewInput{
		ProductID: r.PostForm.Get("product_id"),
		OrderID:   orderID,
		Rating:    rating,
		Title:     strings.TrimSpace(r.PostForm.Get("title")),
		Comment:   strings.TrimSpace(r.PostForm.Get("comment")),
	})
	if action.IsNotAuthenticated(result) {
		returnTo := "/dashboard"
		if orderID != "" {
			returnTo = "/dashboard/orders/" + url.PathEscape(orderID)
		}
		redirectToSignIn(w, r, returnTo)
		return
	}
	if result.Failed() {
		h.render(w, r, http.StatusUnprocessableEntity, PageData{Title: "Your account", Error: result.Error})
		return
	}
	http.Redirect(w, r, "/dashboard?review=created", http.StatusSeeOther)
}

// redirectToSignIn sends the visitor to sign in and back to returnTo, the
// page that issued the request.
func redirectToSignIn(w http.ResponseWriter, r *http.Request, returnTo string) {
	http.Redirect(w, r, middleware.SignInURL(returnTo), http.StatusSeeOther)
}
