package handler

import (
	"net/http"
	"net/url"
	"strings"

	"clinic-web/internal/action"
	"clinic-web/internal/domain"
	"clinic-web/internal/observability"
	"clinic-web/internal/service"
)

// CheckoutHandler turns the visitor's cart into an order.
type CheckoutHandler struct {
	checkout *service.CheckoutService
	carts    domain.CartStore
	renderer *Renderer
}

func NewCheckoutHandler(checkout *service.CheckoutService, carts domain.CartStore, renderer *Renderer) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, carts: carts, renderer: renderer}
}

type checkoutPage struct {
	Cart *domain.Cart
	Form service.CheckoutInput
}

func (h *CheckoutHandler) Page(w http.ResponseWriter, r *http.Request) {
	c := h.loadCart(r)
	if c.IsEmpty() {
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}
	h.renderer.Render(w, r, http.StatusOK, "checkout", PageData{
		Title: "Checkout",
		Data:  checkoutPage{Cart: c},
	})
}

func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	in := checkoutInput(r.PostForm)

	result := h.checkout.Checkout(r.Context(), cartID(r), in)
	if action.IsNotAuthenticated(result) {
		redirectToSignIn(w, r, r.URL.Path)
		return
	}
	if result.Failed() {
		observability.FromContext(r.Context()).Info("checkout rejected", "error", result.Error)
		h.renderer.Render(w, r, http.StatusUnprocessableEntity, "checkout", PageData{
			Title: "Checkout",
			Error: result.Error,
			Data:  checkoutPage{Cart: h.loadCart(r), Form: in},
		})
		return
	}

	target := "/dashboard"
	if result.Data != nil && result.Data.ID != "" {
		target = "/dashboard/orders/" + url.PathEscape(result.Data.ID) + "?placed=1"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *CheckoutHandler) loadCart(r *http.Request) *domain.Cart {
	id := cartID(r)
	if id == "" {
		return &domain.Cart{}
	}
	c, err := h.carts.Get(r.Context(), id)
	if err != nil {
		observability.FromContext(r.Context()).Error("failed to load cart", "cart_id", id, observability.Err(err))
		return &domain.Cart{}
	}
	return c
}

func checkoutInput(form url.Values) service.CheckoutInput {
	get := func(key string) string { return strings.TrimSpace(form.Get(key)) }
	return service.CheckoutInput{
		ShippingAddress: domain.Address{
			FullName:   get("full_name"),
			Phone:      get("phone"),
			Line1:      get("address_line1"),
			Line2:      get("address_line2"),
			City:       get("city"),
			State:      get("state"),
			PostalCode: get("postal_code"),
			Country:    get("country"),
		},
		PaymentMethod:  get("payment_method"),
		ShippingMethod: get("shipping_method"),
		Notes:          get("notes"),
	}
}
