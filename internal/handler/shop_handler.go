package handler

import (
	"net/http"
	"strconv"

	"clinic-web/internal/action"
	"clinic-web/internal/cart"
	"clinic-web/internal/domain"
	"clinic-web/internal/observability"

	"github.com/go-chi/chi/v5"
)

// ShopHandler serves the product catalog and the visitor's cart.
type ShopHandler struct {
	catalog  *action.CatalogActions
	carts    domain.CartStore
	cookies  CookieConfig
	renderer *Renderer
}

func NewShopHandler(catalog *action.CatalogActions, carts domain.CartStore, cookies CookieConfig, renderer *Renderer) *ShopHandler {
	return &ShopHandler{catalog: catalog, carts: carts, cookies: cookies, renderer: renderer}
}

type shopPage struct {
	Query  domain.ProductQuery
	Result action.Result[[]domain.Product]
}

func productQuery(r *http.Request) domain.ProductQuery {
	q := r.URL.Query()
	return domain.ProductQuery{
		Page:     queryInt(q.Get("page")),
		Limit:    queryInt(q.Get("limit")),
		Category: q.Get("category"),
		Search:   q.Get("search"),
	}
}

// queryInt parses a positive integer, returning 0 when absent or invalid so
// the action defaults apply.
func queryInt(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0
	}
	return n
}

// Shop renders the catalog. A failed fetch renders as an empty list.
func (h *ShopHandler) Shop(w http.ResponseWriter, r *http.Request) {
	q := productQuery(r)
	h.renderer.Render(w, r, http.StatusOK, "shop", PageData{
		Title: "Shop",
		Data:  shopPage{Query: q, Result: h.catalog.ListProducts(r.Context(), q)},
	})
}

// Product renders a single product page.
func (h *ShopHandler) Product(w http.ResponseWriter, r *http.Request) {
	result := h.catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if result.Failed() || result.Data == nil {
		h.renderer.NotFound(w, r)
		return
	}
	h.renderer.Render(w, r, http.StatusOK, "product", PageData{
		Title: result.Data.Name,
		Data:  result.Data,
	})
}

// ListProducts handles GET /api/public/products
func (h *ShopHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	writeResult(w, r, http.StatusOK, h.catalog.ListProducts(r.Context(), productQuery(r)))
}

// GetProduct handles GET /api/public/products/{id}
func (h *ShopHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	writeResult(w, r, http.StatusOK, h.catalog.GetProduct(r.Context(), chi.URLParam(r, "id")))
}

// Cart renders the cart page.
func (h *ShopHandler) Cart(w http.ResponseWriter, r *http.Request) {
	c := &domain.Cart{}
	var errMsg string
	if id := cartID(r); id != "" {
		loaded, err := h.carts.Get(r.Context(), id)
		if err != nil {
			observability.FromContext(r.Context()).Error("failed to load cart", "cart_id", id, observability.Err(err))
			errMsg = "Your cart could not be loaded"
		} else {
			c = loaded
		}
	}
	h.renderer.Render(w, r, http.StatusOK, "cart", PageData{Title: "Your cart", Error: errMsg, Data: c})
}

// AddItem handles POST /cart/items. Name and price come from the catalog,
// never from the form.
func (h *ShopHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	productID := r.PostForm.Get("product_id")
	quantity := cart.ClampQuantity(queryInt(r.PostForm.Get("quantity")))

	result := h.catalog.GetProduct(r.Context(), productID)
	if productID == "" || result.Failed() || result.Data == nil {
		h.renderer.Render(w, r, http.StatusUnprocessableEntity, "cart", PageData{
			Title: "Your cart",
			Error: "That product is not available",
			Data:  h.currentCart(r),
		})
		return
	}

	id := h.cookies.ensureCartID(w, r)
	err := h.carts.Add(r.Context(), id, domain.CartItem{
		ProductID: result.Data.ID,
		Name:      result.Data.Name,
		Price:     result.Data.Price,
		Quantity:  quantity,
	})
	if err != nil {
		observability.FromContext(r.Context()).Error("failed to add to cart", "cart_id", id, observability.Err(err))
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// UpdateItem handles POST /cart/items/{productID}/update
func (h *ShopHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id := cartID(r)
	if id == "" {
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	quantity, err := strconv.Atoi(r.PostForm.Get("quantity"))
	if err != nil {
		quantity = 0
	}
	if quantity > cart.MaxQuantity {
		quantity = cart.MaxQuantity
	}

	if err := h.carts.SetQuantity(r.Context(), id, chi.URLParam(r, "productID"), quantity); err != nil {
		observability.FromContext(r.Context()).Error("failed to update cart", "cart_id", id, observability.Err(err))
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// RemoveItem handles POST /cart/items/{productID}/remove
func (h *ShopHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id := cartID(r)
	if id == "" {
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}
	if err := h.carts.Remove(r.Context(), id, chi.URLParam(r, "productID")); err != nil {
		observability.FromContext(r.Context()).Error("failed to remove cart item", "cart_id", id, observability.Err(err))
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (h *ShopHandler) currentCart(r *http.Request) *domain.Cart {
	id := cartID(r)
	if id == "" {
		return &domain.Cart{}
	}
	c, err := h.carts.Get(r.Context(), id)
	if err != nil {
		return &domain.Cart{}
	}
	return c
}
