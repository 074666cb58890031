package handler

import (
	"net/http"

	"clinic-web/internal/action"
	"clinic-web/internal/domain"
	"clinic-web/internal/middleware"
	"clinic-web/internal/observability"
	"clinic-web/internal/security"
	"clinic-web/internal/service"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps is everything the router needs to build its handlers.
type Deps struct {
	Auth           *service.AuthService
	Sessions       middleware.SessionResolver
	Actions        *action.Client
	Carts          domain.CartStore
	Checkout       *service.CheckoutService
	Tokens         *security.TokenManager
	Renderer       *Renderer
	Cookies        CookieConfig
	Routes         middleware.RouteTable
	AllowedOrigins []string
	// AuthLimiter throttles /api/auth writes; nil disables it.
	AuthLimiter *middleware.RateLimiter
	ReadyChecks map[string]Check
}

// NewRouter wires the site's pages and JSON endpoints behind the gatekeeper.
func NewRouter(d Deps) http.Handler {
	content := NewContentHandler(d.Renderer)
	auth := NewAuthHandler(d.Auth, d.Cookies, d.Renderer)
	shop := NewShopHandler(d.Actions.Catalog(), d.Carts, d.Cookies, d.Renderer)
	account := NewAccountHandler(d.Actions.Orders(), d.Actions.Reviews())
	dashboard := NewDashboardHandler(d.Actions.Orders(), d.Actions.Reviews(), d.Renderer)
	checkout := NewCheckoutHandler(d.Checkout, d.Carts, d.Renderer)
	csrf := middleware.CSRF(d.Tokens)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(requestLogContext)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(d.AllowedOrigins))
	r.Use(middleware.Metrics())
	r.Use(middleware.Gatekeeper(d.Sessions, d.Routes))

	r.Get("/health", Health)
	r.Get("/health/ready", Ready(d.ReadyChecks))
	r.Handle("/metrics", promhttp.Handler())

	static := StaticFiles()
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(static)))
	r.Handle("/images/*", http.FileServerFS(static))
	for _, name := range []string{"robots.txt", "favicon.ico", "manifest.json"} {
		r.Get("/"+name, func(w http.ResponseWriter, r *http.Request) {
			http.ServeFileFS(w, r, static, name)
		})
	}
	r.Get("/sitemap.xml", content.Sitemap)

	r.Get("/", content.Home)
	for _, slug := range content.Slugs() {
		r.Get("/"+slug, content.Page(slug))
	}

	r.Get("/sign-in", auth.SignInPage)
	r.Get("/sign-up", auth.SignUpPage)
	r.Get("/forgot-password", auth.ForgotPasswordPage)
	r.Get("/forget-password", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/forgot-password", http.StatusMovedPermanently)
	})

	r.Get("/shop", shop.Shop)
	r.Get("/shop/{id}", shop.Product)
	r.Get("/cart", shop.Cart)
	r.Post("/cart/items", shop.AddItem)
	r.Post("/cart/items/{productID}/update", shop.UpdateItem)
	r.Post("/cart/items/{productID}/remove", shop.RemoveItem)

	r.Get("/dashboard", dashboard.Dashboard)
	r.Get("/dashboard/orders/{id}", dashboard.Order)
	r.With(csrf).Post("/dashboard/reviews", dashboard.CreateReview)
	r.Get("/checkout", checkout.Page)
	r.With(csrf).Post("/checkout", checkout.Submit)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			if d.AuthLimiter != nil {
				r.Use(d.AuthLimiter.Middleware())
			}
			r.Post("/sign-in", auth.SignIn)
			r.Post("/sign-up", auth.SignUp)
			r.Post("/forgot-password", auth.ForgotPassword)
			r.With(middleware.OptionalSession(d.Sessions), middleware.CSRFWhenSignedIn(d.Tokens)).
				Post("/sign-out", auth.SignOut)
			r.Get("/session", auth.Session)
		})

		r.Get("/public/products", shop.ListProducts)
		r.Get("/public/products/{id}", shop.GetProduct)

		r.Route("/account", func(r chi.Router) {
			r.Use(middleware.RequireSession(d.Sessions))
			r.Use(csrf)
			r.Get("/orders", account.ListOrders)
			r.Post("/orders", account.CreateOrder)
			r.Get("/orders/{id}", account.GetOrder)
			r.Get("/reviews", account.ListReviews)
			r.Post("/reviews", account.CreateReview)
		})
	})

	r.NotFound(d.Renderer.NotFound)

	return r
}

// requestLogContext copies chi's request ID into the logging context.
func requestLogContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimiddleware.GetReqID(r.Context()); id != "" {
			r = r.WithContext(observability.WithRequestID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}
