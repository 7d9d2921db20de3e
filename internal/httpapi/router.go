package httpapi

import (
	"net/http"
	"time"

	"storefront-be/internal/logger"
	"storefront-be/internal/middleware"
	"storefront-be/internal/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

const requestTimeout = 15 * time.Second

type RouterOptions struct {
	Auth       *middleware.Auth
	Limiter    *middleware.RateLimiter
	CORSOrigin string
}

func NewRouter(h *Handler, opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	r.Use(logger.RequestIDMiddleware)
	r.Use(middleware.Recovery)
	r.Use(chimw.RealIP)
	r.Use(logger.LoggingMiddleware)
	r.Use(middleware.CORS(opts.CORSOrigin))
	r.Use(chimw.Timeout(requestTimeout))
	// The limiter keys signed-in callers by user; it must run after Auth.
	if opts.Auth != nil {
		r.Use(opts.Auth.Authenticate)
	}
	if opts.Limiter != nil {
		r.Use(opts.Limiter.Middleware)
	}

	r.Get("/health", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/register", h.register)
			r.Post("/login", h.login)
			r.With(middleware.RequireUser).Get("/profile", h.profile)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.listProducts)
			r.Get("/best-seller", h.bestSeller)
			r.Get("/new-arrivals", h.newArrivals)
			r.Get("/similar/{id}", h.similarProducts)
			r.Get("/{id}", h.getProduct)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser, middleware.RequireAdmin)
				r.Post("/", h.createProduct)
				r.Put("/{id}", h.updateProduct)
				r.Delete("/{id}", h.deleteProduct)
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Post("/", h.addToCart)
			r.Put("/", h.updateCartItem)
			r.Delete("/", h.removeCartItem)
			r.Get("/", h.getCart)
			r.With(middleware.RequireUser).Post("/merge", h.mergeCart)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Use(middleware.RequireUser)
			r.Post("/", h.createCheckout)
			r.Get("/{id}", h.getCheckout)
			r.Put("/{id}/pay", h.payCheckout)
			r.Post("/{id}/finalize", h.finalizeCheckout)
		})

		r.Route("/orders", func(r chi.Router) {
			r.With(middleware.RequireUser).Get("/my-orders", h.myOrders)
			r.Get("/{id}", h.getOrder)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireUser, middleware.RequireAdmin)

			r.Get("/users", h.adminListUsers)
			r.Post("/users", h.adminCreateUser)
			r.Put("/users/{id}", h.adminUpdateUser)
			r.Delete("/users/{id}", h.adminDeleteUser)

			r.Get("/products", h.adminListProducts)

			r.Get("/orders", h.adminListOrders)
			r.Put("/orders/{id}", h.adminUpdateOrder)
			r.Delete("/orders/{id}", h.adminDeleteOrder)
		})

		r.Post("/subscribe", h.subscribe)
		r.With(middleware.RequireUser, middleware.RequireAdmin).Post("/upload", h.uploadImage)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSONError(w, "Not found", http.StatusNotFound)
	})

	return r
}
