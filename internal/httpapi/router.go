package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/saitejagovikar/my-website-sub000/internal/auth"
)

type RouterConfig struct {
	Verifier       *auth.Verifier
	Carts          *CartHandler
	Checkout       *CheckoutHandler
	Orders         *OrdersHandler
	Addresses      *AddressHandler
	Products       *ProductHandler
	RequestTimeout time.Duration
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	r.Use(chimiddleware.Compress(5))
	r.Use(MetricsMiddleware)
	r.Use(SessionMiddleware)
	r.Use(AuthMiddleware(cfg.Verifier))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", cfg.Products.List)
			r.Get("/{id}", cfg.Products.Get)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cfg.Carts.GetCart)
			r.Delete("/", cfg.Carts.ClearCart)
			r.Get("/summary", cfg.Carts.Summary)
			r.Post("/items", cfg.Carts.AddItem)
			r.Put("/items/{key}", cfg.Carts.UpdateQuantity)
			r.Delete("/items/{key}", cfg.Carts.RemoveItem)
			r.With(RequireAuth).Post("/merge", cfg.Carts.Merge)
		})

		r.Route("/user", func(r chi.Router) {
			r.Use(RequireAuth)
			r.Get("/cart", cfg.Carts.GetMirror)
			r.Put("/cart", cfg.Carts.ReplaceMirror)

			r.Route("/addresses", func(r chi.Router) {
				r.Get("/", cfg.Addresses.List)
				r.Post("/", cfg.Addresses.Create)
				r.Put("/{id}", cfg.Addresses.Update)
				r.Delete("/{id}", cfg.Addresses.Delete)
			})
			r.Route("/payment-profiles", func(r chi.Router) {
				r.Get("/", cfg.Addresses.ListProfiles)
				r.Post("/", cfg.Addresses.CreateProfile)
				r.Put("/{id}", cfg.Addresses.UpdateProfile)
				r.Delete("/{id}", cfg.Addresses.DeleteProfile)
			})
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Use(RequireAuth)
			r.Post("/cod", cfg.Checkout.PlaceCODOrder)
			r.Post("/gateway-order", cfg.Checkout.CreateGatewayOrder)
			r.Post("/verify", cfg.Checkout.VerifyPayment)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(RequireAuth)
			r.Get("/", cfg.Orders.ListMine)
			r.Get("/{id}", cfg.Orders.Get)
			r.Post("/{id}/cancel", cfg.Orders.Cancel)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireAdmin)
			r.Get("/orders", cfg.Orders.AdminList)
			r.Get("/orders/stats", cfg.Orders.AdminStats)
			r.Put("/orders/{id}/status", cfg.Orders.AdminUpdateStatus)
		})
	})

	return r
}
