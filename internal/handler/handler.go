package handler

import (
	"net/http"

	"shilajit-be/internal/ai"
	"shilajit-be/internal/auth"
	"shilajit-be/internal/logger"
	"shilajit-be/internal/middleware"
	"shilajit-be/internal/order"
	"shilajit-be/internal/payment"
	"shilajit-be/internal/product"

	"github.com/go-chi/chi/v5"
)

type Deps struct {
	Orders    order.Service
	Payments  payment.Service
	Products  product.Service
	Assistant ai.Service
	Auth      auth.Service
	Gateway   payment.Gateway

	JWTSecret  string
	Production bool
	Limiter    *middleware.RateLimiter
}

type Handler struct {
	orders     order.Service
	payments   payment.Service
	products   product.Service
	assistant  ai.Service
	auth       auth.Service
	gateway    payment.Gateway
	production bool
}

const (
	pathWalletCallback = "/api/payments/easypaisa/callback"
	pathAdminLogin     = "/api/admin/login"
)

// StrictPaths are rate limited on the strict tier.
var StrictPaths = []string{pathWalletCallback, pathAdminLogin}

func NewRouter(d Deps) http.Handler {
	h := &Handler{
		orders:     d.Orders,
		payments:   d.Payments,
		products:   d.Products,
		assistant:  d.Assistant,
		auth:       d.Auth,
		gateway:    d.Gateway,
		production: d.Production,
	}
	admin := middleware.RequireAdmin(d.JWTSecret, d.Production)

	r := chi.NewRouter()
	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(middleware.Recoverer)
	if d.Limiter != nil {
		r.Use(d.Limiter.Middleware)
	}

	r.Get("/api/health", h.Health)
	r.Post(pathAdminLogin, h.AdminLogin)

	r.Route("/api/orders", func(r chi.Router) {
		r.Post("/", h.CreateOrder)
		r.Get("/{orderNumber}", h.GetOrder)

		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Get("/", h.ListOrders)
			r.Patch("/{orderNumber}/status", h.UpdateOrderStatus)
		})
	})

	r.Route("/api/payments", func(r chi.Router) {
		r.Post("/easypaisa/initiate", h.InitiateWallet)
		r.Post("/easypaisa/callback", h.WalletCallback)
		r.Post("/bank-transfer/initiate", h.InitiateBankTransfer)
		r.Post("/cash-on-delivery/confirm", h.ConfirmCOD)
		r.Get("/status/{orderNumber}", h.PaymentStatus)

		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Post("/bank-transfer/verify", h.VerifyBankTransfer)
			r.Post("/cash-on-delivery/collect", h.CollectCOD)
		})
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/featured", h.FeaturedProducts)
		r.Get("/{slug}", h.GetProduct)

		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Post("/", h.CreateProduct)
			r.Put("/{id}", h.UpdateProduct)
			r.Delete("/{id}", h.DeleteProduct)
		})
	})

	r.Route("/api/ai", func(r chi.Router) {
		r.Post("/chatbot", h.Chatbot)
		r.Post("/recommendations", h.Recommendations)
		r.With(admin).Post("/enhance-product/{productId}", h.EnhanceProduct)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		fail(w, http.StatusNotFound, "Route not found")
	})

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ok(w, map[string]string{"status": "OK"}, "Server is running")
}
