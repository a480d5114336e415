package handler

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/greenbasket/greenbasket/internal/domain/address"
	"github.com/greenbasket/greenbasket/internal/domain/cart"
	"github.com/greenbasket/greenbasket/internal/domain/customer"
	"github.com/greenbasket/greenbasket/internal/domain/order"
	"github.com/greenbasket/greenbasket/internal/domain/partner"
	"github.com/greenbasket/greenbasket/internal/domain/product"
)

// StatusCache caches order statuses for tracking polls. Entries carry the
// owning customer so a hit can be served without losing access scoping.
// Implemented by redisx.StatusCache; a nil cache disables caching.
type StatusCache interface {
	Get(ctx context.Context, orderID string) (st order.Status, customerID string, ok bool)
	Set(ctx context.Context, orderID, customerID string, st order.Status, updatedAt time.Time) error
	Invalidate(ctx context.Context, orderID string) error
}

// IdempotencyStore deduplicates checkout requests by client-supplied key,
// scoped per customer. Implemented by redisx.IdempotencyStore; a nil store
// disables deduplication.
type IdempotencyStore interface {
	Lookup(ctx context.Context, customerID, key string) (string, bool, error)
	Record(ctx context.Context, customerID, key, orderID string) error
}

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// ImageBaseURL is prepended to relative image paths in product responses.
	// When empty, image paths are returned as stored in the database.
	ImageBaseURL string
}

// Handler serves the storefront API, delegating business logic to the domain
// services.
type Handler struct {
	products     product.Repository
	customers    customer.Repository
	carts        *cart.Service
	orders       *order.Service
	addresses    *address.Service
	partners     *partner.Service
	statusCache  StatusCache
	idempotency  IdempotencyStore
	imageBaseURL string
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	cfg Config,
	products product.Repository,
	customers customer.Repository,
	carts *cart.Service,
	orders *order.Service,
	addresses *address.Service,
	partners *partner.Service,
	statusCache StatusCache,
	idempotency IdempotencyStore,
) *Handler {
	return &Handler{
		products:     products,
		customers:    customers,
		carts:        carts,
		orders:       orders,
		addresses:    addresses,
		partners:     partners,
		statusCache:  statusCache,
		idempotency:  idempotency,
		imageBaseURL: cfg.ImageBaseURL,
	}
}

// Routes mounts every API endpoint under /api. The product catalog is public;
// everything else requires an API key.
func (h *Handler) Routes(sec *Security) chi.Router {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.listProducts)
		r.Get("/products/{id}", h.getProduct)

		r.Group(func(r chi.Router) {
			r.Use(sec.Middleware)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.getCart)
				r.Delete("/", h.clearCart)
				r.Get("/summary", h.cartSummary)
				r.Post("/items", h.addCartItem)
				r.Put("/items/{productID}", h.updateCartItem)
				r.Delete("/items/{productID}", h.removeCartItem)
				r.Post("/coupon", h.applyCoupon)
				r.Delete("/coupon", h.removeCoupon)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", h.checkout)
				r.Get("/", h.listOrders)
				r.Get("/{id}", h.getOrder)
				r.Get("/{id}/tracking", h.orderTracking)
				r.Post("/{id}/status", h.transitionOrder)
			})

			r.Route("/addresses", func(r chi.Router) {
				r.Get("/", h.listAddresses)
				r.Post("/", h.createAddress)
				r.Get("/{id}", h.getAddress)
				r.Put("/{id}", h.updateAddress)
				r.Delete("/{id}", h.deleteAddress)
				r.Post("/{id}/default", h.setDefaultAddress)
			})

			r.Route("/partners/{id}", func(r chi.Router) {
				r.Get("/", h.getPartner)
				r.Post("/location", h.updatePartnerLocation)
				r.Post("/assign", h.assignPartnerOrder)
				r.Post("/complete", h.completePartnerDelivery)
				r.Post("/rating", h.ratePartner)
			})
		})
	})

	return r
}
