package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/greenbasket/greenbasket/internal/domain/order"
)

// IdempotencyKeyHeader deduplicates retried checkout requests.
const IdempotencyKeyHeader = "Idempotency-Key"

type orderItemResponse struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

type orderResponse struct {
	ID            string              `json:"id"`
	Items         []orderItemResponse `json:"items"`
	Address       addressResponse     `json:"address"`
	PaymentMethod string              `json:"paymentMethod"`
	CouponCode    string              `json:"couponCode,omitempty"`
	Summary       summaryResponse     `json:"summary"`
	Status        string              `json:"status"`
	PartnerID     string              `json:"partnerId,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

type trackingResponse struct {
	OrderID string        `json:"orderId"`
	Status  string        `json:"status"`
	Stages  []order.Stage `json:"stages"`
}

type checkoutRequest struct {
	AddressID     string          `json:"addressId"`
	Address       *addressRequest `json:"address"`
	PaymentMethod string          `json:"paymentMethod"`
	UseWallet     bool            `json:"useWallet"`
}

type transitionRequest struct {
	Status string `json:"status"`
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	customerID := CustomerID(r.Context())

	idemKey := r.Header.Get(IdempotencyKeyHeader)
	if idemKey != "" && h.idempotency != nil {
		if orderID, ok, err := h.idempotency.Lookup(r.Context(), customerID, idemKey); err == nil && ok {
			o, err := h.orders.Get(r.Context(), customerID, orderID)
			if err != nil {
				h.respondDomainError(w, r, err)
				return
			}
			respondJSON(w, http.StatusOK, toOrderResponse(o))
			return
		}
	}

	var req checkoutRequest
	if !decode(w, r, &req) {
		return
	}

	domainReq := order.CheckoutRequest{
		CustomerID:    customerID,
		AddressID:     req.AddressID,
		PaymentMethod: req.PaymentMethod,
		UseWallet:     req.UseWallet,
	}
	if req.Address != nil {
		a := req.Address.toDomain()
		domainReq.Address = &a
	}

	o, err := h.orders.Checkout(r.Context(), domainReq)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	if idemKey != "" && h.idempotency != nil {
		if err := h.idempotency.Record(r.Context(), customerID, idemKey, o.ID); err != nil {
			zctx.From(r.Context()).Warn("Recording idempotency key failed",
				zap.String("order_id", o.ID), zap.Error(err))
		}
	}

	respondJSON(w, http.StatusCreated, toOrderResponse(o))
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context(), CustomerID(r.Context()))
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	resp := make([]orderResponse, len(orders))
	for i := range orders {
		resp[i] = toOrderResponse(&orders[i])
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Get(r.Context(), CustomerID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponse(o))
}

// orderTracking returns the five-stage delivery timeline. Repeated polls are
// served from the status cache when the entry belongs to the caller; anything
// else falls through to the customer-scoped database read and refreshes the
// cache.
func (h *Handler) orderTracking(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	customerID := CustomerID(r.Context())

	if h.statusCache != nil {
		if st, owner, ok := h.statusCache.Get(r.Context(), orderID); ok && owner == customerID {
			respondJSON(w, http.StatusOK, trackingResponse{
				OrderID: orderID,
				Status:  string(st),
				Stages:  order.Timeline(st),
			})
			return
		}
	}

	o, err := h.orders.Get(r.Context(), customerID, orderID)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	if h.statusCache != nil {
		if err := h.statusCache.Set(r.Context(), o.ID, o.CustomerID, o.Status, o.UpdatedAt); err != nil {
			zctx.From(r.Context()).Warn("Caching order status failed",
				zap.String("order_id", o.ID), zap.Error(err))
		}
	}

	respondJSON(w, http.StatusOK, trackingResponse{
		OrderID: o.ID,
		Status:  string(o.Status),
		Stages:  order.Timeline(o.Status),
	})
}

func (h *Handler) transitionOrder(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if !decode(w, r, &req) {
		return
	}

	to, err := order.ParseStatus(req.Status)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	o, err := h.orders.Transition(r.Context(), chi.URLParam(r, "id"), to)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	if h.statusCache != nil {
		if err := h.statusCache.Invalidate(r.Context(), o.ID); err != nil {
			zctx.From(r.Context()).Warn("Invalidating order status cache failed",
				zap.String("order_id", o.ID), zap.Error(err))
		}
	}

	respondJSON(w, http.StatusOK, toOrderResponse(o))
}

func toOrderResponse(o *order.Order) orderResponse {
	items := make([]orderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = orderItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.InexactFloat64(),
		}
	}
	return orderResponse{
		ID:            o.ID,
		Items:         items,
		Address:       toAddressResponse(o.ShippingAddress),
		PaymentMethod: o.PaymentMethod,
		CouponCode:    o.CouponCode,
		Summary:       toSummaryResponse(o.Summary),
		Status:        string(o.Status),
		PartnerID:     o.PartnerID,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}
