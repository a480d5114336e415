package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/greenbasket/greenbasket/internal/domain/address"
	"github.com/greenbasket/greenbasket/internal/domain/cart"
	"github.com/greenbasket/greenbasket/internal/domain/coupon"
	"github.com/greenbasket/greenbasket/internal/domain/customer"
	"github.com/greenbasket/greenbasket/internal/domain/order"
	"github.com/greenbasket/greenbasket/internal/domain/partner"
	"github.com/greenbasket/greenbasket/internal/domain/product"
)

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Code: status, Message: msg})
}

// respondDomainError maps domain errors onto the API error taxonomy:
// 400 for malformed requests, 404 for missing resources, 409 for state
// conflicts, 422 for requests that are well-formed but unfulfillable.
func (h *Handler) respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, order.ErrPaymentMethodRequired),
		errors.Is(err, order.ErrShippingAddressRequired),
		errors.Is(err, order.ErrUnknownStatus):
		respondError(w, http.StatusBadRequest, err.Error())
		return

	case errors.Is(err, product.ErrNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, address.ErrNotFound),
		errors.Is(err, partner.ErrNotFound),
		errors.Is(err, customer.ErrNotFound),
		errors.Is(err, cart.ErrItemNotFound):
		respondError(w, http.StatusNotFound, err.Error())
		return

	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, partner.ErrNotAvailable),
		errors.Is(err, partner.ErrNoCurrentOrder):
		respondError(w, http.StatusConflict, err.Error())
		return

	case errors.Is(err, coupon.ErrInvalidCoupon),
		errors.Is(err, coupon.ErrMinOrderNotMet),
		errors.Is(err, coupon.ErrCouponExpired),
		errors.Is(err, coupon.ErrCouponUsageLimitReached),
		errors.Is(err, partner.ErrInvalidRating):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	var (
		iqErr  *cart.InvalidQuantityError
		isErr  *order.InsufficientStockError
		valErr *address.ValidationError
	)
	switch {
	case errors.As(err, &iqErr), errors.As(err, &isErr), errors.As(err, &valErr):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	zctx.From(r.Context()).Error("Request failed", zap.Error(err))
	respondError(w, http.StatusInternalServerError, "internal server error")
}

// decode reads the request body as JSON into v. A false return means the
// error response has already been written.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
