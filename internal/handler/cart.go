package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/greenbasket/greenbasket/internal/domain/cart"
	"github.com/greenbasket/greenbasket/internal/domain/pricing"
)

type cartItemResponse struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	LineTotal float64 `json:"lineTotal"`
}

type cartResponse struct {
	Items      []cartItemResponse `json:"items"`
	CouponCode string             `json:"couponCode,omitempty"`
	TotalItems int                `json:"totalItems"`
	Subtotal   float64            `json:"subtotal"`
}

type summaryResponse struct {
	Subtotal      float64 `json:"subtotal"`
	Discount      float64 `json:"discount"`
	DeliveryFee   float64 `json:"deliveryFee"`
	Tax           float64 `json:"tax"`
	GrandTotal    float64 `json:"grandTotal"`
	WalletApplied float64 `json:"walletApplied"`
	Payable       float64 `json:"payable"`
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

type applyCouponRequest struct {
	Code string `json:"code"`
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Get(r.Context(), CustomerID(r.Context()))
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartResponse(c))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Clear(r.Context(), CustomerID(r.Context())); err != nil {
		h.respondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !decode(w, r, &req) {
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "productId is required")
		return
	}

	c, err := h.carts.AddItem(r.Context(), CustomerID(r.Context()), req.ProductID, req.Quantity)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartResponse(c))
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if !decode(w, r, &req) {
		return
	}

	c, err := h.carts.UpdateItem(r.Context(), CustomerID(r.Context()), chi.URLParam(r, "productID"), req.Quantity)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartResponse(c))
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.RemoveItem(r.Context(), CustomerID(r.Context()), chi.URLParam(r, "productID"))
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartResponse(c))
}

func (h *Handler) applyCoupon(w http.ResponseWriter, r *http.Request) {
	var req applyCouponRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Code == "" {
		respondError(w, http.StatusBadRequest, "code is required")
		return
	}

	c, d, err := h.carts.ApplyCoupon(r.Context(), CustomerID(r.Context()), req.Code)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		cartResponse
		Discount    float64 `json:"discount"`
		Description string  `json:"description,omitempty"`
	}{
		cartResponse: toCartResponse(c),
		Discount:     d.Amount.InexactFloat64(),
		Description:  d.Description,
	})
}

func (h *Handler) removeCoupon(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.RemoveCoupon(r.Context(), CustomerID(r.Context()))
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartResponse(c))
}

// cartSummary prices the cart. Pass useWallet=true to preview the wallet
// deduction against the customer's current balance.
func (h *Handler) cartSummary(w http.ResponseWriter, r *http.Request) {
	customerID := CustomerID(r.Context())
	useWallet, _ := strconv.ParseBool(r.URL.Query().Get("useWallet"))

	wallet := decimal.Zero
	if useWallet {
		cust, err := h.customers.GetByID(r.Context(), customerID)
		if err != nil {
			h.respondDomainError(w, r, err)
			return
		}
		wallet = cust.WalletBalance
	}

	c, sum, err := h.carts.Summarize(r.Context(), customerID, useWallet, wallet)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		Cart    cartResponse    `json:"cart"`
		Summary summaryResponse `json:"summary"`
	}{
		Cart:    toCartResponse(c),
		Summary: toSummaryResponse(sum),
	})
}

func toCartResponse(c *cart.Cart) cartResponse {
	items := make([]cartItemResponse, len(c.Items))
	for i, it := range c.Items {
		items[i] = cartItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice.InexactFloat64(),
			LineTotal: it.LineTotal().InexactFloat64(),
		}
	}
	return cartResponse{
		Items:      items,
		CouponCode: c.CouponCode,
		TotalItems: c.TotalItems(),
		Subtotal:   c.Subtotal().InexactFloat64(),
	}
}

func toSummaryResponse(s pricing.Summary) summaryResponse {
	return summaryResponse{
		Subtotal:      s.Subtotal.InexactFloat64(),
		Discount:      s.Discount.InexactFloat64(),
		DeliveryFee:   s.DeliveryFee.InexactFloat64(),
		Tax:           s.Tax.InexactFloat64(),
		GrandTotal:    s.GrandTotal.InexactFloat64(),
		WalletApplied: s.WalletApplied.InexactFloat64(),
		Payable:       s.Payable.InexactFloat64(),
	}
}
