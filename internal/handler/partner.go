package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/greenbasket/greenbasket/internal/domain/partner"
)

type locationResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type partnerResponse struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Phone         string           `json:"phone"`
	VehicleType   string           `json:"vehicleType"`
	VehicleNumber string           `json:"vehicleNumber"`
	Location      locationResponse `json:"location"`
	IsOnline      bool             `json:"isOnline"`
	IsAvailable   bool             `json:"isAvailable"`
	CurrentOrder  string           `json:"currentOrder,omitempty"`
	Earnings      float64          `json:"earnings"`
	Rating        float64          `json:"rating"`
	RatingCount   int              `json:"ratingCount"`
}

type locationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type assignOrderRequest struct {
	OrderID string `json:"orderId"`
}

type completeDeliveryRequest struct {
	Earning float64 `json:"earning"`
}

type ratingRequest struct {
	Rating int `json:"rating"`
}

func (h *Handler) getPartner(w http.ResponseWriter, r *http.Request) {
	p, err := h.partners.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toPartnerResponse(p))
}

func (h *Handler) updatePartnerLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if !decode(w, r, &req) {
		return
	}

	p, err := h.partners.UpdateLocation(r.Context(), chi.URLParam(r, "id"), partner.Location{
		Lat: req.Lat,
		Lng: req.Lng,
	})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toPartnerResponse(p))
}

func (h *Handler) assignPartnerOrder(w http.ResponseWriter, r *http.Request) {
	var req assignOrderRequest
	if !decode(w, r, &req) {
		return
	}
	if req.OrderID == "" {
		respondError(w, http.StatusBadRequest, "orderId is required")
		return
	}

	p, err := h.partners.AssignOrder(r.Context(), chi.URLParam(r, "id"), req.OrderID)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toPartnerResponse(p))
}

func (h *Handler) completePartnerDelivery(w http.ResponseWriter, r *http.Request) {
	var req completeDeliveryRequest
	if !decode(w, r, &req) {
		return
	}
	partnerID := chi.URLParam(r, "id")

	// Completion clears the partner's current order; capture it first so the
	// tracking cache can be invalidated for the delivered order.
	var orderID string
	if h.statusCache != nil {
		if before, err := h.partners.Get(r.Context(), partnerID); err == nil {
			orderID = before.CurrentOrder
		}
	}

	p, err := h.partners.CompleteDelivery(r.Context(), partnerID, decimal.NewFromFloat(req.Earning))
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	if h.statusCache != nil && orderID != "" {
		if err := h.statusCache.Invalidate(r.Context(), orderID); err != nil {
			zctx.From(r.Context()).Warn("Invalidating order status cache failed",
				zap.String("order_id", orderID), zap.Error(err))
		}
	}

	respondJSON(w, http.StatusOK, toPartnerResponse(p))
}

func (h *Handler) ratePartner(w http.ResponseWriter, r *http.Request) {
	var req ratingRequest
	if !decode(w, r, &req) {
		return
	}

	p, err := h.partners.UpdateRating(r.Context(), chi.URLParam(r, "id"), req.Rating)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toPartnerResponse(p))
}

func toPartnerResponse(p *partner.Partner) partnerResponse {
	return partnerResponse{
		ID:            p.ID,
		Name:          p.Name,
		Phone:         p.Phone,
		VehicleType:   p.VehicleType,
		VehicleNumber: p.VehicleNumber,
		Location:      locationResponse{Lat: p.Location.Lat, Lng: p.Location.Lng},
		IsOnline:      p.IsOnline,
		IsAvailable:   p.IsAvailable,
		CurrentOrder:  p.CurrentOrder,
		Earnings:      p.Earnings.InexactFloat64(),
		Rating:        p.Rating.InexactFloat64(),
		RatingCount:   p.RatingCount,
	}
}
