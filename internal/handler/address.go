package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/greenbasket/greenbasket/internal/domain/address"
)

type addressRequest struct {
	Name    string `json:"name"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	PinCode string `json:"pinCode"`
	Phone   string `json:"phone"`
}

func (req addressRequest) toDomain() address.Address {
	return address.Address{
		Name:    req.Name,
		Street:  req.Street,
		City:    req.City,
		State:   req.State,
		PinCode: req.PinCode,
		Phone:   req.Phone,
	}
}

type addressResponse struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	PinCode   string `json:"pinCode"`
	Phone     string `json:"phone"`
	IsDefault bool   `json:"isDefault"`
}

func (h *Handler) listAddresses(w http.ResponseWriter, r *http.Request) {
	addrs, err := h.addresses.List(r.Context(), CustomerID(r.Context()))
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	resp := make([]addressResponse, len(addrs))
	for i, a := range addrs {
		resp[i] = toAddressResponse(a)
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) getAddress(w http.ResponseWriter, r *http.Request) {
	a, err := h.addresses.Get(r.Context(), CustomerID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toAddressResponse(*a))
}

func (h *Handler) createAddress(w http.ResponseWriter, r *http.Request) {
	var req addressRequest
	if !decode(w, r, &req) {
		return
	}

	a := req.toDomain()
	a.CustomerID = CustomerID(r.Context())
	created, err := h.addresses.Create(r.Context(), &a)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toAddressResponse(*created))
}

func (h *Handler) updateAddress(w http.ResponseWriter, r *http.Request) {
	var req addressRequest
	if !decode(w, r, &req) {
		return
	}

	a := req.toDomain()
	a.ID = chi.URLParam(r, "id")
	a.CustomerID = CustomerID(r.Context())
	updated, err := h.addresses.Update(r.Context(), &a)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toAddressResponse(*updated))
}

func (h *Handler) deleteAddress(w http.ResponseWriter, r *http.Request) {
	if err := h.addresses.Delete(r.Context(), CustomerID(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.respondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setDefaultAddress(w http.ResponseWriter, r *http.Request) {
	customerID := CustomerID(r.Context())
	id := chi.URLParam(r, "id")
	if err := h.addresses.SetDefault(r.Context(), customerID, id); err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	a, err := h.addresses.Get(r.Context(), customerID, id)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toAddressResponse(*a))
}

func toAddressResponse(a address.Address) addressResponse {
	return addressResponse{
		ID:        a.ID,
		Name:      a.Name,
		Street:    a.Street,
		City:      a.City,
		State:     a.State,
		PinCode:   a.PinCode,
		Phone:     a.Phone,
		IsDefault: a.IsDefault,
	}
}
