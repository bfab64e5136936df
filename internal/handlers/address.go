package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"zshop-storefront-api/internal/models"
	"zshop-storefront-api/internal/services"
)

// AddressHandler manages the shopper's address book.
type AddressHandler struct {
	addresses *services.AddressService
}

func NewAddressHandler(addresses *services.AddressService) *AddressHandler {
	return &AddressHandler{addresses: addresses}
}

// List handles GET /v1/addresses.
func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.addresses.Addresses(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to load addresses")
		return
	}
	writeJSONResponse(w, http.StatusOK, nonNil(list))
}

// Create handles POST /v1/addresses.
func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.AddressRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	a, err := h.addresses.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "Failed to save address")
		return
	}
	writeJSONResponse(w, http.StatusCreated, a)
}

// Update handles PUT /v1/addresses/{addressId}.
func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.AddressRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	a, err := h.addresses.Update(r.Context(), mux.Vars(r)["addressId"], req)
	if err != nil {
		writeServiceError(w, r, err, "Failed to save address")
		return
	}
	writeJSONResponse(w, http.StatusOK, a)
}

// Delete handles DELETE /v1/addresses/{addressId}.
func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.addresses.Delete(r.Context(), mux.Vars(r)["addressId"]); err != nil {
		writeServiceError(w, r, err, "Failed to delete address")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetDefault handles PUT /v1/addresses/{addressId}/default.
func (h *AddressHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	a, err := h.addresses.SetDefault(r.Context(), mux.Vars(r)["addressId"])
	if err != nil {
		writeServiceError(w, r, err, "Failed to set default address")
		return
	}
	writeJSONResponse(w, http.StatusOK, a)
}
