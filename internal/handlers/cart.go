package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"zshop-storefront-api/internal/client"
	"zshop-storefront-api/internal/services"
)

// HeaderCartStale marks a cart served from the last snapshot.
const HeaderCartStale = "X-Cart-Stale"

// CartHandler handles the shopper's cart.
type CartHandler struct {
	cart *services.CartService
}

func NewCartHandler(cart *services.CartService) *CartHandler {
	return &CartHandler{cart: cart}
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart handles GET /v1/cart.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cart.Cart(r.Context())
	if err != nil {
		if !client.IsUnauthorized(err) {
			if mirrored, ok := h.cart.Mirrored(r.Context()); ok {
				slog.Warn("Serving last known cart", "error", err)
				w.Header().Set(HeaderCartStale, "true")
				writeJSONResponse(w, http.StatusOK, mirrored)
				return
			}
		}
		writeServiceError(w, r, err, "Failed to load cart")
		return
	}
	writeJSONResponse(w, http.StatusOK, cart)
}

// AddItem handles POST /v1/cart/items with {productId, sku, quantity}.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	req := services.AddItemRequest{Quantity: 1}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ProductID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "bad_request", "productId is required", nil)
		return
	}

	cart, err := h.cart.AddVariant(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "Failed to add item to cart")
		return
	}
	writeJSONResponse(w, http.StatusOK, cart)
}

// UpdateItem handles PATCH /v1/cart/items/{productId}.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateQuantityRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	cart, err := h.cart.UpdateQuantity(r.Context(), mux.Vars(r)["productId"], req.Quantity)
	if err != nil {
		writeServiceError(w, r, err, "Failed to update cart item")
		return
	}
	writeJSONResponse(w, http.StatusOK, cart)
}

// RemoveItem handles DELETE /v1/cart/items/{productId}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cart.RemoveItem(r.Context(), mux.Vars(r)["productId"])
	if err != nil {
		writeServiceError(w, r, err, "Failed to remove cart item")
		return
	}
	writeJSONResponse(w, http.StatusOK, cart)
}

// Clear handles DELETE /v1/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cart.Clear(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to clear cart")
		return
	}
	writeJSONResponse(w, http.StatusOK, cart)
}
