package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"zshop-storefront-api/internal/client"
	"zshop-storefront-api/internal/models"
	"zshop-storefront-api/internal/pagination"
	"zshop-storefront-api/internal/services"
)

// OrderHandler serves the order history.
type OrderHandler struct {
	orders *services.OrderService
}

func NewOrderHandler(orders *services.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// List handles GET /v1/orders?page=&limit=&status=[&phone=]. A failed
// fetch still answers with an empty page and its error message, except
// when the session must log in again.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := pagination.ParseOrderQuery(r.URL.Query())
	phone := strings.TrimSpace(r.URL.Query().Get("phone"))

	var page models.PaginatedResponse[models.Order]
	var err error
	if phone != "" {
		page, err = h.orders.ByPhone(r.Context(), phone, q)
	} else {
		page, err = h.orders.ListMine(r.Context(), q)
	}

	if err != nil {
		if client.IsUnauthorized(err) {
			writeServiceError(w, r, err, "")
			return
		}
		slog.Error("Order history unavailable", "error", err)
	}
	writeJSONResponse(w, http.StatusOK, page)
}

// Get handles GET /v1/orders/{orderId}[?phone=].
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Detail(r.Context(), mux.Vars(r)["orderId"], r.URL.Query().Get("phone"))
	if err != nil {
		writeServiceError(w, r, err, "Failed to load order")
		return
	}
	writeJSONResponse(w, http.StatusOK, o)
}
