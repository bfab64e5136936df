package handlers

import (
	"log/slog"
	"net/http"

	"zshop-storefront-api/internal/services"
)

// PaymentHandler creates payment orders.
type PaymentHandler struct {
	payments *services.PaymentService
}

func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// COD handles POST /v1/payments/cod. The result is always a PaymentResult;
// a failed payment answers 422.
func (h *PaymentHandler) COD(w http.ResponseWriter, r *http.Request) {
	var req services.PaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Amount.IsNegative() || req.Amount.IsZero() {
		writeErrorResponse(w, http.StatusBadRequest, "bad_request", "amount must be positive", nil)
		return
	}

	result := h.payments.Pay(r.Context(), req)
	if !result.Success {
		slog.Warn("Payment not created", "error", result.Error)
		writeJSONResponse(w, http.StatusUnprocessableEntity, result)
		return
	}
	writeJSONResponse(w, http.StatusOK, result)
}
