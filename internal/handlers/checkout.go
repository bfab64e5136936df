package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"zshop-storefront-api/internal/checkout"
	"zshop-storefront-api/internal/client"
	"zshop-storefront-api/internal/models"
	"zshop-storefront-api/internal/services"
)

const HeaderIdempotencyKey = "Idempotency-Key"

// CheckoutHandler places orders through the checkout orchestrator.
type CheckoutHandler struct {
	orchestrator *checkout.Orchestrator
	orders       *services.OrderService
}

func NewCheckoutHandler(orchestrator *checkout.Orchestrator, orders *services.OrderService) *CheckoutHandler {
	return &CheckoutHandler{orchestrator: orchestrator, orders: orders}
}

// checkoutError is an error response that still carries what the shopper sees.
type checkoutError struct {
	models.ErrorResponse
	Outcome *checkout.Outcome `json:"outcome,omitempty"`
}

// Checkout handles POST /v1/checkout.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkout.Request
	if r.ContentLength == 0 {
		writeErrorResponse(w, http.StatusBadRequest, "bad_request", "Request body is required", nil)
		return
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	req.SessionKey = shopperKey(r)
	req.Authenticated = client.SessionFrom(ctx).Authenticated()
	req.IdempotencyKey = r.Header.Get(HeaderIdempotencyKey)
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = uuid.New().String()
	}
	w.Header().Set(HeaderIdempotencyKey, req.IdempotencyKey)

	out, err := h.orchestrator.Submit(ctx, req)
	if err != nil {
		h.writeCheckoutError(w, r, out, err)
		return
	}

	if !out.Replayed && h.orders != nil {
		h.orders.Invalidate(ctx)
	}
	writeJSONResponse(w, http.StatusOK, out)
}

func (h *CheckoutHandler) writeCheckoutError(w http.ResponseWriter, r *http.Request, out *checkout.Outcome, err error) {
	var validationErr *checkout.ValidationError
	var itemErr *checkout.ItemError
	var submitErr *checkout.SubmitError

	respond := func(status int, code, message string, details []models.ErrorDetail) {
		writeJSONResponse(w, status, checkoutError{
			ErrorResponse: models.ErrorResponse{Code: code, Message: message, Details: details},
			Outcome:       out,
		})
	}

	switch {
	case errors.Is(err, checkout.ErrInvalidMode):
		respond(http.StatusBadRequest, "invalid_mode", "mode must be buy_now or from_cart", nil)

	case errors.As(err, &validationErr):
		details := make([]models.ErrorDetail, len(validationErr.Fields))
		for i, f := range validationErr.Fields {
			details[i] = models.ErrorDetail{Field: f.Field, Issue: f.Issue}
		}
		respond(http.StatusUnprocessableEntity, "validation_failed", validationErr.First().Issue, details)

	case errors.As(err, &itemErr):
		respond(http.StatusUnprocessableEntity, "invalid_item", itemErr.Issue,
			[]models.ErrorDetail{{Field: "productId", Issue: itemErr.Issue}})

	case errors.Is(err, checkout.ErrEmptyCheckout):
		respond(http.StatusUnprocessableEntity, "empty_checkout", "Nothing to check out", nil)

	case errors.Is(err, checkout.ErrLoginRequired):
		respond(http.StatusUnauthorized, "login_required", checkout.MsgLoginRequired, nil)

	case errors.Is(err, checkout.ErrSubmissionInFlight):
		respond(http.StatusConflict, "submission_in_flight", "A checkout is already being submitted", nil)

	case client.IsUnauthorized(err):
		respond(http.StatusUnauthorized, "unauthorized", "Authentication failed", nil)

	case client.IsNotFound(err):
		respond(http.StatusNotFound, "not_found", "Product not found", nil)

	case errors.As(err, &submitErr):
		respond(http.StatusBadGateway, "checkout_failed", submitErr.Message, nil)

	default:
		slog.Warn("Checkout could not start", "error", err)
		writeServiceError(w, r, err, checkout.MsgCheckoutFailed)
	}
}
