package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"zshop-storefront-api/internal/models"
)

const (
	PaymentMethodCOD = "COD"

	msgCODCreated       = "COD order created successfully"
	msgCODFailed        = "Failed to create COD order"
	msgOnlyCODSupported = "Only COD payment method is supported"
)

// PaymentAPI creates payment orders upstream.
type PaymentAPI interface {
	CreateCODOrder(ctx context.Context, req models.CODOrderRequest) (*models.CODOrderResponse, error)
	EffectiveUserID(ctx context.Context) string
}

type PaymentService struct {
	api PaymentAPI
}

func NewPaymentService(api PaymentAPI) *PaymentService {
	return &PaymentService{api: api}
}

// PaymentRequest asks for a payment of amount.
type PaymentRequest struct {
	PaymentMethod string          `json:"paymentMethod"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	ExtraData     map[string]any  `json:"extraData,omitempty"`
}

// Pay creates the payment order. Only cash on delivery exists, so no
// payment is collected here. Failures are reported in the result.
func (s *PaymentService) Pay(ctx context.Context, req PaymentRequest) models.PaymentResult {
	method := strings.ToUpper(strings.TrimSpace(req.PaymentMethod))
	if method == "" {
		method = PaymentMethodCOD
	}
	if method != PaymentMethodCOD {
		return models.PaymentResult{Success: false, Error: msgOnlyCODSupported}
	}
	return s.CheckoutCOD(ctx, req.Amount, req.Description, req.ExtraData)
}

// CheckoutCOD registers a cash-on-delivery order for the current shopper.
func (s *PaymentService) CheckoutCOD(ctx context.Context, amount decimal.Decimal, description string, extra map[string]any) models.PaymentResult {
	resp, err := s.api.CreateCODOrder(ctx, models.CODOrderRequest{
		PaymentMethod: PaymentMethodCOD,
		Amount:        amount,
		Description:   description,
		UserID:        s.api.EffectiveUserID(ctx),
		ExtraData:     extra,
	})
	if err != nil {
		slog.Error("COD checkout failed", "error", err)
		msg := msgCODFailed
		var um interface{ UserMessage() string }
		if errors.As(err, &um) && um.UserMessage() != "" {
			msg = um.UserMessage()
		}
		return models.PaymentResult{Success: false, Error: msg}
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = msgCODFailed
		}
		slog.Warn("COD order rejected", "message", msg)
		return models.PaymentResult{Success: false, Error: msg}
	}

	slog.Info("COD order created", "order_id", resp.OrderID, "amount", amount.String())
	msg := resp.Message
	if msg == "" {
		msg = msgCODCreated
	}
	return models.PaymentResult{Success: true, OrderID: resp.OrderID, Message: msg}
}
