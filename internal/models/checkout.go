package models

import "github.com/shopspring/decimal"

// CheckoutMode distinguishes a single-product purchase from a cart purchase.
type CheckoutMode string

const (
	ModeBuyNow   CheckoutMode = "buy_now"
	ModeFromCart CheckoutMode = "from_cart"
)

// Valid reports whether m is a known mode.
func (m CheckoutMode) Valid() bool {
	return m == ModeBuyNow || m == ModeFromCart
}

// VariantSnapshot is the variant as the storefront saw it at checkout time.
type VariantSnapshot struct {
	SKU   string          `json:"sku"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

type CheckoutItem struct {
	ProductID string          `json:"productId"`
	Variant   VariantSnapshot `json:"variant"`
	Quantity  int             `json:"quantity"`
}

// CustomerInfo is copied verbatim into the payload.
type CustomerInfo struct {
	CustomerName  string          `json:"customerName"`
	CustomerPhone string          `json:"customerPhone"`
	CustomerEmail string          `json:"customerEmail,omitempty"`
	Address       string          `json:"address,omitempty"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	ShippingFee   decimal.Decimal `json:"shippingFee"`
	Notes         string          `json:"notes,omitempty"`
}

// CheckoutPayload is the body of POST /cart/checkout. Both modes share it.
type CheckoutPayload struct {
	Mode   CheckoutMode   `json:"mode"`
	ShopID string         `json:"shopId"`
	Items  []CheckoutItem `json:"items"`
	CustomerInfo
}

// CheckoutResponse is what the order service returns for a placed order.
type CheckoutResponse struct {
	Success bool   `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
	Order   *Order `json:"order"`
}

func (r CheckoutResponse) Validate() error {
	if r.Order == nil {
		return missing("checkoutResponse", "order")
	}
	if r.Order.OrderID() == "" {
		return missing("checkoutResponse", "order.id")
	}
	return nil
}

// CODOrderRequest creates a cash-on-delivery order.
type CODOrderRequest struct {
	PaymentMethod string          `json:"paymentMethod"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	UserID        string          `json:"userId,omitempty"`
	ExtraData     map[string]any  `json:"extraData,omitempty"`
}

type CODOrderResponse struct {
	Success       bool            `json:"success"`
	OrderID       string          `json:"orderId,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description,omitempty"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	Message       string          `json:"message,omitempty"`
}

// PaymentResult is returned to the app after a payment attempt.
type PaymentResult struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
