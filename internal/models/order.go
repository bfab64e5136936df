package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state reported by the order service.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

type OrderItem struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
	SKU         string          `json:"sku,omitempty"`
	VariantName string          `json:"variantName,omitempty"`
}

type Order struct {
	ID              string          `json:"id,omitempty"`
	MongoID         string          `json:"_id,omitempty"`
	ShopID          string          `json:"shopId,omitempty"`
	CustomerName    string          `json:"customerName"`
	CustomerPhone   string          `json:"customerPhone"`
	CustomerEmail   string          `json:"customerEmail,omitempty"`
	CustomerAddress string          `json:"customerAddress,omitempty"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Status          OrderStatus     `json:"status"`
	PaymentMethod   string          `json:"paymentMethod,omitempty"`
	PaymentStatus   string          `json:"paymentStatus,omitempty"`
	ShippingMethod  string          `json:"shippingMethod,omitempty"`
	ShippingFee     decimal.Decimal `json:"shippingFee"`
	Discount        decimal.Decimal `json:"discount"`
	Notes           string          `json:"notes,omitempty"`
	Products        []OrderItem     `json:"products"`
	CreatedAt       string          `json:"createdAt,omitempty"`
	UpdatedAt       string          `json:"updatedAt,omitempty"`
}

// OrderID returns id, falling back to _id.
func (o Order) OrderID() string {
	if o.ID != "" {
		return o.ID
	}
	return o.MongoID
}

func (o Order) Validate() error {
	if o.OrderID() == "" {
		return missing("order", "id")
	}
	return nil
}

type OrderList []Order

func (l OrderList) Validate() error {
	for i, o := range l {
		if err := o.Validate(); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
	}
	return nil
}
