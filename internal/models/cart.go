package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Cart item attribute keys written when a variant is added to the cart.
const (
	AttrSKU         = "sku"
	AttrVariantID   = "variantId"
	AttrVariantName = "variantName"
)

// CartItem is one cart line. The shop API sends productId either as a bare
// id or as the populated product document.
type CartItem struct {
	ProductID  string          `json:"productId"`
	Product    Product         `json:"product"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Attributes map[string]any  `json:"attributes,omitempty"`
}

func (i *CartItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		ProductID  json.RawMessage `json:"productId"`
		Product    *Product        `json:"product"`
		Quantity   int             `json:"quantity"`
		Price      decimal.Decimal `json:"price"`
		Attributes map[string]any  `json:"attributes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	i.Quantity = raw.Quantity
	i.Price = raw.Price
	i.Attributes = raw.Attributes
	if raw.Product != nil {
		i.Product = *raw.Product
	}

	trimmed := bytes.TrimSpace(raw.ProductID)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
	case trimmed[0] == '"':
		if err := json.Unmarshal(trimmed, &i.ProductID); err != nil {
			return err
		}
	case trimmed[0] == '{':
		if err := json.Unmarshal(trimmed, &i.Product); err != nil {
			return fmt.Errorf("productId: %w", err)
		}
		i.ProductID = i.Product.ID
	default:
		return fmt.Errorf("productId: unexpected JSON %s", string(trimmed))
	}

	if i.ProductID == "" {
		i.ProductID = i.Product.ID
	}
	if i.Product.ID == "" {
		i.Product.ID = i.ProductID
	}
	return nil
}

// Attribute returns a string-valued cart attribute.
func (i CartItem) Attribute(key string) string {
	if i.Attributes == nil {
		return ""
	}
	if s, ok := i.Attributes[key].(string); ok {
		return s
	}
	return ""
}

// UnitPrice is the line price, or the product's effective price when the line has none.
func (i CartItem) UnitPrice() decimal.Decimal {
	if !i.Price.IsZero() {
		return i.Price
	}
	return i.Product.EffectivePrice()
}

func (i CartItem) Validate() error {
	if i.ProductID == "" {
		return missing("cartItem", "productId")
	}
	if i.Quantity < 0 {
		return &FieldError{Type: "cartItem", Field: "quantity", Issue: "must not be negative"}
	}
	return nil
}

// Cart is the shop API's cart document for one user.
type Cart struct {
	ID          string          `json:"id,omitempty"`
	UserID      string          `json:"userId,omitempty"`
	Items       []CartItem      `json:"items"`
	TotalItems  int             `json:"totalItems"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

func (c Cart) Validate() error {
	for i, item := range c.Items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("items[%d]: %w", i, err)
		}
	}
	return nil
}

// Recount fills the totals from the items when the shop API left them empty.
func (c *Cart) Recount() {
	if c.TotalItems == 0 {
		for _, item := range c.Items {
			c.TotalItems += item.Quantity
		}
	}
	if c.TotalAmount.IsZero() {
		for _, item := range c.Items {
			c.TotalAmount = c.TotalAmount.Add(item.UnitPrice().Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
	}
}

// AddToCartRequest is sent to POST /cart/items.
type AddToCartRequest struct {
	ProductID  string         `json:"productId"`
	Quantity   int            `json:"quantity"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// UpdateQuantityRequest is tunnelled through POST with a method override.
type UpdateQuantityRequest struct {
	Quantity int    `json:"quantity"`
	Method   string `json:"_method"`
}
