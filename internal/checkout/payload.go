package checkout

import (
	"github.com/shopspring/decimal"

	"zshop-storefront-api/internal/models"
)

// UnknownStock is sent when the storefront does not know the stock level.
// The order service performs the authoritative check.
const UnknownStock = 999

const defaultSKU = "default"

// BuildBuyNowPayload snapshots a single product and, when chosen, its variant.
func BuildBuyNowPayload(shopID string, product models.Product, v *models.Variant, quantity int, info models.CustomerInfo) models.CheckoutPayload {
	snapshot := models.VariantSnapshot{
		SKU:   defaultSKU,
		Name:  product.Name,
		Price: product.EffectivePrice(),
		Stock: UnknownStock,
	}
	if v != nil {
		switch {
		case v.SKU != "":
			snapshot.SKU = v.SKU
		case v.ID != "":
			snapshot.SKU = v.ID
		}
		if v.Name != "" {
			snapshot.Name = v.Name
		}
		if !v.Price.IsZero() {
			snapshot.Price = v.Price
		}
		if v.Stock > 0 {
			snapshot.Stock = v.Stock
		}
	}

	return models.CheckoutPayload{
		Mode:   models.ModeBuyNow,
		ShopID: shopID,
		Items: []models.CheckoutItem{{
			ProductID: product.ID,
			Variant:   snapshot,
			Quantity:  quantity,
		}},
		CustomerInfo: info,
	}
}

// BuildFromCartPayload snapshots every cart line, reading the variant from
// the attributes stored with the line.
func BuildFromCartPayload(shopID string, items []models.CartItem, info models.CustomerInfo) models.CheckoutPayload {
	out := make([]models.CheckoutItem, 0, len(items))
	for _, item := range items {
		sku := item.Attribute(models.AttrSKU)
		if sku == "" {
			sku = item.Attribute(models.AttrVariantID)
		}
		if sku == "" {
			sku = defaultSKU
		}
		name := item.Attribute(models.AttrVariantName)
		if name == "" {
			name = item.Product.Name
		}

		out = append(out, models.CheckoutItem{
			ProductID: item.ProductID,
			Variant: models.VariantSnapshot{
				SKU:   sku,
				Name:  name,
				Price: item.UnitPrice(),
				Stock: UnknownStock,
			},
			Quantity: item.Quantity,
		})
	}

	return models.CheckoutPayload{
		Mode:         models.ModeFromCart,
		ShopID:       shopID,
		Items:        out,
		CustomerInfo: info,
	}
}

// Summary is the advisory total shown before the order is placed.
type Summary struct {
	ItemCount   int             `json:"itemCount"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shippingFee"`
	Total       decimal.Decimal `json:"total"`
}

func Summarize(items []models.CheckoutItem, shippingFee decimal.Decimal) Summary {
	s := Summary{ShippingFee: shippingFee}
	for _, item := range items {
		s.ItemCount += item.Quantity
		s.Subtotal = s.Subtotal.Add(item.Variant.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	s.Total = s.Subtotal.Add(shippingFee)
	return s
}
