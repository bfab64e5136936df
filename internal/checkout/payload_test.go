package checkout

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zshop-storefront-api/internal/models"
)

func testInfo() models.CustomerInfo {
	return models.CustomerInfo{
		CustomerName:  "Nguyen Van A",
		CustomerPhone: "0912345678",
		Address:       "12 Le Loi, Hanoi",
		PaymentMethod: PaymentCOD,
		ShippingFee:   decimal.NewFromInt(30000),
	}
}

func TestBuildBuyNowPayload_WithVariant(t *testing.T) {
	product := models.Product{ID: "p1", Name: "T-Shirt", Price: decimal.NewFromInt(150000)}
	v := &models.Variant{SKU: "A-RED-M", Name: "Red / M", Price: decimal.NewFromInt(160000), Stock: 5}

	payload := BuildBuyNowPayload("shop-1", product, v, 2, testInfo())

	assert.Equal(t, models.ModeBuyNow, payload.Mode)
	assert.Equal(t, "shop-1", payload.ShopID)
	require.Len(t, payload.Items, 1)
	item := payload.Items[0]
	assert.Equal(t, "p1", item.ProductID)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, "A-RED-M", item.Variant.SKU)
	assert.Equal(t, "Red / M", item.Variant.Name)
	assert.True(t, decimal.NewFromInt(160000).Equal(item.Variant.Price))
	assert.Equal(t, 5, item.Variant.Stock)
	assert.Equal(t, testInfo(), payload.CustomerInfo)
}

func TestBuildBuyNowPayload_Fallbacks(t *testing.T) {
	product := models.Product{ID: "p1", Name: "Lipstick", Price: decimal.NewFromInt(99000)}

	tests := []struct {
		name    string
		variant *models.Variant
		sku     string
	}{
		{"no variant", nil, "default"},
		{"variant id only", &models.Variant{ID: "v-77"}, "v-77"},
		{"empty variant", &models.Variant{}, "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := BuildBuyNowPayload("shop-1", product, tt.variant, 1, testInfo())
			require.Len(t, payload.Items, 1)
			snap := payload.Items[0].Variant
			assert.Equal(t, tt.sku, snap.SKU)
			assert.Equal(t, "Lipstick", snap.Name)
			assert.True(t, decimal.NewFromInt(99000).Equal(snap.Price))
			assert.Equal(t, UnknownStock, snap.Stock)
		})
	}
}

func TestBuildFromCartPayload(t *testing.T) {
	items := []models.CartItem{
		{
			ProductID: "p1",
			Product:   models.Product{ID: "p1", Name: "T-Shirt"},
			Quantity:  2,
			Price:     decimal.NewFromInt(150000),
			Attributes: map[string]any{
				models.AttrSKU:         "A-RED-M",
				models.AttrVariantName: "Red / M",
			},
		},
		{
			ProductID:  "p2",
			Product:    models.Product{ID: "p2", Name: "Cap", Price: decimal.NewFromInt(50000)},
			Quantity:   1,
			Attributes: map[string]any{models.AttrVariantID: "v-9"},
		},
		{
			ProductID: "p3",
			Product:   models.Product{ID: "p3", Name: "Socks", Price: decimal.NewFromInt(20000)},
			Quantity:  3,
		},
	}

	payload := BuildFromCartPayload("shop-1", items, testInfo())

	assert.Equal(t, models.ModeFromCart, payload.Mode)
	require.Len(t, payload.Items, len(items))

	assert.Equal(t, "A-RED-M", payload.Items[0].Variant.SKU)
	assert.Equal(t, "Red / M", payload.Items[0].Variant.Name)
	assert.True(t, decimal.NewFromInt(150000).Equal(payload.Items[0].Variant.Price))

	assert.Equal(t, "v-9", payload.Items[1].Variant.SKU)
	assert.Equal(t, "Cap", payload.Items[1].Variant.Name)
	assert.True(t, decimal.NewFromInt(50000).Equal(payload.Items[1].Variant.Price))

	assert.Equal(t, "default", payload.Items[2].Variant.SKU)
	assert.Equal(t, 3, payload.Items[2].Quantity)
	for _, item := range payload.Items {
		assert.Equal(t, UnknownStock, item.Variant.Stock)
	}
}

func TestPayloadShapeMatchesAcrossModes(t *testing.T) {
	product := models.Product{ID: "p1", Name: "T-Shirt", Price: decimal.NewFromInt(150000)}
	buyNow := BuildBuyNowPayload("shop-1", product, nil, 1, testInfo())
	fromCart := BuildFromCartPayload("shop-1", []models.CartItem{{
		ProductID: "p1", Product: product, Quantity: 1,
	}}, testInfo())

	var a, b map[string]any
	rawA, err := json.Marshal(buyNow)
	require.NoError(t, err)
	rawB, err := json.Marshal(fromCart)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(rawA, &a))
	require.NoError(t, json.Unmarshal(rawB, &b))

	assert.Equal(t, "buy_now", a["mode"])
	assert.Equal(t, "from_cart", b["mode"])
	delete(a, "mode")
	delete(b, "mode")
	assert.Equal(t, a, b)
}

func TestSummarize(t *testing.T) {
	items := []models.CheckoutItem{
		{Variant: models.VariantSnapshot{Price: decimal.NewFromInt(150000)}, Quantity: 2},
		{Variant: models.VariantSnapshot{Price: decimal.NewFromInt(20000)}, Quantity: 3},
	}

	s := Summarize(items, decimal.NewFromInt(30000))

	assert.Equal(t, 5, s.ItemCount)
	assert.True(t, decimal.NewFromInt(360000).Equal(s.Subtotal))
	assert.True(t, decimal.NewFromInt(390000).Equal(s.Total))
}
