package variant

import (
	"testing"

	"zshop-storefront-api/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func v(sku string, stock int, attrs ...string) models.Variant {
	out := models.Variant{SKU: sku, Stock: stock, Price: decimal.NewFromInt(100)}
	for i := 0; i+1 < len(attrs); i += 2 {
		out.Attributes = append(out.Attributes, models.Attribute{Name: attrs[i], Value: attrs[i+1]})
	}
	return out
}

func shirtVariants() []models.Variant {
	return []models.Variant{
		v("A-RED-S", 0, "Color", "Red", "Size", "S"),
		v("A-RED-M", 5, "Color", "Red", "Size", "M"),
		v("A-BLUE-L", 2, "Color", "Blue", "Size", "L"),
		v("A-GREEN-S", 0, "Color", "Green", "Size", "S"),
	}
}

func TestResolver_AttributeGroupsSkipOutOfStockValues(t *testing.T) {
	r := NewResolver(shirtVariants())

	groups := r.AttributeGroups()
	require.Len(t, groups, 2)
	assert.Equal(t, "Color", groups[0].Name)
	assert.Equal(t, []string{"Red", "Blue"}, groups[0].Values)
	assert.Equal(t, "Size", groups[1].Name)
	assert.Equal(t, []string{"M", "L"}, groups[1].Values)
}

func TestResolver_AttributeGroupsReturnsCopy(t *testing.T) {
	r := NewResolver(shirtVariants())
	groups := r.AttributeGroups()
	groups[0].Values[0] = "Mutated"

	assert.Equal(t, "Red", r.AttributeGroups()[0].Values[0])
}

func TestResolver_SelectSequence(t *testing.T) {
	r := NewResolver(shirtVariants())

	sel, got := r.Select(nil, "Color", "Red")
	assert.Nil(t, got, "a partial selection must not resolve")
	assert.Equal(t, Selection{"Color": "Red"}, sel)

	sel, got = r.Select(sel, "Size", "S")
	assert.Nil(t, got, "the only Red/S variant is out of stock")

	sel, got = r.Select(sel, "Size", "M")
	require.NotNil(t, got)
	assert.Equal(t, "A-RED-M", got.SKU)
	assert.Equal(t, Selection{"Color": "Red", "Size": "M"}, sel)
}

func TestResolver_SelectDoesNotMutateInput(t *testing.T) {
	r := NewResolver(shirtVariants())
	original := Selection{"Color": "Red"}

	_, _ = r.Select(original, "Color", "Blue")
	assert.Equal(t, "Red", original["Color"])
}

func TestResolver_EmptySelectionNeverResolves(t *testing.T) {
	r := NewResolver([]models.Variant{v("ONLY", 3)})
	assert.Nil(t, r.Resolve(nil))
	assert.Nil(t, r.Resolve(Selection{}))
}

func TestResolver_ResolveReturnsFirstMatch(t *testing.T) {
	r := NewResolver([]models.Variant{
		v("FIRST", 1, "Color", "Red"),
		v("SECOND", 1, "Color", "Red"),
	})
	got := r.Resolve(Selection{"Color": "Red"})
	require.NotNil(t, got)
	assert.Equal(t, "FIRST", got.SKU)
}

func TestResolver_IsAttributeValueAvailableIgnoresOtherSelections(t *testing.T) {
	r := NewResolver(shirtVariants())

	assert.True(t, r.IsAttributeValueAvailable("Size", "L"))
	assert.True(t, r.IsAttributeValueAvailable("Color", "Red"))
	assert.False(t, r.IsAttributeValueAvailable("Color", "Green"))
	assert.False(t, r.IsAttributeValueAvailable("Size", "S"))

	// Red/L does not exist, yet L still shows as available.
	view := r.View(Selection{"Color": "Red"}, 1)
	for _, opt := range view.Groups[1].Options {
		if opt.Value == "L" {
			assert.True(t, opt.Available)
		}
	}
}

func TestResolver_FindBySKUIncludesOutOfStock(t *testing.T) {
	r := NewResolver(shirtVariants())
	got := r.FindBySKU("A-RED-S")
	require.NotNil(t, got)
	assert.Equal(t, 0, got.Stock)
	assert.Nil(t, r.FindBySKU("missing"))
	assert.Nil(t, r.FindBySKU(""))
}

func TestClampQuantity(t *testing.T) {
	five := &models.Variant{Stock: 5}
	tests := []struct {
		name     string
		quantity int
		variant  *models.Variant
		want     int
	}{
		{"within stock", 3, five, 3},
		{"above stock", 9, five, 5},
		{"zero", 0, five, 1},
		{"negative", -4, five, 1},
		{"no variant", 7, nil, 7},
		{"no variant zero", 0, nil, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampQuantity(tt.quantity, tt.variant))
		})
	}
}

func TestResolver_ViewQuantityStaysInStockRange(t *testing.T) {
	r := NewResolver(shirtVariants())

	for _, sel := range []Selection{
		{"Color": "Red", "Size": "M"},
		{"Color": "Blue", "Size": "L"},
	} {
		for q := -2; q <= 10; q++ {
			view := r.View(sel, q)
			require.NotNil(t, view.Variant)
			assert.GreaterOrEqual(t, view.Quantity, 1)
			assert.LessOrEqual(t, view.Quantity, view.Variant.Stock)
			assert.True(t, view.CanPurchase)
		}
	}
}

func TestResolver_ViewWithoutResolutionDisablesPurchase(t *testing.T) {
	r := NewResolver(shirtVariants())
	view := r.View(Selection{"Color": "Blue"}, 4)

	assert.Nil(t, view.Variant)
	assert.False(t, view.CanPurchase)
	assert.Equal(t, 0, view.MaxQuantity)
	assert.True(t, view.Groups[0].Options[1].Selected)
}

func TestPick(t *testing.T) {
	variants := shirtVariants()

	got, err := Pick(variants, "A-RED-M")
	require.NoError(t, err)
	assert.Equal(t, "A-RED-M", got.SKU)

	_, err = Pick(variants, "")
	assert.ErrorIs(t, err, ErrVariantRequired)
	_, err = Pick(variants, "A-RED-S")
	assert.ErrorIs(t, err, ErrVariantUnavailable)
	_, err = Pick(variants, "nope")
	assert.ErrorIs(t, err, ErrUnknownVariant)

	got, err = Pick(nil, "")
	assert.NoError(t, err)
	assert.Nil(t, got)
}
