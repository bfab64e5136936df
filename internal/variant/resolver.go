// Package variant derives selectable attribute groups and the resolved
// variant from a product's variant list. It holds no state between calls;
// the caller owns the selection.
package variant

import (
	"errors"
	"fmt"

	"zshop-storefront-api/internal/models"
)

var (
	// ErrUnknownVariant is returned for a SKU the product does not have.
	ErrUnknownVariant = errors.New("unknown variant")
	// ErrVariantUnavailable is returned for a variant with no stock.
	ErrVariantUnavailable = errors.New("variant is out of stock")
	// ErrVariantRequired is returned when a product with variants is bought without one.
	ErrVariantRequired = errors.New("a variant must be selected")
)

// Selection maps attribute name to the chosen value.
type Selection map[string]string

// With returns a copy of s with name set to value.
func (s Selection) With(name, value string) Selection {
	next := make(Selection, len(s)+1)
	for k, v := range s {
		next[k] = v
	}
	next[name] = value
	return next
}

// AttributeGroup lists the selectable values of one attribute, in the
// order they first appear among in-stock variants.
type AttributeGroup struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"displayName,omitempty"`
	Values      []string `json:"values"`
}

// Resolver works over one product's variants.
type Resolver struct {
	variants  []models.Variant
	available []models.Variant
	groups    []AttributeGroup
}

// NewResolver indexes the variants once. Out-of-stock variants are kept
// only for lookups by SKU.
func NewResolver(variants []models.Variant) *Resolver {
	r := &Resolver{variants: variants}
	for _, v := range variants {
		if v.Available() {
			r.available = append(r.available, v)
		}
	}
	r.groups = buildGroups(r.available)
	return r
}

func buildGroups(available []models.Variant) []AttributeGroup {
	var groups []AttributeGroup
	index := make(map[string]int)
	seen := make(map[string]map[string]bool)

	for _, v := range available {
		for _, attr := range v.Attributes {
			i, ok := index[attr.Name]
			if !ok {
				i = len(groups)
				index[attr.Name] = i
				seen[attr.Name] = make(map[string]bool)
				groups = append(groups, AttributeGroup{Name: attr.Name, DisplayName: attr.DisplayName})
			}
			if seen[attr.Name][attr.Value] {
				continue
			}
			seen[attr.Name][attr.Value] = true
			groups[i].Values = append(groups[i].Values, attr.Value)
		}
	}
	return groups
}

// AvailableVariants returns the variants with stock.
func (r *Resolver) AvailableVariants() []models.Variant {
	return r.available
}

// AttributeGroups returns a copy of the selectable groups.
func (r *Resolver) AttributeGroups() []AttributeGroup {
	out := make([]AttributeGroup, len(r.groups))
	for i, g := range r.groups {
		out[i] = AttributeGroup{Name: g.Name, DisplayName: g.DisplayName, Values: append([]string(nil), g.Values...)}
	}
	return out
}

// Select merges name=value into the selection and resolves it.
func (r *Resolver) Select(selection Selection, name, value string) (Selection, *models.Variant) {
	next := selection.With(name, value)
	return next, r.Resolve(next)
}

// Resolve returns the first in-stock variant whose every attribute equals
// the selected value for that attribute. An empty selection never resolves.
func (r *Resolver) Resolve(selection Selection) *models.Variant {
	if len(selection) == 0 {
		return nil
	}
	for i := range r.available {
		if matches(r.available[i], selection) {
			v := r.available[i]
			return &v
		}
	}
	return nil
}

func matches(v models.Variant, selection Selection) bool {
	for _, attr := range v.Attributes {
		chosen, ok := selection[attr.Name]
		if !ok || chosen != attr.Value {
			return false
		}
	}
	return true
}

// IsAttributeValueAvailable reports whether any in-stock variant carries
// name=value. Other selected attributes are not taken into account.
func (r *Resolver) IsAttributeValueAvailable(name, value string) bool {
	for _, v := range r.available {
		if got, ok := v.AttributeValue(name); ok && got == value {
			return true
		}
	}
	return false
}

// FindBySKU looks up any variant, in stock or not, by SKU or id.
func (r *Resolver) FindBySKU(sku string) *models.Variant {
	if sku == "" {
		return nil
	}
	for i := range r.variants {
		if r.variants[i].SKU == sku || r.variants[i].ID == sku {
			v := r.variants[i]
			return &v
		}
	}
	return nil
}

// Pick returns the in-stock variant with sku for a purchase. A product
// without variants is bought as is and yields nil.
func Pick(variants []models.Variant, sku string) (*models.Variant, error) {
	if len(variants) == 0 {
		return nil, nil
	}
	if sku == "" {
		return nil, ErrVariantRequired
	}
	v := NewResolver(variants).FindBySKU(sku)
	if v == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVariant, sku)
	}
	if !v.Available() {
		return nil, fmt.Errorf("%w: %s", ErrVariantUnavailable, sku)
	}
	return v, nil
}

// ClampQuantity keeps quantity within [1, variant.Stock]. Without a
// variant only the lower bound applies.
func ClampQuantity(quantity int, v *models.Variant) int {
	if quantity < 1 {
		quantity = 1
	}
	if v != nil && v.Stock > 0 && quantity > v.Stock {
		quantity = v.Stock
	}
	return quantity
}
