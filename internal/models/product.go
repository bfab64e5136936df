package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Attribute is one named dimension of a variant, e.g. Color=Red.
type Attribute struct {
	Name        string           `json:"name"`
	Value       string           `json:"value"`
	DisplayName string           `json:"displayName,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
}

// Variant is a purchasable configuration of a product with its own SKU and stock.
type Variant struct {
	ID         string          `json:"_id,omitempty"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name,omitempty"`
	Price      decimal.Decimal `json:"price"`
	Discount   decimal.Decimal `json:"discount"`
	Stock      int             `json:"stock"`
	Attributes []Attribute     `json:"attributes"`
	Images     []string        `json:"images,omitempty"`
	IsActive   bool            `json:"isActive"`
	Sold       int             `json:"sold,omitempty"`
	CreatedAt  string          `json:"createdAt,omitempty"`
	UpdatedAt  string          `json:"updatedAt,omitempty"`
}

// Available reports whether the variant can be bought.
func (v Variant) Available() bool {
	return v.Stock > 0
}

// AttributeValue returns the variant's value for the named attribute.
func (v Variant) AttributeValue(name string) (string, bool) {
	for _, attr := range v.Attributes {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Label joins the attribute values, e.g. "Red / M".
func (v Variant) Label() string {
	label := ""
	for i, attr := range v.Attributes {
		if i > 0 {
			label += " / "
		}
		label += attr.Value
	}
	return label
}

// Validate checks that every attribute is named.
func (v Variant) Validate() error {
	for i, attr := range v.Attributes {
		if attr.Name == "" {
			return missing("variant", fmt.Sprintf("attributes[%d].name", i))
		}
	}
	return nil
}

// Product is the catalog entry served by the shop API.
type Product struct {
	ID               string          `json:"id"`
	ShopID           string          `json:"shopId,omitempty"`
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	DescriptionShort string          `json:"description_short,omitempty"`
	BrandName        string          `json:"brand_name,omitempty"`
	Code             string          `json:"code,omitempty"`
	Slug             string          `json:"slug,omitempty"`
	UnitName         string          `json:"unit_name,omitempty"`
	Weight           float64         `json:"weight,omitempty"`
	Image            string          `json:"image,omitempty"`
	Images           []string        `json:"images,omitempty"`
	ImageURLs        []string        `json:"image_urls,omitempty"`
	VideoURL         string          `json:"video_url,omitempty"`
	CategoryIDs      []string        `json:"categoryIds,omitempty"`
	IsActive         bool            `json:"isActive"`
	Available        bool            `json:"isAvailable"`
	IsVisible        bool            `json:"isVisible"`
	IsNew            bool            `json:"is_new"`
	IsBestSeller     bool            `json:"is_best_seller"`
	IsFeatured       bool            `json:"is_featured"`
	CanAddToCart     bool            `json:"can_add_to_cart"`
	Price            decimal.Decimal `json:"price"`
	MinPrice         decimal.Decimal `json:"minPrice"`
	MaxPrice         decimal.Decimal `json:"maxPrice"`
	TotalStock       int             `json:"totalStock"`
	Purchasable      bool            `json:"purchasable"`
	InStockBadge     bool            `json:"inStock"`
	RatingAvg        float64         `json:"rating_avg,omitempty"`
	RatingCount      int             `json:"rating_count,omitempty"`
	Variants         []Variant       `json:"variants"`
	CreatedAt        string          `json:"createdAt,omitempty"`
	UpdatedAt        string          `json:"updatedAt,omitempty"`
}

// UnmarshalJSON accepts both "id" and the populated-document "_id".
func (p *Product) UnmarshalJSON(data []byte) error {
	type plain Product
	aux := struct {
		*plain
		MongoID string `json:"_id"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = aux.MongoID
	}
	return nil
}

// Validate checks the fields the storefront cannot work without.
func (p Product) Validate() error {
	if p.ID == "" {
		return missing("product", "id")
	}
	if p.Name == "" {
		return missing("product", "name")
	}
	for i, v := range p.Variants {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("variants[%d]: %w", i, err)
		}
	}
	return nil
}

// IsAvailable is true when some variant is in stock, or, for a product
// without variants, when the product itself has stock.
func (p Product) IsAvailable() bool {
	if len(p.Variants) == 0 {
		return p.TotalStock > 0
	}
	for _, v := range p.Variants {
		if v.Available() {
			return true
		}
	}
	return false
}

// InStock is the listing badge: the shop flag plus any stock at all.
func (p Product) InStock() bool {
	if !p.Available {
		return false
	}
	if p.TotalStock > 0 {
		return true
	}
	for _, v := range p.Variants {
		if v.Available() {
			return true
		}
	}
	return false
}

// PriceBounds derives min and max price from the variants, falling back
// to the stored bounds when there are none.
func (p Product) PriceBounds() (decimal.Decimal, decimal.Decimal) {
	if len(p.Variants) == 0 {
		return p.MinPrice, p.MaxPrice
	}
	lo, hi := p.Variants[0].Price, p.Variants[0].Price
	for _, v := range p.Variants[1:] {
		if v.Price.LessThan(lo) {
			lo = v.Price
		}
		if v.Price.GreaterThan(hi) {
			hi = v.Price
		}
	}
	return lo, hi
}

// Derive fills the fields computed from the variants: the price bounds,
// Purchasable and the listing badge.
func (p *Product) Derive() {
	p.MinPrice, p.MaxPrice = p.PriceBounds()
	p.Purchasable = p.IsAvailable()
	p.InStockBadge = p.InStock()
}

// EffectivePrice is the list price, or the lower bound when no list price is set.
func (p Product) EffectivePrice() decimal.Decimal {
	if !p.Price.IsZero() {
		return p.Price
	}
	lo, _ := p.PriceBounds()
	return lo
}

// ProductList validates every element.
type ProductList []Product

func (l ProductList) Validate() error {
	for i, p := range l {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
	}
	return nil
}

// CommonAttribute is an attribute shared across the catalog, offered as a filter.
type CommonAttribute struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"displayName"`
	Values      []string `json:"values"`
}

// ProductMetadata holds catalog-wide filter values.
type ProductMetadata struct {
	Categories       []string          `json:"categories"`
	Brands           []string          `json:"brands"`
	Units            []string          `json:"units"`
	CommonAttributes []CommonAttribute `json:"commonAttributes"`
}

func (m ProductMetadata) Validate() error {
	for i, attr := range m.CommonAttributes {
		if attr.Name == "" {
			return missing("metadata", fmt.Sprintf("commonAttributes[%d].name", i))
		}
	}
	return nil
}
