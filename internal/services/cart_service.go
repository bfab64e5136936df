package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"zshop-storefront-api/internal/cache"
	"zshop-storefront-api/internal/models"
	"zshop-storefront-api/internal/variant"
)

// ErrInvalidQuantity is returned for a quantity below one.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// CartAPI is the part of the shop API the cart needs.
type CartAPI interface {
	Cart(ctx context.Context) (*models.Cart, error)
	AddCartItem(ctx context.Context, item models.AddToCartRequest) (*models.Cart, error)
	UpdateCartItem(ctx context.Context, productID string, quantity int) (*models.Cart, error)
	RemoveCartItem(ctx context.Context, productID string) (*models.Cart, error)
	ClearCart(ctx context.Context) (*models.Cart, error)
	EffectiveUserID(ctx context.Context) string
}

// ProductLookup finds a product for the cart.
type ProductLookup interface {
	Product(ctx context.Context, productID string) (*models.Product, error)
}

// CartService mirrors the remote cart after each mutation.
type CartService struct {
	api      CartAPI
	products ProductLookup
	mirror   *cache.TTLCache[models.Cart]
}

func NewCartService(api CartAPI, products ProductLookup, ttl, cleanup time.Duration) *CartService {
	return &CartService{
		api:      api,
		products: products,
		mirror:   cache.NewTTLCache[models.Cart]("carts", ttl, cleanup),
	}
}

func (s *CartService) Close() {
	s.mirror.Stop()
}

// Cache exposes the cart mirror for stats and metrics.
func (s *CartService) Cache() *cache.TTLCache[models.Cart] {
	return s.mirror
}

// Cart fetches the cart from upstream.
func (s *CartService) Cart(ctx context.Context) (*models.Cart, error) {
	cart, err := s.api.Cart(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	s.remember(ctx, cart)
	return cart, nil
}

// Mirrored returns the last cart seen for the current shopper.
func (s *CartService) Mirrored(ctx context.Context) (models.Cart, bool) {
	return s.mirror.Get(s.api.EffectiveUserID(ctx))
}

// AddItemRequest adds a product, and for products with variants the chosen SKU.
type AddItemRequest struct {
	ProductID string `json:"productId"`
	SKU       string `json:"sku,omitempty"`
	Quantity  int    `json:"quantity"`
}

// AddVariant checks the SKU against the catalog and adds the line with the
// variant recorded in its attributes.
func (s *CartService) AddVariant(ctx context.Context, req AddItemRequest) (*models.Cart, error) {
	if req.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	p, err := s.products.Product(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	v, err := FindVariant(p, req.SKU)
	if err != nil {
		return nil, err
	}

	quantity := variant.ClampQuantity(req.Quantity, v)
	item := models.AddToCartRequest{
		ProductID:  p.ID,
		Quantity:   quantity,
		Attributes: variantAttributes(v),
	}

	cart, err := s.api.AddCartItem(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("failed to add %s to cart: %w", p.ID, err)
	}
	slog.Info("Cart item added",
		"product_id", p.ID,
		"sku", req.SKU,
		"quantity", quantity,
		"requested_quantity", req.Quantity)
	s.remember(ctx, cart)
	return cart, nil
}

func variantAttributes(v *models.Variant) map[string]any {
	if v == nil {
		return nil
	}
	attrs := make(map[string]any, len(v.Attributes)+3)
	for _, a := range v.Attributes {
		attrs[a.Name] = a.Value
	}
	// Reserved keys win over variant attributes of the same name.
	attrs[models.AttrSKU] = v.SKU
	attrs[models.AttrVariantID] = v.ID
	attrs[models.AttrVariantName] = v.Label()
	if v.Name != "" {
		attrs[models.AttrVariantName] = v.Name
	}
	return attrs
}

func (s *CartService) UpdateQuantity(ctx context.Context, productID string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	cart, err := s.api.UpdateCartItem(ctx, productID, quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to update cart item %s: %w", productID, err)
	}
	s.remember(ctx, cart)
	return cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, productID string) (*models.Cart, error) {
	cart, err := s.api.RemoveCartItem(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove cart item %s: %w", productID, err)
	}
	s.remember(ctx, cart)
	return cart, nil
}

func (s *CartService) Clear(ctx context.Context) (*models.Cart, error) {
	cart, err := s.api.ClearCart(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}
	s.remember(ctx, cart)
	return cart, nil
}

func (s *CartService) remember(ctx context.Context, cart *models.Cart) {
	if cart == nil {
		return
	}
	s.mirror.Set(s.api.EffectiveUserID(ctx), *cart)
}
