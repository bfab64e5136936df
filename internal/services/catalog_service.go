package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"zshop-storefront-api/internal/cache"
	"zshop-storefront-api/internal/models"
	"zshop-storefront-api/internal/pagination"
	"zshop-storefront-api/internal/variant"
)

var (
	ErrUnknownVariant     = variant.ErrUnknownVariant
	ErrVariantUnavailable = variant.ErrVariantUnavailable
	ErrVariantRequired    = variant.ErrVariantRequired
)

// CatalogAPI is the part of the shop API the catalog needs.
type CatalogAPI interface {
	Products(ctx context.Context, q pagination.ProductQuery) (*models.PaginatedResponse[models.Product], error)
	AllProducts(ctx context.Context, filters url.Values) ([]models.Product, error)
	Product(ctx context.Context, productID string) (*models.Product, error)
	FeaturedProducts(ctx context.Context) ([]models.Product, error)
	NewProducts(ctx context.Context) ([]models.Product, error)
	BestSellers(ctx context.Context) ([]models.Product, error)
	ProductsByCategory(ctx context.Context, categoryID string) ([]models.Product, error)
	ProductMetadata(ctx context.Context) (*models.ProductMetadata, error)
	Categories(ctx context.Context) ([]models.Category, error)
	Category(ctx context.Context, categoryID string) (*models.Category, error)
}

// VariantObserver is told how each resolve request ended.
type VariantObserver interface {
	VariantResolved(ctx context.Context, resolved bool)
}

// CatalogService serves products and categories.
type CatalogService struct {
	api      CatalogAPI
	products *cache.TTLCache[models.Product]
	observer VariantObserver
}

func NewCatalogService(api CatalogAPI, ttl, cleanup time.Duration) *CatalogService {
	return &CatalogService{
		api:      api,
		products: cache.NewTTLCache[models.Product]("products", ttl, cleanup),
	}
}

// SetObserver attaches a variant resolution observer
func (s *CatalogService) SetObserver(o VariantObserver) {
	s.observer = o
}

// Cache exposes the product cache for stats and metrics.
func (s *CatalogService) Cache() *cache.TTLCache[models.Product] {
	return s.products
}

func (s *CatalogService) Close() {
	s.products.Stop()
}

func (s *CatalogService) Products(ctx context.Context, q pagination.ProductQuery) (*models.PaginatedResponse[models.Product], error) {
	page, err := s.api.Products(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	derive(page.Data)
	return page, nil
}

func (s *CatalogService) AllProducts(ctx context.Context, filters url.Values) ([]models.Product, error) {
	list, err := s.api.AllProducts(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list all products: %w", err)
	}
	return derive(list), nil
}

// Collection names the curated lists.
type Collection string

const (
	CollectionFeatured    Collection = "featured"
	CollectionNew         Collection = "new"
	CollectionBestSellers Collection = "best-sellers"
)

// Collection returns a curated list in upstream order.
func (s *CatalogService) Collection(ctx context.Context, c Collection) ([]models.Product, error) {
	var (
		list []models.Product
		err  error
	)
	switch c {
	case CollectionFeatured:
		list, err = s.api.FeaturedProducts(ctx)
	case CollectionNew:
		list, err = s.api.NewProducts(ctx)
	case CollectionBestSellers:
		list, err = s.api.BestSellers(ctx)
	default:
		return nil, fmt.Errorf("unknown collection %q", c)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %s products: %w", c, err)
	}
	return derive(list), nil
}

func (s *CatalogService) ByCategory(ctx context.Context, categoryID string) ([]models.Product, error) {
	list, err := s.api.ProductsByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products of category %s: %w", categoryID, err)
	}
	return derive(list), nil
}

func derive(list []models.Product) []models.Product {
	for i := range list {
		list[i].Derive()
	}
	return list
}

// Product returns a product, from cache when fresh.
func (s *CatalogService) Product(ctx context.Context, productID string) (*models.Product, error) {
	p, err := s.products.GetOrLoad(productID, func() (models.Product, error) {
		loaded, err := s.api.Product(ctx, productID)
		if err != nil {
			return models.Product{}, err
		}
		loaded.Derive()
		return *loaded, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", productID, err)
	}
	return &p, nil
}

func (s *CatalogService) Metadata(ctx context.Context) (*models.ProductMetadata, error) {
	m, err := s.api.ProductMetadata(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get product metadata: %w", err)
	}
	return m, nil
}

// Categories returns the shop's categories, each with an icon.
func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	list, err := s.api.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	for i := range list {
		withIcon(&list[i])
	}
	return list, nil
}

func (s *CatalogService) Category(ctx context.Context, categoryID string) (*models.Category, error) {
	c, err := s.api.Category(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get category %s: %w", categoryID, err)
	}
	withIcon(c)
	return c, nil
}

func withIcon(c *models.Category) {
	if c.Icon == "" {
		c.Icon = models.IconFor(c.Name)
	}
}

// AttributePick is one attribute change made on the product page.
type AttributePick struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ResolveRequest is the shopper's current attribute picks for one product.
// Select, when set, is merged into Selection before resolving.
type ResolveRequest struct {
	Selection variant.Selection `json:"selection"`
	Select    *AttributePick    `json:"select,omitempty"`
	Quantity  int               `json:"quantity"`
}

// ResolveVariant derives the product page state from a selection.
func (s *CatalogService) ResolveVariant(ctx context.Context, productID string, req ResolveRequest) (*variant.View, error) {
	p, err := s.Product(ctx, productID)
	if err != nil {
		return nil, err
	}
	r := variant.NewResolver(p.Variants)
	selection := req.Selection
	if req.Select != nil && req.Select.Name != "" {
		selection, _ = r.Select(selection, req.Select.Name, req.Select.Value)
	}
	view := r.View(selection, req.Quantity)

	if s.observer != nil {
		s.observer.VariantResolved(ctx, view.Variant != nil)
	}
	slog.Debug("Variant resolved",
		"product_id", productID,
		"selection_size", len(selection),
		"resolved", view.Variant != nil)
	return &view, nil
}

// FindVariant returns the in-stock variant of p with sku.
func FindVariant(p *models.Product, sku string) (*models.Variant, error) {
	return variant.Pick(p.Variants, sku)
}
