package client

import (
	"context"
	"net/http"
	"net/url"

	"zshop-storefront-api/internal/models"
	"zshop-storefront-api/internal/pagination"
)

func (c *ShopClient) shopPath(suffix string) string {
	return "/shops/" + url.PathEscape(c.shopID) + suffix
}

// Products returns one server-side page of the catalog.
func (c *ShopClient) Products(ctx context.Context, q pagination.ProductQuery) (*models.PaginatedResponse[models.Product], error) {
	var page models.PaginatedResponse[models.Product]
	err := c.do(ctx, call{method: http.MethodGet, path: c.shopPath("/products"), query: q.Values(), access: public}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// AllProducts returns the whole catalog matching the filters.
func (c *ShopClient) AllProducts(ctx context.Context, filters url.Values) ([]models.Product, error) {
	return c.productList(ctx, "/products/all", filters)
}

func (c *ShopClient) FeaturedProducts(ctx context.Context) ([]models.Product, error) {
	return c.productList(ctx, "/products/featured", nil)
}

func (c *ShopClient) NewProducts(ctx context.Context) ([]models.Product, error) {
	return c.productList(ctx, "/products/new", nil)
}

func (c *ShopClient) BestSellers(ctx context.Context) ([]models.Product, error) {
	return c.productList(ctx, "/products/best-sellers", nil)
}

func (c *ShopClient) ProductsByCategory(ctx context.Context, categoryID string) ([]models.Product, error) {
	return c.productList(ctx, "/products/category/"+url.PathEscape(categoryID), nil)
}

func (c *ShopClient) productList(ctx context.Context, suffix string, query url.Values) ([]models.Product, error) {
	var list models.ProductList
	if err := c.do(ctx, call{method: http.MethodGet, path: c.shopPath(suffix), query: query, access: public}, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Product returns one product with its variants.
func (c *ShopClient) Product(ctx context.Context, productID string) (*models.Product, error) {
	var p models.Product
	if err := c.do(ctx, call{method: http.MethodGet, path: c.shopPath("/products/" + url.PathEscape(productID)), access: public}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *ShopClient) ProductMetadata(ctx context.Context) (*models.ProductMetadata, error) {
	var m models.ProductMetadata
	if err := c.do(ctx, call{method: http.MethodGet, path: c.shopPath("/products/metadata"), access: public}, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *ShopClient) Categories(ctx context.Context) ([]models.Category, error) {
	var list models.CategoryList
	if err := c.do(ctx, call{method: http.MethodGet, path: c.shopPath("/categories"), access: public}, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *ShopClient) Category(ctx context.Context, categoryID string) (*models.Category, error) {
	var cat models.Category
	if err := c.do(ctx, call{method: http.MethodGet, path: c.shopPath("/categories/" + url.PathEscape(categoryID)), access: public}, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}
