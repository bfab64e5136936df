package client

import (
	"context"
	"net/http"
	"net/url"

	"zshop-storefront-api/internal/models"
)

func (c *ShopClient) cartCall(ctx context.Context, method, path string, body any) (*models.Cart, error) {
	var cart models.Cart
	if err := c.do(ctx, call{method: method, path: path, body: body, access: private, withID: true}, &cart); err != nil {
		return nil, err
	}
	cart.Recount()
	return &cart, nil
}

// Cart returns the shopper's cart.
func (c *ShopClient) Cart(ctx context.Context) (*models.Cart, error) {
	return c.cartCall(ctx, http.MethodGet, "/cart", nil)
}

func (c *ShopClient) AddCartItem(ctx context.Context, item models.AddToCartRequest) (*models.Cart, error) {
	return c.cartCall(ctx, http.MethodPost, "/cart/items", item)
}

// UpdateCartItem changes a line's quantity. The shop API takes this as a
// POST carrying _method=PATCH.
func (c *ShopClient) UpdateCartItem(ctx context.Context, productID string, quantity int) (*models.Cart, error) {
	body := models.UpdateQuantityRequest{Quantity: quantity, Method: http.MethodPatch}
	return c.cartCall(ctx, http.MethodPost, "/cart/items/"+url.PathEscape(productID), body)
}

func (c *ShopClient) RemoveCartItem(ctx context.Context, productID string) (*models.Cart, error) {
	return c.cartCall(ctx, http.MethodDelete, "/cart/items/"+url.PathEscape(productID), nil)
}

func (c *ShopClient) ClearCart(ctx context.Context) (*models.Cart, error) {
	return c.cartCall(ctx, http.MethodDelete, "/cart/clear", nil)
}

// Checkout places an order for either checkout mode.
func (c *ShopClient) Checkout(ctx context.Context, payload models.CheckoutPayload) (*models.CheckoutResponse, error) {
	var resp models.CheckoutResponse
	err := c.do(ctx, call{method: http.MethodPost, path: "/cart/checkout", body: payload, access: private, withID: true}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
