package client

import (
	"context"
	"net/http"
	"net/url"

	"zshop-storefront-api/internal/models"
	"zshop-storefront-api/internal/pagination"
)

// Login exchanges a Zalo access token for shop tokens.
func (c *ShopClient) Login(ctx context.Context, zaloAccessToken string) (*models.TokenPair, error) {
	body := models.LoginRequest{AppID: c.appID, AccessToken: zaloAccessToken, ShopID: c.shopID}
	var pair models.TokenPair
	if err := c.do(ctx, call{method: http.MethodPost, path: "/auth/user-login", body: body, access: public}, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

// Refresh exchanges a refresh token for a new token pair.
func (c *ShopClient) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrNoRefreshToken
	}
	var pair models.TokenPair
	err := c.do(ctx, call{method: http.MethodPost, path: "/auth/refresh-token", body: models.RefreshRequest{RefreshToken: refreshToken}, access: public}, &pair)
	if err != nil {
		return nil, err
	}
	return &pair, nil
}

// Addresses lists the shopper's saved addresses for this shop.
func (c *ShopClient) Addresses(ctx context.Context) ([]models.Address, error) {
	var list models.AddressList
	err := c.do(ctx, call{method: http.MethodGet, path: "/address", query: url.Values{"shopId": {c.shopID}}, access: private}, &list)
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (c *ShopClient) CreateAddress(ctx context.Context, req models.AddressRequest) (*models.Address, error) {
	if req.ShopID == "" {
		req.ShopID = c.shopID
	}
	var a models.Address
	if err := c.do(ctx, call{method: http.MethodPost, path: "/address", body: req, access: private}, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *ShopClient) UpdateAddress(ctx context.Context, addressID string, req models.AddressRequest) (*models.Address, error) {
	if req.ShopID == "" {
		req.ShopID = c.shopID
	}
	var a models.Address
	if err := c.do(ctx, call{method: http.MethodPut, path: "/address/" + url.PathEscape(addressID), body: req, access: private}, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *ShopClient) DeleteAddress(ctx context.Context, addressID string) error {
	return c.do(ctx, call{method: http.MethodDelete, path: "/address/" + url.PathEscape(addressID), access: private}, nil)
}

func (c *ShopClient) SetDefaultAddress(ctx context.Context, addressID string) (*models.Address, error) {
	var a models.Address
	if err := c.do(ctx, call{method: http.MethodPut, path: "/address/" + url.PathEscape(addressID) + "/set-default", access: private}, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// MyOrders lists the logged-in shopper's orders. The endpoint is not paginated.
func (c *ShopClient) MyOrders(ctx context.Context, status string) ([]models.Order, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	return c.orderList(ctx, "/customer/orders/me", query)
}

// OrdersByPhone lists orders placed with phone.
func (c *ShopClient) OrdersByPhone(ctx context.Context, phone string, q pagination.OrderQuery) ([]models.Order, error) {
	query := q.Values()
	query.Set("phone", phone)
	return c.orderList(ctx, "/customer/orders", query)
}

func (c *ShopClient) orderList(ctx context.Context, path string, query url.Values) ([]models.Order, error) {
	var list models.OrderList
	if err := c.do(ctx, call{method: http.MethodGet, path: path, query: query, access: private}, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Order returns one order. phone is sent when the shopper is not logged in.
func (c *ShopClient) Order(ctx context.Context, orderID, phone string) (*models.Order, error) {
	query := url.Values{}
	if phone != "" {
		query.Set("phone", phone)
	}
	var o models.Order
	if err := c.do(ctx, call{method: http.MethodGet, path: "/customer/orders/" + url.PathEscape(orderID), query: query, access: private}, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// Autocomplete asks the location service for address predictions.
func (c *ShopClient) Autocomplete(ctx context.Context, input string) (*models.AutocompleteResponse, error) {
	var resp models.AutocompleteResponse
	err := c.do(ctx, call{method: http.MethodGet, path: "/location/autocomplete", query: url.Values{"input": {input}}, access: public}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateCODOrder registers a cash-on-delivery order.
func (c *ShopClient) CreateCODOrder(ctx context.Context, req models.CODOrderRequest) (*models.CODOrderResponse, error) {
	var resp models.CODOrderResponse
	if err := c.do(ctx, call{method: http.MethodPost, path: c.codPath, body: req, access: private}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
