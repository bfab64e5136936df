package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zshop-storefront-api/internal/models"
	"zshop-storefront-api/internal/pagination"
)

const testGuestID = "68b00ed59cf44607992bf4c7"

func token(t *testing.T, userID string, exp time.Time) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  userID,
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   string
}

type fakeUpstream struct {
	mu       sync.Mutex
	requests []recordedRequest
	handler  http.HandlerFunc
}

func (f *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Header: r.Header.Clone(),
		Body:   string(body),
	})
	f.mu.Unlock()
	f.handler(w, r)
}

func (f *fakeUpstream) Requests() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*ShopClient, *fakeUpstream) {
	t.Helper()
	up := &fakeUpstream{handler: handler}
	srv := httptest.NewServer(up)
	t.Cleanup(srv.Close)
	return New(Config{
		BaseURL:     srv.URL,
		ShopID:      "shop-1",
		AppID:       "app-1",
		GuestUserID: testGuestID,
		Timeout:     5 * time.Second,
	}), up
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestGuestCartCarriesGuestIdentity(t *testing.T) {
	c, up := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"items": []any{}})
	})

	cart, err := c.Cart(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	reqs := up.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/cart", reqs[0].Path)
	assert.Equal(t, "userId="+testGuestID, reqs[0].Query)
	assert.Equal(t, testGuestID, reqs[0].Header.Get("x-user-id"))
	assert.Empty(t, reqs[0].Header.Get("Authorization"))
	assert.NotEmpty(t, reqs[0].Header.Get("X-Request-ID"))
}

func TestAuthenticatedCartUsesTokenUser(t *testing.T) {
	c, up := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"items": []any{map[string]any{"productId": map[string]any{"_id": "p1", "name": "T-Shirt"}, "quantity": 2, "price": 1000}},
		})
	})
	access := token(t, "user-42", time.Now().Add(time.Hour))
	ctx := WithSession(context.Background(), NewSession(access, "refresh-1"))

	cart, err := c.Cart(ctx)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "p1", cart.Items[0].ProductID)
	assert.Equal(t, 2, cart.TotalItems)

	req := up.Requests()[0]
	assert.Equal(t, "userId=user-42", req.Query)
	assert.Equal(t, "Bearer "+access, req.Header.Get("Authorization"))
	assert.Empty(t, req.Header.Get("x-user-id"))
}

func TestUpdateCartItemUsesMethodOverride(t *testing.T) {
	c, up := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"items": []any{}})
	})

	_, err := c.UpdateCartItem(context.Background(), "p1", 3)
	require.NoError(t, err)

	req := up.Requests()[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/cart/items/p1", req.Path)
	assert.JSONEq(t, `{"quantity":3,"_method":"PATCH"}`, req.Body)
}

func TestRefreshAndRetryOnceOn401(t *testing.T) {
	stale := token(t, "user-1", time.Now().Add(time.Hour))
	fresh := token(t, "user-1", time.Now().Add(2*time.Hour))

	c, up := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh-token":
			writeJSON(w, http.StatusOK, map[string]any{"accessToken": fresh, "refreshToken": "refresh-2"})
		case "/address":
			if r.Header.Get("Authorization") == "Bearer "+fresh {
				writeJSON(w, http.StatusOK, []any{map[string]any{"id": "a1", "name": "A"}})
				return
			}
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "jwt expired"})
		}
	})
	sess := NewSession(stale, "refresh-1")
	ctx := WithSession(context.Background(), sess)

	list, err := c.Addresses(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	paths := []string{}
	for _, r := range up.Requests() {
		paths = append(paths, r.Path)
	}
	assert.Equal(t, []string{"/address", "/auth/refresh-token", "/address"}, paths)
	assert.True(t, sess.Refreshed())
	assert.Equal(t, fresh, sess.AccessToken())
	assert.Equal(t, "refresh-2", sess.RefreshToken())
	assert.JSONEq(t, `{"refreshToken":"refresh-1"}`, up.Requests()[1].Body)
}

func TestFailedRefreshLogsOut(t *testing.T) {
	c, up := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "invalid"})
	})
	sess := NewSession(token(t, "user-1", time.Now().Add(time.Hour)), "refresh-1")
	ctx := WithSession(context.Background(), sess)

	_, err := c.MyOrders(ctx, "")

	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	assert.True(t, IsUnauthorized(err))
	assert.True(t, sess.Cleared())
	assert.False(t, sess.Authenticated())
	assert.Len(t, up.Requests(), 2)
}

func TestSecond401AfterRefreshIsNotRetriedAgain(t *testing.T) {
	fresh := token(t, "user-1", time.Now().Add(2*time.Hour))
	c, up := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh-token" {
			writeJSON(w, http.StatusOK, map[string]any{"accessToken": fresh})
			return
		}
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "still no"})
	})
	ctx := WithSession(context.Background(), NewSession("opaque", "refresh-1"))

	_, err := c.Addresses(ctx)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "still no", apiErr.UserMessage())
	assert.Len(t, up.Requests(), 3)
}

func TestExpiredTokenRefreshedBeforeRequest(t *testing.T) {
	fresh := token(t, "user-9", time.Now().Add(time.Hour))
	c, up := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh-token" {
			writeJSON(w, http.StatusOK, map[string]any{"accessToken": fresh, "refreshToken": "r2"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": []any{}})
	})
	sess := NewSession(token(t, "user-9", time.Now().Add(-time.Minute)), "r1")

	_, err := c.Cart(WithSession(context.Background(), sess))
	require.NoError(t, err)

	reqs := up.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "/auth/refresh-token", reqs[0].Path)
	assert.Equal(t, "Bearer "+fresh, reqs[1].Header.Get("Authorization"))
}

func TestGuest401IsAuthenticationFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.Checkout(context.Background(), models.CheckoutPayload{Mode: models.ModeBuyNow})
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestPublicEndpointsSendNoIdentity(t *testing.T) {
	c, up := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []any{map[string]any{"id": "p1", "name": "Cap"}})
	})
	ctx := WithSession(context.Background(), NewSession(token(t, "u", time.Now().Add(time.Hour)), ""))

	list, err := c.FeaturedProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	req := up.Requests()[0]
	assert.Equal(t, "/shops/shop-1/products/featured", req.Path)
	assert.Empty(t, req.Header.Get("Authorization"))
	assert.Empty(t, req.Header.Get("x-user-id"))
}

func TestProductsQueryEncoding(t *testing.T) {
	c, up := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"data": []any{map[string]any{"_id": "p1", "name": "Cap"}},
			"meta": map[string]any{"page": 2, "limit": 20, "total": 21, "totalPages": 2, "hasPrevious": true},
		})
	})
	minPrice := decimal.NewFromInt(1000)

	page, err := c.Products(context.Background(), pagination.ProductQuery{
		Query:      pagination.Query{Page: 2, Limit: 20},
		CategoryID: "c1",
		MinPrice:   &minPrice,
	})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "p1", page.Data[0].ID)
	assert.Equal(t, 21, page.Meta.Total)

	assert.Equal(t, "categoryId=c1&limit=20&minPrice=1000&page=2", up.Requests()[0].Query)
}

func TestMalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"product without id", `{"name":"Cap"}`},
		{"not json", `<html>`},
		{"wrong type", `{"id":"p1","name":"Cap","variants":"none"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.Product(context.Background(), "p1")
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestAPIErrorCarriesMessage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Product not found"})
	})

	_, err := c.Product(context.Background(), "missing")

	assert.True(t, IsNotFound(err))
	assert.False(t, IsUnauthorized(err))
	assert.Equal(t, http.StatusNotFound, StatusCode(err))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Product not found", apiErr.UserMessage())
}

func TestLoginSendsAppAndShop(t *testing.T) {
	c, up := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"accessToken":  "a",
			"refreshToken": "r",
			"user":         map[string]any{"id": "u1", "fullName": "Nguyen A"},
		})
	})

	pair, err := c.Login(context.Background(), "zalo-token")
	require.NoError(t, err)
	assert.Equal(t, "Nguyen A", pair.User.FullName)
	assert.JSONEq(t, `{"appId":"app-1","accessToken":"zalo-token","shopId":"shop-1"}`, up.Requests()[0].Body)
}

func TestCreateCODOrderPath(t *testing.T) {
	c, up := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "orderId": "o1"})
	})

	resp, err := c.CreateCODOrder(context.Background(), models.CODOrderRequest{PaymentMethod: "COD", Amount: decimal.NewFromInt(50000)})
	require.NoError(t, err)
	assert.Equal(t, "o1", resp.OrderID)
	assert.Equal(t, "/payment/cod-order", up.Requests()[0].Path)
}

func TestSessionClaims(t *testing.T) {
	s := NewSession(token(t, "user-7", time.Now().Add(-time.Second)), "r")
	assert.Equal(t, "user-7", s.UserID())
	assert.True(t, s.Expired(time.Now()))
	assert.True(t, s.Authenticated())

	opaque := NewSession("not-a-jwt", "")
	assert.Empty(t, opaque.UserID())
	assert.False(t, opaque.Expired(time.Now()))

	var guest *Session
	assert.False(t, guest.Authenticated())
	assert.Empty(t, guest.UserID())
	guest.Logout()
}
