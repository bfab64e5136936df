package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"zshop-storefront-api/internal/middleware"
	"zshop-storefront-api/internal/services"
)

// Handlers groups every route handler of the API.
type Handlers struct {
	Health    *HealthHandler
	Auth      *AuthHandler
	Catalog   *CatalogHandler
	Cart      *CartHandler
	Checkout  *CheckoutHandler
	Addresses *AddressHandler
	Orders    *OrderHandler
	Location  *LocationHandler
	Payments  *PaymentHandler
	Theme     *ThemeHandler
	RateLimit *RateLimitStatusHandler
}

// RegisterRoutes mounts the API on r. Ops routes require one of opsKeys.
func RegisterRoutes(r *mux.Router, h Handlers, opsKeys string) {
	r.HandleFunc("/health", h.Health.Health).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)
	v1.HandleFunc("/auth/refresh", h.Auth.Refresh).Methods(http.MethodPost)

	// Specific product routes first
	v1.HandleFunc("/products", h.Catalog.ListProducts).Methods(http.MethodGet)
	v1.HandleFunc("/products/all", h.Catalog.AllProducts).Methods(http.MethodGet)
	v1.HandleFunc("/products/featured", h.Catalog.Collection(services.CollectionFeatured)).Methods(http.MethodGet)
	v1.HandleFunc("/products/new", h.Catalog.Collection(services.CollectionNew)).Methods(http.MethodGet)
	v1.HandleFunc("/products/best-sellers", h.Catalog.Collection(services.CollectionBestSellers)).Methods(http.MethodGet)
	v1.HandleFunc("/products/metadata", h.Catalog.Metadata).Methods(http.MethodGet)
	v1.HandleFunc("/products/category/{categoryId}", h.Catalog.ByCategory).Methods(http.MethodGet)
	v1.HandleFunc("/products/{productId}", h.Catalog.GetProduct).Methods(http.MethodGet)
	v1.HandleFunc("/products/{productId}/variants/resolve", h.Catalog.ResolveVariant).Methods(http.MethodPost)

	v1.HandleFunc("/categories", h.Catalog.Categories).Methods(http.MethodGet)
	v1.HandleFunc("/categories/{categoryId}", h.Catalog.GetCategory).Methods(http.MethodGet)

	v1.HandleFunc("/cart", h.Cart.GetCart).Methods(http.MethodGet)
	v1.HandleFunc("/cart", h.Cart.Clear).Methods(http.MethodDelete)
	v1.HandleFunc("/cart/items", h.Cart.AddItem).Methods(http.MethodPost)
	v1.HandleFunc("/cart/items/{productId}", h.Cart.UpdateItem).Methods(http.MethodPatch)
	v1.HandleFunc("/cart/items/{productId}", h.Cart.RemoveItem).Methods(http.MethodDelete)

	v1.HandleFunc("/checkout", h.Checkout.Checkout).Methods(http.MethodPost)

	v1.HandleFunc("/addresses", h.Addresses.List).Methods(http.MethodGet)
	v1.HandleFunc("/addresses", h.Addresses.Create).Methods(http.MethodPost)
	v1.HandleFunc("/addresses/{addressId}", h.Addresses.Update).Methods(http.MethodPut)
	v1.HandleFunc("/addresses/{addressId}", h.Addresses.Delete).Methods(http.MethodDelete)
	v1.HandleFunc("/addresses/{addressId}/default", h.Addresses.SetDefault).Methods(http.MethodPut)

	v1.HandleFunc("/orders", h.Orders.List).Methods(http.MethodGet)
	v1.HandleFunc("/orders/{orderId}", h.Orders.Get).Methods(http.MethodGet)

	v1.HandleFunc("/location/autocomplete", h.Location.Autocomplete).Methods(http.MethodGet)
	v1.HandleFunc("/payments/cod", h.Payments.COD).Methods(http.MethodPost)
	v1.HandleFunc("/theme", h.Theme.GetTheme).Methods(http.MethodGet)

	ops := v1.PathPrefix("/ops").Subrouter()
	ops.Use(middleware.OpsAuthMiddleware(opsKeys))
	ops.HandleFunc("/rate-limit/status", h.RateLimit.GetRateLimitStatus).Methods(http.MethodGet)
	ops.HandleFunc("/rate-limit/reset", h.RateLimit.ResetRateLimits).Methods(http.MethodPost)
}
