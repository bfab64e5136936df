package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"zshop-storefront-api/internal/checkout"
	"zshop-storefront-api/internal/client"
	"zshop-storefront-api/internal/config"
	"zshop-storefront-api/internal/handlers"
	"zshop-storefront-api/internal/middleware"
	"zshop-storefront-api/internal/notify"
	"zshop-storefront-api/internal/services"
	"zshop-storefront-api/internal/telemetry"
	"zshop-storefront-api/internal/theme"
	"zshop-storefront-api/internal/utils"
)

func main() {
	cfg := config.LoadConfig()

	slog.Info("Starting storefront API", "version", "1.0.0")

	ctx := context.Background()
	otelTelemetry := telemetry.InitMetrics(ctx, cfg.MetricsExporter)
	slog.Info("OpenTelemetry telemetry initialized")

	apiTelemetry := telemetry.NewStorefrontTelemetry()
	if err := apiTelemetry.InitializeTelemetry(ctx); err != nil {
		slog.Error("Failed to initialize API telemetry", "error", err)
		return
	}

	cleanup := utils.ParseDuration("CACHE_CLEANUP_INTERVAL", cfg.CacheCleanupInterval, 30*time.Second)

	shop := client.New(client.Config{
		BaseURL:     cfg.ShopAPIBaseURL,
		ShopID:      cfg.ShopID,
		AppID:       cfg.AppID,
		GuestUserID: cfg.GuestUserID,
		CODPath:     cfg.CODOrderPath,
		Timeout:     utils.ParseDuration("UPSTREAM_TIMEOUT", cfg.UpstreamTimeout, 30*time.Second),
	})

	// Initialize services
	productTTL := utils.ParseDuration("PRODUCT_CACHE_TTL", cfg.ProductCacheTTL, time.Minute)
	catalogService := services.NewCatalogService(shop, productTTL, cleanup)
	catalogService.SetObserver(apiTelemetry)
	cartService := services.NewCartService(shop, catalogService, productTTL, cleanup)
	addressService := services.NewAddressService(shop,
		utils.ParseDuration("ADDRESS_CACHE_TTL", cfg.AddressCacheTTL, 5*time.Minute), cleanup)
	orderService := services.NewOrderService(shop,
		utils.ParseDuration("ORDERS_CACHE_TTL", cfg.OrdersCacheTTL, 30*time.Second), cleanup)
	locationService := services.NewLocationService(shop,
		utils.ParseDuration("AUTOCOMPLETE_DEBOUNCE", cfg.AutocompleteDebounce, 300*time.Millisecond),
		utils.ParseDuration("LOCATION_CACHE_TTL", cfg.LocationCacheTTL, 10*time.Minute), cleanup)
	paymentService := services.NewPaymentService(shop)

	catalogService.Cache().SetObserver(apiTelemetry)
	cartService.Cache().SetObserver(apiTelemetry)
	addressService.Cache().SetObserver(apiTelemetry)
	orderService.Cache().SetObserver(apiTelemetry)
	locationService.Cache().SetObserver(apiTelemetry)

	orchestrator := checkout.NewOrchestrator(checkout.Config{
		ShopID:         cfg.ShopID,
		ShippingFee:    utils.ParseDecimal("SHIPPING_FEE", cfg.ShippingFee, checkout.DefaultShippingFee),
		Submitter:      shop,
		Products:       catalogService,
		Cart:           cartService,
		Addresses:      addressService,
		Notifier:       notify.NewLogNotifier(slog.Default()),
		Observer:       apiTelemetry,
		IdempotencyTTL: utils.ParseDuration("CHECKOUT_IDEMPOTENCY_TTL", cfg.CheckoutIdempotencyTTL, 10*time.Minute),
	})
	slog.Info("Services initialized successfully")

	themes := theme.Load(theme.Overrides{
		Template:        cfg.ThemeTemplate,
		ProjectName:     cfg.ThemeProjectName,
		PrimaryColor:    cfg.ThemePrimaryColor,
		BackgroundColor: cfg.ThemeBackgroundColor,
		TextColor:       cfg.ThemeTextColor,
		FontFamily:      cfg.ThemeFontFamily,
		LogoURL:         cfg.ThemeLogoURL,
		BannerURL:       cfg.ThemeBannerURL,
	})

	r := mux.NewRouter()

	// Telemetry first, then rate limiting, then the shopper's session
	r.Use(telemetry.NewTelemetryMiddleware(apiTelemetry).Middleware)

	rateLimitConfig := middleware.ParseRateLimitConfig(cfg)
	var rateLimiter *middleware.RateLimiter
	if rateLimitConfig.Enabled {
		rateLimiter = middleware.NewRateLimiter(rateLimitConfig)
		r.Use(middleware.RateLimitMiddleware(rateLimiter))
		slog.Info("Rate limiting middleware enabled")
	} else {
		slog.Info("Rate limiting middleware disabled")
	}

	r.Use(middleware.SessionMiddleware)

	handlers.RegisterRoutes(r, handlers.Handlers{
		Health:    handlers.NewHealthHandler(shop),
		Auth:      handlers.NewAuthHandler(shop),
		Catalog:   handlers.NewCatalogHandler(catalogService),
		Cart:      handlers.NewCartHandler(cartService),
		Checkout:  handlers.NewCheckoutHandler(orchestrator, orderService),
		Addresses: handlers.NewAddressHandler(addressService),
		Orders:    handlers.NewOrderHandler(orderService),
		Location:  handlers.NewLocationHandler(locationService),
		Payments:  handlers.NewPaymentHandler(paymentService),
		Theme:     handlers.NewThemeHandler(themes),
		RateLimit: handlers.NewRateLimitStatusHandler(rateLimiter, map[string]handlers.StatsSource{
			"checkout_guard": orchestrator.Guard(),
			"product_cache":  catalogService.Cache(),
			"address_cache":  addressService.Cache(),
			"orders_cache":   orderService.Cache(),
			"location_cache": locationService.Cache(),
		}),
	}, cfg.OpsAPIKeys)
	slog.Debug("HTTP handlers initialized")

	slog.Info("Starting HTTP server",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"shop_id", cfg.ShopID)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server ready to accept connections", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	if rateLimiter != nil {
		rateLimiter.Stop()
	}
	orchestrator.Close()
	catalogService.Close()
	cartService.Close()
	addressService.Close()
	orderService.Close()
	locationService.Close()

	otelTelemetry.Close(shutdownCtx)
	slog.Info("Telemetry shutdown completed")

	slog.Info("Server exited")
}
