package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"zshop-storefront-api/internal/utils"
)

// Config holds all configuration for the application
type Config struct {
	Port        string
	LogLevel    string
	Environment string

	ShopAPIBaseURL  string
	ShopID          string
	AppID           string
	GuestUserID     string
	UpstreamTimeout string
	CODOrderPath    string

	ShippingFee            string
	CheckoutIdempotencyTTL string

	ProductCacheTTL      string
	AddressCacheTTL      string
	OrdersCacheTTL       string
	LocationCacheTTL     string
	CacheCleanupInterval string
	AutocompleteDebounce string

	RateLimitEnabled                   string
	RateLimitType                      string
	RateLimitRequestsPerMinute         string
	RateLimitWindowMinutes             string
	RateLimitCheckoutRequestsPerMinute string

	OpsAPIKeys      string
	MetricsExporter string

	ThemeTemplate        string
	ThemeProjectName     string
	ThemePrimaryColor    string
	ThemeBackgroundColor string
	ThemeTextColor       string
	ThemeFontFamily      string
	ThemeLogoURL         string
	ThemeBannerURL       string
}

// LoadConfig loads configuration from .env file and environment variables
func LoadConfig() *Config {
	// This will not override existing environment variables
	err := godotenv.Load()
	if err != nil {
		slog.Warn("Could not load .env file, continuing with system environment variables only", "error", err)
	} else {
		slog.Info("Successfully loaded .env file")
	}

	config := FromEnv()

	utils.SetupLogging(config.LogLevel)

	slog.Info("Configuration loaded",
		"port", config.Port,
		"environment", config.Environment,
		"log_level", config.LogLevel,
		"shop_api_base_url", config.ShopAPIBaseURL,
		"shop_id", config.ShopID,
		"upstream_timeout", config.UpstreamTimeout,
		"shipping_fee", config.ShippingFee,
		"product_cache_ttl", config.ProductCacheTTL,
		"orders_cache_ttl", config.OrdersCacheTTL,
		"autocomplete_debounce", config.AutocompleteDebounce,
		"rate_limit_enabled", config.RateLimitEnabled,
		"rate_limit_type", config.RateLimitType,
		"metrics_exporter", config.MetricsExporter,
		"theme_template", config.ThemeTemplate)

	return config
}

// FromEnv reads the configuration from the environment only.
func FromEnv() *Config {
	return &Config{
		Port:        getEnvWithDefault("PORT", "8080"),
		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),
		Environment: getEnvWithDefault("ENVIRONMENT", "development"),

		ShopAPIBaseURL:  getEnvWithDefault("SHOP_API_BASE_URL", "https://zshop-api.crbgroup.live"),
		ShopID:          getEnvWithDefault("SHOP_ID", "68ad2eaae02ddc5108d2fd1a"),
		AppID:           getEnvWithDefault("APP_ID", "4447770839699639655"),
		GuestUserID:     getEnvWithDefault("GUEST_USER_ID", "68b00ed59cf44607992bf4c7"),
		UpstreamTimeout: getEnvWithDefault("UPSTREAM_TIMEOUT", "30s"),
		CODOrderPath:    getEnvWithDefault("COD_ORDER_PATH", "/payment/cod-order"),

		ShippingFee:            getEnvWithDefault("SHIPPING_FEE", "30000"),
		CheckoutIdempotencyTTL: getEnvWithDefault("CHECKOUT_IDEMPOTENCY_TTL", "10m"),

		ProductCacheTTL:      getEnvWithDefault("PRODUCT_CACHE_TTL", "1m"),
		AddressCacheTTL:      getEnvWithDefault("ADDRESS_CACHE_TTL", "5m"),
		OrdersCacheTTL:       getEnvWithDefault("ORDERS_CACHE_TTL", "30s"),
		LocationCacheTTL:     getEnvWithDefault("LOCATION_CACHE_TTL", "10m"),
		CacheCleanupInterval: getEnvWithDefault("CACHE_CLEANUP_INTERVAL", "30s"),
		AutocompleteDebounce: getEnvWithDefault("AUTOCOMPLETE_DEBOUNCE", "300ms"),

		RateLimitEnabled:                   getEnvWithDefault("RATE_LIMIT_ENABLED", "true"),
		RateLimitType:                      getEnvWithDefault("RATE_LIMIT_TYPE", "ip"),
		RateLimitRequestsPerMinute:         getEnvWithDefault("RATE_LIMIT_REQUESTS_PER_MINUTE", "120"),
		RateLimitWindowMinutes:             getEnvWithDefault("RATE_LIMIT_WINDOW_MINUTES", "1"),
		RateLimitCheckoutRequestsPerMinute: getEnvWithDefault("RATE_LIMIT_CHECKOUT_REQUESTS_PER_MINUTE", "10"),

		OpsAPIKeys:      os.Getenv("OPS_API_KEYS"),
		MetricsExporter: getEnvWithDefault("METRICS_EXPORTER", "scraper"),

		ThemeTemplate:        getEnvWithDefault("THEME_TEMPLATE", "cosmetic"),
		ThemeProjectName:     os.Getenv("THEME_PROJECT_NAME"),
		ThemePrimaryColor:    os.Getenv("THEME_PRIMARY_COLOR"),
		ThemeBackgroundColor: os.Getenv("THEME_BACKGROUND_COLOR"),
		ThemeTextColor:       os.Getenv("THEME_TEXT_COLOR"),
		ThemeFontFamily:      os.Getenv("THEME_FONT_FAMILY"),
		ThemeLogoURL:         os.Getenv("THEME_LOGO_URL"),
		ThemeBannerURL:       os.Getenv("THEME_BANNER_URL"),
	}
}

// getEnvWithDefault gets an environment variable with a default fallback
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
