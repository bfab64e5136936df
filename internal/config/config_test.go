package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "ENVIRONMENT", "SHOP_API_BASE_URL", "COD_ORDER_PATH",
		"SHIPPING_FEE", "RATE_LIMIT_TYPE", "RATE_LIMIT_CHECKOUT_REQUESTS_PER_MINUTE",
		"OPS_API_KEYS", "METRICS_EXPORTER", "THEME_TEMPLATE", "THEME_PRIMARY_COLOR",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "https://zshop-api.crbgroup.live", cfg.ShopAPIBaseURL)
	assert.Equal(t, "/payment/cod-order", cfg.CODOrderPath)
	assert.Equal(t, "30000", cfg.ShippingFee)
	assert.Equal(t, "ip", cfg.RateLimitType)
	assert.Equal(t, "10", cfg.RateLimitCheckoutRequestsPerMinute)
	assert.Equal(t, "scraper", cfg.MetricsExporter)
	assert.Equal(t, "cosmetic", cfg.ThemeTemplate)
	assert.Empty(t, cfg.OpsAPIKeys)
	assert.Empty(t, cfg.ThemePrimaryColor)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("SHOP_ID", "shop-42")
	t.Setenv("COD_ORDER_PATH", "/v2/payment/cod")
	t.Setenv("OPS_API_KEYS", "a,b")
	t.Setenv("THEME_TEMPLATE", "fashion")
	t.Setenv("THEME_PRIMARY_COLOR", "#112233")

	cfg := FromEnv()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "shop-42", cfg.ShopID)
	assert.Equal(t, "/v2/payment/cod", cfg.CODOrderPath)
	assert.Equal(t, "a,b", cfg.OpsAPIKeys)
	assert.Equal(t, "fashion", cfg.ThemeTemplate)
	assert.Equal(t, "#112233", cfg.ThemePrimaryColor)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
}
