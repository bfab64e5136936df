package utils

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ParseDuration parses a config value, falling back to def with a warning.
func ParseDuration(key, value string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || d <= 0 {
		slog.Warn("Invalid duration in configuration, using default",
			"key", key,
			"value", value,
			"default", def.String())
		return def
	}
	return d
}

// ParseInt parses a config value, falling back to def with a warning.
func ParseInt(key, value string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		slog.Warn("Invalid integer in configuration, using default", "key", key, "value", value, "default", def)
		return def
	}
	return n
}

// ParseBool parses a config value, falling back to def with a warning.
func ParseBool(key, value string, def bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		slog.Warn("Invalid boolean in configuration, using default", "key", key, "value", value, "default", def)
		return def
	}
	return b
}

// ParseDecimal parses a money amount, falling back to def with a warning.
func ParseDecimal(key, value string, def decimal.Decimal) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil || d.IsNegative() {
		slog.Warn("Invalid amount in configuration, using default", "key", key, "value", value, "default", def.String())
		return def
	}
	return d
}

// SplitList splits a comma-separated value and drops empty items.
func SplitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
