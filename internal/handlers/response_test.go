package handlers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zshop-storefront-api/internal/client"
)

func TestShopperKey(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		device string
		ip     string
		want   string
	}{
		{name: "logged in", token: signed, device: "d1", ip: "10.0.0.1", want: "user-1"},
		{name: "guest with device", device: "d1", ip: "10.0.0.1", want: "guest:device:d1"},
		{name: "guest by ip", ip: "10.0.0.2", want: "guest:ip:10.0.0.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/v1/location/autocomplete", nil)
			r.RemoteAddr = tt.ip + ":4000"
			if tt.device != "" {
				r.Header.Set(HeaderDeviceID, tt.device)
			}
			r = r.WithContext(client.WithSession(r.Context(), client.NewSession(tt.token, "")))

			assert.Equal(t, tt.want, shopperKey(r))
		})
	}

	a := httptest.NewRequest("GET", "/", nil)
	a.RemoteAddr = "10.0.0.3:1"
	b := httptest.NewRequest("GET", "/", nil)
	b.RemoteAddr = "10.0.0.4:1"
	assert.NotEqual(t, shopperKey(a), shopperKey(b), "guests without a session are still told apart")
}
