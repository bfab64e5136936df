package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"zshop-storefront-api/internal/client"
	"zshop-storefront-api/internal/models"
)

// AuthAPI exchanges tokens with the shop API.
type AuthAPI interface {
	Login(ctx context.Context, zaloAccessToken string) (*models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
}

// AuthHandler handles login and token refresh.
type AuthHandler struct {
	api AuthAPI
}

func NewAuthHandler(api AuthAPI) *AuthHandler {
	return &AuthHandler{api: api}
}

type loginRequest struct {
	AccessToken string `json:"accessToken"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Login handles POST /v1/auth/login with the Zalo access token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.AccessToken == "" {
		writeErrorResponse(w, http.StatusBadRequest, "bad_request", "accessToken is required",
			[]models.ErrorDetail{{Field: "accessToken", Issue: "is required"}})
		return
	}

	pair, err := h.api.Login(r.Context(), req.AccessToken)
	if err != nil {
		writeServiceError(w, r, err, "Login failed")
		return
	}

	sess := client.SessionFrom(r.Context())
	if sess != nil {
		sess.SetTokens(pair.AccessToken, pair.RefreshToken)
	}
	slog.Info("Shopper logged in", "user_id", sess.UserID())
	writeJSONResponse(w, http.StatusOK, pair)
}

// Refresh handles POST /v1/auth/refresh. The token comes from the body or
// the X-Refresh-Token header.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sess := client.SessionFrom(r.Context())
	if req.RefreshToken == "" {
		req.RefreshToken = sess.RefreshToken()
	}

	pair, err := h.api.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		sess.Logout()
		slog.Info("Token refresh rejected", "error", err)
		writeErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication failed", nil)
		return
	}

	if sess != nil {
		sess.SetTokens(pair.AccessToken, pair.RefreshToken)
	}
	writeJSONResponse(w, http.StatusOK, pair)
}
