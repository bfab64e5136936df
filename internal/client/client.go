package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultTimeout = 30 * time.Second
	guestHeader    = "x-user-id"
)

// Config holds the shop API settings.
type Config struct {
	BaseURL     string
	ShopID      string
	AppID       string
	GuestUserID string
	CODPath     string
	Timeout     time.Duration
}

// ShopClient talks to the upstream shop API on behalf of one shopper at a
// time, identified by the Session in the request context.
type ShopClient struct {
	baseURL    string
	shopID     string
	appID      string
	guestID    string
	codPath    string
	httpClient *http.Client
	now        func() time.Time
}

// New creates a new shop client
func New(cfg Config) *ShopClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	codPath := cfg.CODPath
	if codPath == "" {
		codPath = "/payment/cod-order"
	}
	return &ShopClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		shopID:  cfg.ShopID,
		appID:   cfg.AppID,
		guestID: cfg.GuestUserID,
		codPath: codPath,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		now: time.Now,
	}
}

// ShopID returns the shop every catalog call is scoped to.
func (c *ShopClient) ShopID() string {
	return c.shopID
}

// EffectiveUserID is the logged-in user's id, else the guest id.
func (c *ShopClient) EffectiveUserID(ctx context.Context) string {
	if id := SessionFrom(ctx).UserID(); id != "" {
		return id
	}
	return c.guestID
}

// access says how a call identifies the shopper.
type access int

const (
	// public calls send no identity and never refresh.
	public access = iota
	// private calls send the bearer token, or the guest id without one.
	private
)

type call struct {
	method string
	path   string
	query  url.Values
	body   any
	access access
	withID bool
}

type validator interface {
	Validate() error
}

// do runs c against the shop API and decodes the answer into out.
func (c *ShopClient) do(ctx context.Context, r call, out any) error {
	var payload []byte
	if r.body != nil {
		var err error
		payload, err = json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	sess := SessionFrom(ctx)
	if r.access == private && sess.Expired(c.now()) && sess.RefreshToken() != "" {
		if err := c.refreshSession(ctx, sess); err != nil {
			slog.Warn("Proactive token refresh failed, continuing as guest", "path", r.path, "error", err)
			sess.Logout()
		}
	}

	status, body, err := c.send(ctx, r, payload)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && r.access == private {
		if sess.RefreshToken() == "" {
			sess.Logout()
			return fmt.Errorf("%s %s: %w", r.method, r.path, ErrAuthenticationFailed)
		}
		if err := c.refreshSession(ctx, sess); err != nil {
			slog.Warn("Token refresh failed, logging out", "path", r.path, "error", err)
			sess.Logout()
			return fmt.Errorf("%s %s: %w", r.method, r.path, ErrAuthenticationFailed)
		}
		status, body, err = c.send(ctx, r, payload)
		if err != nil {
			return err
		}
	}

	if status < 200 || status >= 300 {
		return newAPIError(r, status, body)
	}
	return decode(r, body, out)
}

func (c *ShopClient) send(ctx context.Context, r call, payload []byte) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.url(ctx, r), reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	if r.access == private {
		if token := SessionFrom(ctx).AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		} else if c.guestID != "" {
			req.Header.Set(guestHeader, c.guestID)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}

	slog.Debug("Upstream call",
		"method", r.method,
		"path", r.path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	return resp.StatusCode, body, nil
}

func (c *ShopClient) url(ctx context.Context, r call) string {
	query := url.Values{}
	for k, v := range r.query {
		query[k] = v
	}
	if r.withID {
		query.Set("userId", c.EffectiveUserID(ctx))
	}
	u := c.baseURL + r.path
	if encoded := query.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

func newAPIError(r call, status int, body []byte) error {
	apiErr := &APIError{StatusCode: status, Method: r.method, Path: r.path}
	var msg struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &msg) == nil {
		apiErr.Message = msg.Message
		if apiErr.Message == "" {
			apiErr.Message = msg.Error
		}
	}
	return apiErr
}

func decode(r call, body []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrMalformedResponse, r.method, r.path, err)
	}
	if v, ok := out.(validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("%w: %s %s: %w", ErrMalformedResponse, r.method, r.path, err)
		}
	}
	return nil
}

// refreshSession swaps the session's tokens for fresh ones.
func (c *ShopClient) refreshSession(ctx context.Context, sess *Session) error {
	if sess == nil {
		return ErrNoRefreshToken
	}
	pair, err := c.Refresh(ctx, sess.RefreshToken())
	if err != nil {
		return err
	}
	sess.SetTokens(pair.AccessToken, pair.RefreshToken)
	slog.Debug("Session refreshed", "user_id", sess.UserID())
	return nil
}

// Ping checks that the shop API answers at all.
func (c *ShopClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return errors.New("upstream unhealthy: " + resp.Status)
	}
	return nil
}
