package client

import (
	"context"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// Session is the shopper's identity for one request. The app keeps the
// tokens; the server only sees them on the way through.
type Session struct {
	mu           sync.Mutex
	accessToken  string
	refreshToken string
	userID       string
	expiresAt    time.Time
	refreshed    bool
	cleared      bool
}

// NewSession builds a session from the tokens sent by the app. Both may be empty.
func NewSession(accessToken, refreshToken string) *Session {
	s := &Session{refreshToken: refreshToken}
	s.setAccessToken(accessToken)
	return s
}

func (s *Session) setAccessToken(token string) {
	s.accessToken = token
	s.userID = ""
	s.expiresAt = time.Time{}
	if token == "" {
		return
	}

	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return
	}
	for _, key := range []string{"id", "userId", "sub"} {
		if id, ok := claims[key].(string); ok && id != "" {
			s.userID = id
			break
		}
	}
	if exp, ok := claims["exp"].(float64); ok {
		s.expiresAt = time.Unix(int64(exp), 0)
	}
}

// Authenticated reports whether the session holds an access token.
func (s *Session) Authenticated() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken != ""
}

func (s *Session) AccessToken() string {
	if s == nil {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

func (s *Session) RefreshToken() string {
	if s == nil {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshToken
}

// UserID is the id found in the access token's claims, if any.
func (s *Session) UserID() string {
	if s == nil {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// Expired reports whether the access token carries an exp claim in the past.
func (s *Session) Expired(now time.Time) bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.expiresAt.IsZero() && !now.Before(s.expiresAt)
}

// SetTokens replaces the tokens after a login or refresh.
func (s *Session) SetTokens(accessToken, refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setAccessToken(accessToken)
	if refreshToken != "" {
		s.refreshToken = refreshToken
	}
	s.refreshed = true
	s.cleared = false
}

// Logout drops both tokens. The app is told to forget them as well.
func (s *Session) Logout() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = ""
	s.refreshToken = ""
	s.userID = ""
	s.expiresAt = time.Time{}
	s.refreshed = false
	s.cleared = true
}

// Refreshed reports whether the tokens changed during the request.
func (s *Session) Refreshed() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshed
}

// Cleared reports whether the session was logged out during the request.
func (s *Session) Cleared() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cleared
}

type sessionKey struct{}

// WithSession attaches s to ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session attached to ctx, or nil for a guest.
func SessionFrom(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}
