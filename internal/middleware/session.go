package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"zshop-storefront-api/internal/client"
)

const (
	HeaderRefreshToken   = "X-Refresh-Token"
	HeaderAccessToken    = "X-Access-Token"
	HeaderSessionCleared = "X-Session-Cleared"
)

// SessionMiddleware puts the shopper's tokens on the request context. When
// the client refreshes or drops them during the request, the new state is
// reported back in response headers.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := client.NewSession(bearerToken(r), r.Header.Get(HeaderRefreshToken))

		sw := &sessionWriter{ResponseWriter: w, session: sess}
		next.ServeHTTP(sw, r.WithContext(client.WithSession(r.Context(), sess)))

		// Nothing written yet; flush headers through an empty 200.
		if !sw.wroteHeader {
			sw.WriteHeader(http.StatusOK)
		}
	})
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

// sessionWriter adds the session headers right before the status line goes out.
type sessionWriter struct {
	http.ResponseWriter
	session     *client.Session
	wroteHeader bool
}

func (w *sessionWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true

	h := w.Header()
	switch {
	case w.session.Cleared():
		h.Set(HeaderSessionCleared, "true")
		slog.Debug("Session cleared during request")
	case w.session.Refreshed():
		h.Set(HeaderAccessToken, w.session.AccessToken())
		h.Set(HeaderRefreshToken, w.session.RefreshToken())
		slog.Debug("Session refreshed during request", "user_id", w.session.UserID())
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *sessionWriter) Write(data []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(data)
}
