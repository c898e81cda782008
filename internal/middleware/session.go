package middleware

import (
	"context"
	"net/http"

	"cloudvault/internal/token"
)

// Cookie names shared with the handlers that set and clear them.
const (
	AccessCookieName  = "access_token"
	RefreshCookieName = "refresh_token"
)

// Session identifies the authenticated caller for the current request.
type Session struct {
	UserID string
	Email  string
}

type sessionContextKey struct{}

var sessionKey = sessionContextKey{}

// Authenticate verifies the access token cookie and stores the resulting
// Session in the request context. Requests without a valid cookie get 401
// before the handler runs.
func Authenticate(tokens *token.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(AccessCookieName)
			if err != nil || cookie.Value == "" {
				unauthorized(w)
				return
			}
			claims, err := tokens.VerifyAccess(cookie.Value)
			if err != nil {
				unauthorized(w)
				return
			}
			session := Session{UserID: claims.UserID, Email: claims.Email}
			ctx := context.WithValue(r.Context(), sessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"not authenticated"}`))
}

// SessionFromContext returns the authenticated session, if any.
func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey).(Session)
	return s, ok
}

// ContextWithSession stores a session in the context.
func ContextWithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}
