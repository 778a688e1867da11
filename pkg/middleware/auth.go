package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/finanzasapp/ledger/pkg/sessions"
)

type contextKey string

const userIDKey contextKey = "user_id"

// TokenFromRequest extracts the bearer token from the Authorization header.
// Returns an empty string when no token is present.
func TokenFromRequest(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return ""
	}
	return token
}

// RequireSession rejects requests that do not carry a valid session token and
// stores the resolved user id in the request context.
func RequireSession(manager *sessions.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				http.Error(w, "Missing session token", http.StatusUnauthorized)
				return
			}

			userID, ok := manager.Resolve(token)
			if !ok {
				http.Error(w, "Invalid or expired session", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}

// UserIDFromContext returns the user id stored by RequireSession.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}
