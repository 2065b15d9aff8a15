// Package middleware provides HTTP middleware: session resolution and
// request logging.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/paperbroker/paperbroker/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// userIDKey is the context key for the authenticated user id.
	userIDKey contextKey = "user_id"
	// usernameKey is the context key for the authenticated username.
	usernameKey contextKey = "username"
)

// UserID extracts the authenticated user id from the context.
// The second return is false on an unauthenticated request.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// Username extracts the authenticated username from the context.
func Username(ctx context.Context) string {
	name, _ := ctx.Value(usernameKey).(string)
	return name
}

// RequireAuth validates the Bearer token on each request and binds the
// resolved identity to the request context. Requests without a valid
// token get 401; handlers behind this middleware can assume UserID is
// set.
func RequireAuth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				http.Error(w, auth.ErrMissingToken.Error(), http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, auth.ErrInvalidToken.Error(), http.StatusUnauthorized)
				return
			}

			claims, err := jwtManager.Validate(parts[1])
			if err != nil {
				http.Error(w, auth.ErrInvalidToken.Error(), http.StatusUnauthorized)
				return
			}
			userID, err := claims.UserID()
			if err != nil {
				http.Error(w, auth.ErrInvalidToken.Error(), http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			ctx = context.WithValue(ctx, usernameKey, claims.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
