package auth

import (
	"context"
	"net/http"
	"strings"

	"skillquest-server/internal/apperrors"
	"skillquest-server/internal/httpx"
)

type contextKey string

const userIDKey contextKey = "user_id"

// UserID returns the authenticated caller set by JWTMiddleware.
func UserID(r *http.Request) (uint, bool) {
	id, ok := r.Context().Value(userIDKey).(uint)
	return id, ok
}

// JWTMiddleware authenticates bearer access tokens. CORS preflights carry no
// credentials and must succeed regardless of token state, so OPTIONS
// short-circuits before any token check.
func JWTMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httpx.Error(w, apperrors.Unauthorized("authorization header required"))
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				httpx.Error(w, apperrors.Unauthorized("invalid token format"))
				return
			}

			userID, err := ParseAccessToken(parts[1], jwtSecret)
			if err != nil {
				httpx.Error(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithUserID is a test hook for exercising handlers without a full token.
func WithUserID(r *http.Request, id uint) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userIDKey, id))
}
