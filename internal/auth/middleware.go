package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const (
	identityKey contextKey = "identity"
	adminKey    contextKey = "admin"
)

// IdentityFromContext retrieves the authenticated identity from the request
// context. Returns an empty string if no identity is set.
func IdentityFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(identityKey).(string); ok {
		return id
	}
	return ""
}

// IsAdminFromContext reports whether the authenticated identity carries the
// admin claim.
func IsAdminFromContext(ctx context.Context) bool {
	if admin, ok := ctx.Value(adminKey).(bool); ok {
		return admin
	}
	return false
}

// JWTAuth returns an HTTP middleware that validates JWT Bearer tokens.
// It extracts the JWT from the Authorization header, validates it, and
// injects the identity and admin claims into the request context.
func JWTAuth(jwtService *JWTService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, `{"error":"authorization header required"}`, http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				http.Error(w, `{"error":"invalid authorization format, expected Bearer <token>"}`, http.StatusUnauthorized)
				return
			}

			tokenStr := parts[1]
			if tokenStr == "" {
				http.Error(w, `{"error":"empty token"}`, http.StatusUnauthorized)
				return
			}

			claims, err := jwtService.Validate(tokenStr)
			if err != nil {
				http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, identityKey, claims.Subject)
			ctx = context.WithValue(ctx, adminKey, claims.Admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin returns an HTTP middleware that rejects requests whose token
// lacks the admin claim. It must run after JWTAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdminFromContext(r.Context()) {
			http.Error(w, `{"error":"admin privileges required"}`, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
