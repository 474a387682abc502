package middleware

import (
	"context"
	"net/http"
	"strings"

	"daily-checkin-backend/internal/services"
)

type contextKey string

const identityKey contextKey = "identity"

// AuthMiddleware creates a middleware that authenticates requests with a
// bearer token issued by the identity provider
func AuthMiddleware(authService *services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondError(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondError(w, "Invalid authorization header format", http.StatusUnauthorized)
				return
			}

			identity, err := authService.ValidateJWT(parts[1])
			if err != nil {
				respondError(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity extracts the authenticated identity from the context
func GetIdentity(ctx context.Context) *services.Identity {
	identity, ok := ctx.Value(identityKey).(*services.Identity)
	if !ok {
		return nil
	}
	return identity
}

// GetUserID extracts the authenticated user id from the context
func GetUserID(ctx context.Context) string {
	if identity := GetIdentity(ctx); identity != nil {
		return identity.UserID
	}
	return ""
}

// WithIdentity returns a context carrying the given identity. Used by the
// WebSocket handler, which authenticates outside this middleware.
func WithIdentity(ctx context.Context, identity *services.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
