package api

import (
	"net/http"
	"strings"

	"github.com/templatehub/marketplace/internal/auth"
	"github.com/templatehub/marketplace/internal/middleware"
)

// RequireAdmin wraps a handler and rejects requests without a valid admin
// bearer token. The token subject is stored on the request context for the
// logging middleware.
func RequireAdmin(jwtService *auth.JWTService, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			WriteError(w, r.Context(), http.StatusUnauthorized, ErrCodeAuthFailed, "missing authorization header")
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			WriteError(w, r.Context(), http.StatusUnauthorized, ErrCodeAuthFailed, "authorization header must use Bearer scheme")
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			WriteError(w, r.Context(), http.StatusUnauthorized, ErrCodeAuthFailed, "invalid or expired token")
			return
		}
		if !claims.IsAdmin() {
			WriteError(w, r.Context(), http.StatusForbidden, ErrCodeForbidden, "admin role required")
			return
		}

		ctx := middleware.SetAdminSubject(r.Context(), claims.Subject)
		next(w, r.WithContext(ctx))
	}
}
