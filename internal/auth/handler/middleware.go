package handler

import (
	"net/http"
	"strings"

	"github.com/abhisheknirogi/Pharmacy-ai/internal/auth/jwt"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/errors"
	"github.com/abhisheknirogi/Pharmacy-ai/pkg/httputil"
)

// RequireAuth validates the bearer token and adds user context to the request.
// Protected routes mount this after the global middleware chain.
func RequireAuth(jwtManager *jwt.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httputil.Error(w, errors.Unauthorized("missing authorization header"))
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				httputil.Error(w, errors.Unauthorized("invalid authorization header format"))
				return
			}

			claims, err := jwtManager.ValidateAccessToken(parts[1])
			if err != nil {
				httputil.Error(w, err)
				return
			}

			ctx := httputil.WithUserContext(r.Context(), claims.UserID, claims.Email, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole restricts a route to users with one of the given roles.
// Mount after RequireAuth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := httputil.GetUserRole(r.Context())
			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}
			httputil.Error(w, errors.Forbidden("insufficient permissions"))
		})
	}
}
