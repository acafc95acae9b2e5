// Package middleware holds the HTTP middleware mounted by the router.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/struffoli/facecard/handlers"
	"github.com/struffoli/facecard/pkg"
	"github.com/struffoli/facecard/repository"
	"github.com/struffoli/facecard/services"
)

type AuthMiddleware struct {
	authService services.AuthService
	userRepo    repository.UserRepository
}

func NewAuthMiddleware(authService services.AuthService, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		userRepo:    userRepo,
	}
}

// Require authenticates the request and stores the current user under
// handlers.UserContextKey. The token comes from the session cookie, or
// from an "Authorization: Bearer" header for non-browser clients.
func (m *AuthMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := tokenFromRequest(r)
		if tokenString == "" {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "not authorized, no token")
			return
		}

		claims, err := m.authService.ValidateToken(tokenString)
		if err != nil {
			pkg.Error(w, err)
			return
		}

		// Loaded fresh on every request so friend lists and profile
		// changes apply immediately.
		user, err := m.userRepo.GetByID(r.Context(), claims.UserID)
		if err != nil {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "not authorized, user not found")
			return
		}

		ctx := context.WithValue(r.Context(), handlers.UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(handlers.SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}

	authHeader := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
