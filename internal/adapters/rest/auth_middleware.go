package rest

import (
	"context"
	"net/http"
	"strings"

	"github.com/Robb753/farm-to-fork-sub000/internal/contextkeys"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"
)

type claimsKeyType struct{}

var claimsKey = claimsKeyType{}

// ClaimsFromContext возвращает пользователя, добавленного Authenticate
func ClaimsFromContext(ctx context.Context) (*port.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*port.Claims)
	return claims, ok && claims != nil
}

type AuthMiddleware struct {
	verifier port.TokenVerifierPort
}

func NewAuthMiddleware(verifier port.TokenVerifierPort) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// Authenticate - middleware для проверки JWT
func (am *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			WriteJSONError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || tokenString == "" {
			WriteJSONError(w, http.StatusUnauthorized, "Invalid token format")
			return
		}

		claims, err := am.verifier.Verify(r.Context(), tokenString)
		if err != nil {
			WriteJSONError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"user_id": claims.UserID})
		ctx = contextkeys.ContextWithLogger(ctx, logger)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole - middleware для проверки роли пользователя
func (am *AuthMiddleware) RequireRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if claims.Role != requiredRole {
				WriteJSONError(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
