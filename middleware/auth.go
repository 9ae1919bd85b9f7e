package middleware

import (
	"context"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/AnuragSingh014/castle-backend/utils"
)

// Context keys set by the auth middlewares.
const (
	CtxUserID   = "userID"
	CtxUserName = "userName"
	CtxUserRole = "userRole"
)

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(authHeader, "Bearer "), true
}

// AuthMiddleware validates the Bearer JWT and sets the caller's identity
// on the request context. WebSocket upgrades authenticate in the handler
// instead (browsers cannot send headers on the upgrade request).
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Upgrade") == "websocket" {
			next.ServeHTTP(w, r)
			return
		}

		tokenString, ok := bearerToken(r)
		if !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
			return
		}

		claims, err := utils.ValidateJWT(tokenString)
		if err != nil {
			log.WithError(err).Debug("auth: JWT validation failed")
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), CtxUserID, claims.UserID)
		ctx = context.WithValue(ctx, CtxUserName, claims.Name)
		ctx = context.WithValue(ctx, CtxUserRole, claims.Role)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole wraps AuthMiddleware-style validation with a role check.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r)
			if !ok {
				utils.RespondWithError(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
				return
			}

			claims, err := utils.ValidateJWT(tokenString)
			if err != nil {
				utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			if claims.Role != role {
				utils.RespondWithError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}

			ctx := context.WithValue(r.Context(), CtxUserID, claims.UserID)
			ctx = context.WithValue(ctx, CtxUserName, claims.Name)
			ctx = context.WithValue(ctx, CtxUserRole, claims.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminAuthMiddleware admits only tokens issued to admin accounts.
func AdminAuthMiddleware(next http.Handler) http.Handler {
	return RequireRole(utils.RoleAdmin)(next)
}

// InvestorAuthMiddleware admits only tokens issued to investor accounts.
func InvestorAuthMiddleware(next http.Handler) http.Handler {
	return RequireRole(utils.RoleInvestor)(next)
}
