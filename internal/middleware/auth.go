package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/invoice_management_app/internal/apperrors"
	"github.com/SscSPs/invoice_management_app/internal/core/domain"
	"github.com/SscSPs/invoice_management_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// TokenParser verifies a bearer token and returns its subject.
type TokenParser interface {
	ParseAccessToken(ctx context.Context, token string) (string, error)
}

// IdentityResolver maps a token subject onto a live identity.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, userID string) (domain.Identity, error)
}

// AuthMiddleware creates a Gin middleware handler that authenticates bearer tokens.
// Missing, malformed, expired or unknown-subject tokens get 401; a deactivated
// account gets 403.
func AuthMiddleware(tokens TokenParser, users IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Fail("Authorization header required"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Fail("Authorization header format must be Bearer {token}"))
			return
		}

		userID, err := tokens.ParseAccessToken(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			logger.Warn("Invalid token", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Fail("Invalid or expired token"))
			return
		}

		identity, err := users.ResolveIdentity(c.Request.Context(), userID)
		if err != nil {
			switch apperrors.StatusCode(err) {
			case http.StatusForbidden:
				logger.Warn("Disabled account attempted access", slog.String("user_id", userID))
				c.AbortWithStatusJSON(http.StatusForbidden, dto.Fail("Account is disabled"))
			case http.StatusUnauthorized, http.StatusNotFound:
				logger.Warn("Token subject does not match a user", slog.String("user_id", userID))
				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Fail("Invalid token"))
			default:
				logger.Error("Failed to resolve token subject", slog.String("error", err.Error()))
				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.Fail("Internal server error"))
			}
			return
		}

		ctx := WithIdentity(c.Request.Context(), identity)
		ctx = WithLogger(ctx, logger.With(slog.String("user_id", identity.UserID)))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRole aborts with 403 unless the authenticated caller has role.
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentityFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Fail("Authentication required"))
			return
		}
		if identity.Role != role {
			GetLoggerFromContext(c).Warn("Role check failed", slog.String("required_role", string(role)))
			c.AbortWithStatusJSON(http.StatusForbidden, dto.Fail("Access denied"))
			return
		}
		c.Next()
	}
}
