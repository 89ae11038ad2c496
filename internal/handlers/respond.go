package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/invoice_management_app/internal/apperrors"
	"github.com/SscSPs/invoice_management_app/internal/core/domain"
	"github.com/SscSPs/invoice_management_app/internal/dto"
	"github.com/SscSPs/invoice_management_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

const (
	confirmationFailedMessage = "The invoice was saved but could not be loaded back. Fetch it again instead of re-submitting."
	duplicateMessage          = "A record with the same unique value already exists"
)

// caller returns the authenticated identity, or the zero identity which every
// service rejects as unauthenticated.
func caller(c *gin.Context) domain.Identity {
	identity, _ := middleware.GetIdentityFromContext(c)
	return identity
}

// respondError maps a service error onto the status and envelope the API
// answers with. Internal failures are logged and replaced by fallback.
func respondError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := apperrors.StatusCode(err)

	message := err.Error()
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		message = appErr.Message
	}

	switch {
	case errors.Is(err, apperrors.ErrConfirmationFailed):
		logger.Error("Write confirmed by commit but read-back failed", slog.String("error", err.Error()))
		message = confirmationFailedMessage
	case errors.Is(err, apperrors.ErrAccountDisabled):
		message = "Account is disabled"
	case errors.Is(err, apperrors.ErrDuplicate) && appErr == nil:
		logger.Warn("Request rejected", slog.Int("status", status), slog.String("error", err.Error()))
		message = duplicateMessage
	case status >= http.StatusInternalServerError:
		logger.Error(fallback, slog.String("error", err.Error()))
		if appErr == nil {
			message = fallback
		}
	default:
		logger.Warn("Request rejected", slog.Int("status", status), slog.String("error", err.Error()))
	}

	c.JSON(status, dto.Fail(message))
}

// respondBindError answers a request whose body or query failed to bind.
func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.Fail("Invalid request: "+err.Error()))
}
