package services

import (
	"context"
	"time"

	"github.com/SscSPs/invoice_management_app/internal/core/domain"
)

// TokenSvcFacade issues and verifies bearer tokens.
type TokenSvcFacade interface {
	// GenerateAccessToken signs a token whose subject is the user's id.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// ParseAccessToken verifies a token and returns its subject.
	ParseAccessToken(ctx context.Context, token string) (string, error)
}

// GoogleOAuthSvcFacade defines the interface for Google OAuth operations.
type GoogleOAuthSvcFacade interface {
	// GenerateStateString creates a secure random string to be used as a CSRF token for OAuth flow.
	GenerateStateString(ctx context.Context) (string, error)

	// GetGoogleLoginURL returns the URL to redirect the user to for Google login.
	GetGoogleLoginURL(ctx context.Context, state string) string

	// ExchangeCode trades an authorization code for a verified Google profile.
	ExchangeCode(ctx context.Context, code string) (*domain.GoogleProfile, error)
}
