package services

import (
	"context"

	"github.com/SscSPs/invoice_management_app/internal/core/domain"
	"github.com/SscSPs/invoice_management_app/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a user. Callers other than the user and admins get ErrNotFound.
	GetUserByID(ctx context.Context, caller domain.Identity, userID string) (*domain.User, error)

	// ListUsers retrieves a paginated list of users. Admin only.
	ListUsers(ctx context.Context, caller domain.Identity, limit, offset int) ([]domain.User, error)

	// ResolveIdentity maps a token subject onto a live identity. Unknown users
	// yield ErrUnauthorized, deactivated ones ErrAccountDisabled.
	ResolveIdentity(ctx context.Context, userID string) (domain.Identity, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// Register creates a local account with the user role.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)

	// UpdateUser updates a user. Only admins may change role or active flag.
	UpdateUser(ctx context.Context, caller domain.Identity, userID string, req dto.UpdateUserRequest) (*domain.User, error)

	// ToggleStatus flips the active flag of a user. Admin only.
	ToggleStatus(ctx context.Context, caller domain.Identity, userID string) (*domain.User, error)

	// EnsureAdmin creates an admin account for email unless a user with that email exists.
	EnsureAdmin(ctx context.Context, name, email, password string) (*domain.User, error)
}

// UserLifecycleSvc defines operations for managing user lifecycle
type UserLifecycleSvc interface {
	// DeleteUser removes a user with everything they own. Admin only.
	DeleteUser(ctx context.Context, caller domain.Identity, userID string) error
}

// UserAuthSvc defines operations for user authentication
type UserAuthSvc interface {
	// AuthenticateUser authenticates a user with email and password.
	AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error)

	// FindOrCreateGoogleUser returns the user owning the Google profile's email,
	// creating one on first sign-in.
	FindOrCreateGoogleUser(ctx context.Context, profile domain.GoogleProfile) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserLifecycleSvc
	UserAuthSvc
}
