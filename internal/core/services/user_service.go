package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/invoice_management_app/internal/apperrors"
	"github.com/SscSPs/invoice_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoice_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/invoice_management_app/internal/core/ports/services"
	"github.com/SscSPs/invoice_management_app/internal/dto"
	"github.com/SscSPs/invoice_management_app/internal/utils"
	"github.com/google/uuid"
)

const maxUserPageSize = 200

type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{BaseService: newBaseService(), userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) newUser(name, email string, role domain.Role, provider domain.AuthProvider) domain.User {
	now := s.Now()
	return domain.User{
		UserID:       uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        utils.NormalizeEmail(email),
		Role:         role,
		IsActive:     true,
		AuthProvider: provider,
		Timestamps:   domain.Timestamps{CreatedAt: now, UpdatedAt: now},
	}
}

func (s *userService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	if len(req.Password) < utils.MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrValidation, utils.MinPasswordLength)
	}
	user := s.newUser(req.Name, req.Email, domain.RoleUser, domain.ProviderLocal)
	if user.Name == "" || user.Email == "" {
		return nil, fmt.Errorf("%w: name and email are required", apperrors.ErrValidation)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewConflictError("A user with this email already exists")
		}
		s.LogError(ctx, err, "Failed to register user")
		return nil, err
	}
	s.LogInfo(ctx, "User registered", slog.String("user_id", user.UserID))
	return &user, nil
}

func (s *userService) GetUserByID(ctx context.Context, caller domain.Identity, userID string) (*domain.User, error) {
	if err := s.Authorizer.CanRead(caller, userID); err != nil {
		return nil, fmt.Errorf("%w: user %s", err, userID)
	}
	return s.userRepo.FindUserByID(ctx, userID)
}

func (s *userService) ListUsers(ctx context.Context, caller domain.Identity, limit, offset int) ([]domain.User, error) {
	if err := s.Authorizer.RequireAdmin(caller); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > maxUserPageSize {
		limit = maxUserPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.userRepo.FindUsers(ctx, limit, offset)
}

func (s *userService) ResolveIdentity(ctx context.Context, userID string) (domain.Identity, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.Identity{}, fmt.Errorf("%w: unknown user", apperrors.ErrUnauthorized)
		}
		return domain.Identity{}, err
	}
	if !user.IsActive {
		return domain.Identity{}, apperrors.ErrAccountDisabled
	}
	return domain.IdentityOf(user), nil
}

func (s *userService) UpdateUser(ctx context.Context, caller domain.Identity, userID string, req dto.UpdateUserRequest) (*domain.User, error) {
	if err := s.Authorizer.RequireSelfOrAdmin(caller, userID); err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && (req.Role != nil || req.IsActive != nil) {
		return nil, fmt.Errorf("%w: only administrators can change role or status", apperrors.ErrForbidden)
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if name := strings.TrimSpace(*req.Name); name != "" {
			user.Name = name
		}
	}
	if req.Email != nil {
		if email := utils.NormalizeEmail(*req.Email); email != "" {
			user.Email = email
		}
	}
	if req.Password != nil {
		if len(*req.Password) < utils.MinPasswordLength {
			return nil, fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrValidation, utils.MinPasswordLength)
		}
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	if req.Role != nil {
		if !req.Role.IsValid() {
			return nil, fmt.Errorf("%w: invalid role %q", apperrors.ErrValidation, *req.Role)
		}
		user.Role = *req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedAt = s.Now()

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewConflictError("A user with this email already exists")
		}
		s.LogError(ctx, err, "Failed to update user", slog.String("user_id", userID))
		return nil, err
	}
	return user, nil
}

func (s *userService) ToggleStatus(ctx context.Context, caller domain.Identity, userID string) (*domain.User, error) {
	if err := s.Authorizer.RequireAdmin(caller); err != nil {
		return nil, err
	}
	if caller.UserID == userID {
		return nil, fmt.Errorf("%w: cannot deactivate your own account", apperrors.ErrValidation)
	}
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.IsActive = !user.IsActive
	user.UpdatedAt = s.Now()
	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "User status toggled", slog.String("user_id", userID), slog.Bool("is_active", user.IsActive))
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, caller domain.Identity, userID string) error {
	if err := s.Authorizer.RequireAdmin(caller); err != nil {
		return err
	}
	if caller.UserID == userID {
		return fmt.Errorf("%w: cannot delete your own account", apperrors.ErrValidation)
	}
	if err := s.userRepo.DeleteUserCascade(ctx, userID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete user", slog.String("user_id", userID))
		}
		return err
	}
	s.LogInfo(ctx, "User deleted with owned records", slog.String("user_id", userID))
	return nil
}

func (s *userService) EnsureAdmin(ctx context.Context, name, email, password string) (*domain.User, error) {
	existing, err := s.userRepo.FindUserByEmail(ctx, utils.NormalizeEmail(email))
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if len(password) < utils.MinPasswordLength {
		return nil, fmt.Errorf("%w: admin password must be at least %d characters", apperrors.ErrValidation, utils.MinPasswordLength)
	}

	if strings.TrimSpace(name) == "" {
		name = "Administrator"
	}
	user := s.newUser(name, email, domain.RoleAdmin, domain.ProviderLocal)
	if user.PasswordHash, err = utils.HashPassword(password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Bootstrap admin created", slog.String("user_id", user.UserID))
	return &user, nil
}

func (s *userService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewUnauthorizedError("Invalid email or password")
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.NewUnauthorizedError("Invalid email or password")
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}
	return user, nil
}

func (s *userService) FindOrCreateGoogleUser(ctx context.Context, profile domain.GoogleProfile) (*domain.User, error) {
	email := utils.NormalizeEmail(profile.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: google profile has no email", apperrors.ErrUnauthorized)
	}
	// An unverified address could claim an existing local account.
	if !profile.EmailVerified {
		return nil, apperrors.NewUnauthorizedError("Google email address is not verified")
	}

	user, err := s.userRepo.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		if !user.IsActive {
			return nil, apperrors.ErrAccountDisabled
		}
		return user, nil
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, err
	}

	name := profile.Name
	if strings.TrimSpace(name) == "" {
		name = email
	}
	created := s.newUser(name, email, domain.RoleUser, domain.ProviderGoogle)
	if err := s.userRepo.SaveUser(ctx, created); err != nil {
		// Lost a race with a concurrent first sign-in.
		if errors.Is(err, apperrors.ErrDuplicate) {
			return s.userRepo.FindUserByEmail(ctx, email)
		}
		return nil, err
	}
	s.LogInfo(ctx, "User created from Google sign-in", slog.String("user_id", created.UserID))
	return &created, nil
}
