package services

import (
	"fmt"

	"github.com/SscSPs/invoice_management_app/internal/apperrors"
	"github.com/SscSPs/invoice_management_app/internal/core/domain"
)

// Authorizer is the single capability check applied before every operation.
//
// Non-admins only see and touch records they own. Admins read across owners,
// but their mutations stay scoped to their own records. Records hidden by the
// owner filter surface as not found rather than forbidden.
type Authorizer struct{}

// RequireIdentity fails with ErrUnauthorized when no caller was resolved.
func (Authorizer) RequireIdentity(caller domain.Identity) error {
	if caller.UserID == "" {
		return fmt.Errorf("%w: authentication required", apperrors.ErrUnauthorized)
	}
	return nil
}

// ReadScope returns the owner filter for reads: nil for admins.
func (a Authorizer) ReadScope(caller domain.Identity) (*string, error) {
	if err := a.RequireIdentity(caller); err != nil {
		return nil, err
	}
	if caller.IsAdmin() {
		return nil, nil
	}
	owner := caller.UserID
	return &owner, nil
}

// WriteScope returns the owner every mutation is restricted to.
func (a Authorizer) WriteScope(caller domain.Identity) (string, error) {
	if err := a.RequireIdentity(caller); err != nil {
		return "", err
	}
	return caller.UserID, nil
}

// CanRead reports whether caller may see a record owned by ownerID.
func (a Authorizer) CanRead(caller domain.Identity, ownerID string) error {
	if err := a.RequireIdentity(caller); err != nil {
		return err
	}
	if caller.IsAdmin() || caller.UserID == ownerID {
		return nil
	}
	return apperrors.ErrNotFound
}

// RequireAdmin fails with ErrForbidden unless the caller is an admin.
func (a Authorizer) RequireAdmin(caller domain.Identity) error {
	if err := a.RequireIdentity(caller); err != nil {
		return err
	}
	if !caller.IsAdmin() {
		return fmt.Errorf("%w: administrator role required", apperrors.ErrForbidden)
	}
	return nil
}

// RequireSelfOrAdmin lets a caller act on their own user record, or any when admin.
func (a Authorizer) RequireSelfOrAdmin(caller domain.Identity, userID string) error {
	if err := a.RequireIdentity(caller); err != nil {
		return err
	}
	if caller.IsAdmin() || caller.UserID == userID {
		return nil
	}
	return fmt.Errorf("%w: cannot act on another user", apperrors.ErrForbidden)
}
