package services

import (
	"context"

	"github.com/SscSPs/invoice_management_app/internal/core/domain"
	"github.com/SscSPs/invoice_management_app/internal/dto"
)

// SettingsSvc reads and edits the global settings. Admin only.
type SettingsSvc interface {
	GetSettings(ctx context.Context, caller domain.Identity) (*domain.Settings, error)
	UpdateSettings(ctx context.Context, caller domain.Identity, req dto.UpdateSettingsRequest) (*domain.Settings, error)
}

// AnalyticsSvc computes the admin dashboard figures.
type AnalyticsSvc interface {
	GetAnalytics(ctx context.Context, caller domain.Identity, period domain.AnalyticsPeriod) (*domain.Analytics, error)
}
