package repositories

import (
	"context"

	"github.com/SscSPs/invoice_management_app/internal/core/domain"
)

// SettingsRepository persists the singleton settings row.
type SettingsRepository interface {
	// GetOrCreateSettings returns the settings, inserting defaults when none exist.
	GetOrCreateSettings(ctx context.Context, defaults domain.Settings) (*domain.Settings, error)

	// UpsertSettings writes the settings row and returns the stored state.
	UpsertSettings(ctx context.Context, settings domain.Settings) (*domain.Settings, error)
}
