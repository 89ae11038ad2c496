package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/invoice_management_app/internal/apperrors"
	"github.com/SscSPs/invoice_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoice_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/invoice_management_app/internal/core/ports/services"
	"github.com/SscSPs/invoice_management_app/internal/dto"
	"github.com/shopspring/decimal"
)

var maxTaxRate = decimal.NewFromInt(100)

type settingsService struct {
	BaseService
	settingsRepo portsrepo.SettingsRepository
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(settingsRepo portsrepo.SettingsRepository) portssvc.SettingsSvc {
	return &settingsService{BaseService: newBaseService(), settingsRepo: settingsRepo}
}

func (s *settingsService) GetSettings(ctx context.Context, caller domain.Identity) (*domain.Settings, error) {
	if err := s.Authorizer.RequireAdmin(caller); err != nil {
		return nil, err
	}
	return s.settingsRepo.GetOrCreateSettings(ctx, domain.DefaultSettings(s.Now()))
}

func (s *settingsService) UpdateSettings(ctx context.Context, caller domain.Identity, req dto.UpdateSettingsRequest) (*domain.Settings, error) {
	if err := s.Authorizer.RequireAdmin(caller); err != nil {
		return nil, err
	}
	current, err := s.settingsRepo.GetOrCreateSettings(ctx, domain.DefaultSettings(s.Now()))
	if err != nil {
		return nil, err
	}

	next := *current
	if req.TaxRate != nil {
		if req.TaxRate.IsNegative() || req.TaxRate.GreaterThan(maxTaxRate) {
			return nil, fmt.Errorf("%w: taxRate must be between 0 and 100", apperrors.ErrValidation)
		}
		next.TaxRate = *req.TaxRate
	}
	if req.InvoicePrefix != nil {
		prefix := strings.ToUpper(strings.TrimSpace(*req.InvoicePrefix))
		if prefix == "" {
			return nil, fmt.Errorf("%w: invoicePrefix is required", apperrors.ErrValidation)
		}
		next.InvoicePrefix = prefix
	}
	if req.FooterText != nil {
		next.FooterText = strings.TrimSpace(*req.FooterText)
	}
	next.UpdatedAt = s.Now()

	saved, err := s.settingsRepo.UpsertSettings(ctx, next)
	if err != nil {
		s.LogError(ctx, err, "Failed to save settings")
		return nil, err
	}
	s.LogInfo(ctx, "Settings updated")
	return saved, nil
}
