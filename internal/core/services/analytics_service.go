package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/invoice_management_app/internal/apperrors"
	"github.com/SscSPs/invoice_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoice_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/invoice_management_app/internal/core/ports/services"
)

type analyticsService struct {
	BaseService
	analyticsRepo portsrepo.AnalyticsRepository
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(analyticsRepo portsrepo.AnalyticsRepository) portssvc.AnalyticsSvc {
	return &analyticsService{BaseService: newBaseService(), analyticsRepo: analyticsRepo}
}

func (s *analyticsService) GetAnalytics(ctx context.Context, caller domain.Identity, period domain.AnalyticsPeriod) (*domain.Analytics, error) {
	if err := s.Authorizer.RequireAdmin(caller); err != nil {
		return nil, err
	}
	if period == "" {
		period = domain.PeriodMonth
	}
	if !period.IsValid() {
		return nil, fmt.Errorf("%w: unknown period %q", apperrors.ErrValidation, period)
	}

	analytics, err := s.analyticsRepo.GetAnalytics(ctx, period.Since(s.Now()))
	if err != nil {
		s.LogError(ctx, err, "Failed to compute analytics", slog.String("period", string(period)))
		return nil, err
	}
	return analytics, nil
}
