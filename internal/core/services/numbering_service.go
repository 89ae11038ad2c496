package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/invoice_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoice_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/invoice_management_app/internal/core/ports/services"
	"github.com/jackc/pgx/v5"
)

// numberingService allocates invoice numbers from the invoice_counters rows.
type numberingService struct {
	BaseService
	counters portsrepo.CounterRepository
	format   domain.NumberFormat
}

// NewNumberingService creates a numbering service rendering numbers with format.
func NewNumberingService(counters portsrepo.CounterRepository, format domain.NumberFormat) portssvc.NumberingSvc {
	if format.PerOwner && !strings.Contains(format.Template, "{userId}") {
		slog.Warn("Per-owner invoice counters without {userId} in the template will collide across owners",
			slog.String("template", format.Template))
	}
	return &numberingService{
		BaseService: newBaseService(),
		counters:    counters,
		format:      format,
	}
}

var _ portssvc.NumberingSvc = (*numberingService)(nil)

func (s *numberingService) AllocateNumber(ctx context.Context, tx pgx.Tx, ownerID string, at time.Time) (string, int64, error) {
	at = at.UTC()
	scope := s.format.Scope(ownerID, at)

	n, err := s.counters.IncrementInTx(ctx, tx, scope)
	if err != nil {
		s.LogError(ctx, err, "Failed to increment invoice counter", slog.String("scope", scope))
		return "", 0, fmt.Errorf("failed to allocate invoice number: %w", err)
	}

	number := s.format.Format(n, at.Year(), ownerID)
	s.LogDebug(ctx, "Allocated invoice number", slog.String("scope", scope), slog.String("invoice_number", number))
	return number, n, nil
}

func (s *numberingService) SkipNumber(ctx context.Context, ownerID string, at time.Time, taken int64) error {
	scope := s.format.Scope(ownerID, at.UTC())
	if err := s.counters.AdvancePast(ctx, scope, taken); err != nil {
		s.LogError(ctx, err, "Failed to skip used invoice number", slog.String("scope", scope), slog.Int64("number", taken))
		return fmt.Errorf("failed to skip invoice number: %w", err)
	}
	s.GetLogger(ctx).Warn("Skipped invoice number already in use", slog.String("scope", scope), slog.Int64("number", taken))
	return nil
}

func (s *numberingService) PeekNextNumber(ctx context.Context, ownerID string, at time.Time) (string, error) {
	at = at.UTC()
	counter, err := s.counters.FindCounter(ctx, s.format.Scope(ownerID, at))
	if err != nil {
		return "", fmt.Errorf("failed to read invoice counter: %w", err)
	}
	return s.format.Format(counter.LastNumber+1, at.Year(), ownerID), nil
}
