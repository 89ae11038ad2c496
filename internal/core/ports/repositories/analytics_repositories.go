package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/invoice_management_app/internal/core/domain"
)

// AnalyticsRepository runs the aggregate queries behind the admin dashboard.
// A nil since means no lower bound.
type AnalyticsRepository interface {
	GetAnalytics(ctx context.Context, since *time.Time) (*domain.Analytics, error)
}
