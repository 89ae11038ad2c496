package dto

import "github.com/SscSPs/invoice_management_app/internal/core/domain"

// AnalyticsParams selects the reporting window.
type AnalyticsParams struct {
	Period domain.AnalyticsPeriod `form:"period,default=month" binding:"omitempty,oneof=day week month quarter year all"`
}
