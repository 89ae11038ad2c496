package dto

import (
	"time"

	"github.com/SscSPs/invoice_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UpdateSettingsRequest defines the editable settings. Omitted fields keep their value.
type UpdateSettingsRequest struct {
	TaxRate       *decimal.Decimal `json:"taxRate"`
	InvoicePrefix *string          `json:"invoicePrefix"`
	FooterText    *string          `json:"footerText"`
}

type SettingsResponse struct {
	TaxRate       decimal.Decimal `json:"taxRate"`
	InvoicePrefix string          `json:"invoicePrefix"`
	FooterText    string          `json:"footerText"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func ToSettingsResponse(s *domain.Settings) SettingsResponse {
	return SettingsResponse{
		TaxRate:       s.TaxRate,
		InvoicePrefix: s.InvoicePrefix,
		FooterText:    s.FooterText,
		UpdatedAt:     s.UpdatedAt,
	}
}
