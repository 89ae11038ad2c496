package mapping

import (
	"github.com/SscSPs/invoice_management_app/internal/core/domain"
	"github.com/SscSPs/invoice_management_app/internal/models"
)

func ToModelSettings(d domain.Settings) models.Settings {
	return models.Settings{
		TaxRate:       d.TaxRate,
		InvoicePrefix: d.InvoicePrefix,
		FooterText:    d.FooterText,
		Timestamps:    ToModelTimestamps(d.Timestamps),
	}
}

func ToDomainSettings(m models.Settings) domain.Settings {
	return domain.Settings{
		TaxRate:       m.TaxRate,
		InvoicePrefix: m.InvoicePrefix,
		FooterText:    m.FooterText,
		Timestamps:    ToDomainTimestamps(m.Timestamps),
	}
}
