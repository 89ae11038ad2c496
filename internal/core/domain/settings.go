package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings holds the global, admin-managed configuration of the back office.
// There is exactly one row.
type Settings struct {
	TaxRate       decimal.Decimal `json:"taxRate"`
	InvoicePrefix string          `json:"invoicePrefix"`
	FooterText    string          `json:"footerText"`
	Timestamps
}

// DefaultSettings returns the values used when no settings have been saved yet.
func DefaultSettings(now time.Time) Settings {
	return Settings{
		TaxRate:       decimal.NewFromInt(20),
		InvoicePrefix: "FAC",
		FooterText:    "",
		Timestamps:    Timestamps{CreatedAt: now, UpdatedAt: now},
	}
}
