package models

import "github.com/shopspring/decimal"

// Settings is the single row of the settings table.
type Settings struct {
	TaxRate       decimal.Decimal `db:"tax_rate"`
	InvoicePrefix string          `db:"invoice_prefix"`
	FooterText    string          `db:"footer_text"`
	Timestamps
}
