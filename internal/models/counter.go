package models

import "time"

// InvoiceCounter is a row of the invoice_counters table.
type InvoiceCounter struct {
	Scope      string    `db:"scope"`
	LastNumber int64     `db:"last_number"`
	UpdatedAt  time.Time `db:"updated_at"`
}
