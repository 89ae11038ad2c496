package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is the JSONB shape of one entry of invoices.items.
type LineItem struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Total       decimal.Decimal `json:"total"`
}

// Invoice is a row of the invoices table.
type Invoice struct {
	InvoiceID     string          `db:"invoice_id"`
	InvoiceNumber string          `db:"invoice_number"`
	OwnerID       string          `db:"owner_id"`
	ClientID      *string         `db:"client_id"`
	Items         []LineItem      `db:"items"`
	Subtotal      decimal.Decimal `db:"subtotal"`
	TaxRate       decimal.Decimal `db:"tax_rate"`
	TaxAmount     decimal.Decimal `db:"tax_amount"`
	Total         decimal.Decimal `db:"total"`
	IssueDate     time.Time       `db:"issue_date"`
	DueDate       *time.Time      `db:"due_date"`
	Notes         *string         `db:"notes"`
	Status        string          `db:"status"`
	Timestamps
}

// InvoiceWithClient is an invoice row left joined with its client.
// The client columns are NULL when the client was deleted.
type InvoiceWithClient struct {
	Invoice
	ClientName    *string `db:"client_name"`
	ClientEmail   *string `db:"client_email"`
	ClientPhone   *string `db:"client_phone"`
	ClientAddress *string `db:"client_address"`
	ClientOwnerID *string `db:"client_owner_id"`
}
