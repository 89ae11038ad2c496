package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	StatusDraft     InvoiceStatus = "draft"
	StatusSent      InvoiceStatus = "sent"
	StatusPaid      InvoiceStatus = "paid"
	StatusCancelled InvoiceStatus = "cancelled"
)

// InvoiceStatuses lists every recognized status.
var InvoiceStatuses = []InvoiceStatus{StatusDraft, StatusSent, StatusPaid, StatusCancelled}

// IsValid reports whether s is one of the recognized statuses. Any recognized
// status may follow any other; there is no forward-only rule.
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// LineItem is a snapshot of a product line taken when the invoice is written.
// It holds no live reference to the product row beyond its id.
type LineItem struct {
	ProductID   string          `json:"productId" validate:"required"`
	ProductName string          `json:"productName" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity" validate:"gt=0"`
	UnitPrice   decimal.Decimal `json:"unitPrice" validate:"gte=0"`
	Total       decimal.Decimal `json:"total"`
}

// Invoice is a billing document addressed to a client.
// Total is caller supplied and not checked against Subtotal + TaxAmount.
type Invoice struct {
	InvoiceID     string          `json:"id"`
	InvoiceNumber string          `json:"invoiceNumber"`
	OwnerID       string          `json:"userId"`
	ClientID      *string         `json:"clientId,omitempty"`
	Items         []LineItem      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxRate       decimal.Decimal `json:"taxRate"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	Total         decimal.Decimal `json:"total"`
	IssueDate     time.Time       `json:"issueDate"`
	DueDate       *time.Time      `json:"dueDate,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
	Status        InvoiceStatus   `json:"status"`
	Timestamps

	// Client is populated by joined reads. Nil when the client was deleted.
	Client *Client `json:"client,omitempty"`
}

// InvoiceFilter narrows invoice listings.
type InvoiceFilter struct {
	// OwnerID restricts results to one owner. Nil means every owner.
	OwnerID *string
	Status  *InvoiceStatus
	Limit   int
	// After is the keyset cursor: only invoices strictly older than it are returned.
	After *InvoiceCursor
}

// InvoiceCursor identifies a position in the newest-first invoice ordering.
type InvoiceCursor struct {
	CreatedAt time.Time
	InvoiceID string
}
