package dto

import (
	"time"

	"github.com/SscSPs/invoice_management_app/internal/core/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// LineItemRequest is one invoice line as submitted by the caller.
// ProductName may be omitted; the product's current name is used then.
type LineItemRequest struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Total       decimal.Decimal `json:"total"`
}

// CreateInvoiceRequest defines the data needed to create an invoice.
// Presence of clientId and items is checked by the service so that each
// missing precondition yields its own error.
type CreateInvoiceRequest struct {
	ClientID  string                `json:"clientId"`
	Items     []LineItemRequest     `json:"items"`
	Subtotal  decimal.Decimal       `json:"subtotal"`
	TaxRate   decimal.Decimal       `json:"taxRate"`
	TaxAmount decimal.Decimal       `json:"taxAmount"`
	Total     decimal.Decimal       `json:"total"`
	IssueDate *time.Time            `json:"issueDate"`
	DueDate   *time.Time            `json:"dueDate"`
	Notes     *string               `json:"notes"`
	Status    *domain.InvoiceStatus `json:"status"`
}

// UpdateInvoiceRequest defines the data allowed for updating an invoice.
// The invoice number is not updatable. Absent and null fields are left
// unchanged; clearDueDate and clearNotes remove those optional values.
type UpdateInvoiceRequest struct {
	ClientID  *string               `json:"clientId"`
	Items     *[]LineItemRequest    `json:"items"`
	Subtotal  *decimal.Decimal      `json:"subtotal"`
	TaxRate   *decimal.Decimal      `json:"taxRate"`
	TaxAmount *decimal.Decimal      `json:"taxAmount"`
	Total     *decimal.Decimal      `json:"total"`
	IssueDate *time.Time            `json:"issueDate"`
	DueDate   *time.Time            `json:"dueDate"`
	Notes     *string               `json:"notes"`
	Status    *domain.InvoiceStatus `json:"status"`

	ClearDueDate bool `json:"clearDueDate"`
	ClearNotes   bool `json:"clearNotes"`
}

// UpdateInvoiceStatusRequest carries the target status of an invoice.
type UpdateInvoiceStatusRequest struct {
	Status domain.InvoiceStatus `json:"status" binding:"required"`
}

// ListInvoicesParams defines query parameters for listing invoices.
type ListInvoicesParams struct {
	Status    *domain.InvoiceStatus `form:"status"`
	Limit     int                   `form:"limit,default=50"`
	NextToken *string               `form:"nextToken"`
}

// InvoiceClient is the client block embedded in invoice responses.
type InvoiceClient struct {
	ClientID string `json:"id,omitempty"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

// MissingClientName is shown when an invoice's client no longer exists.
const MissingClientName = "N/A"

type InvoiceResponse struct {
	InvoiceID     string               `json:"id"`
	InvoiceNumber string               `json:"invoiceNumber"`
	UserID        string               `json:"userId"`
	Client        InvoiceClient        `json:"client"`
	Items         []domain.LineItem    `json:"items"`
	Subtotal      decimal.Decimal      `json:"subtotal"`
	TaxRate       decimal.Decimal      `json:"taxRate"`
	TaxAmount     decimal.Decimal      `json:"taxAmount"`
	Total         decimal.Decimal      `json:"total"`
	IssueDate     time.Time            `json:"issueDate"`
	DueDate       *time.Time           `json:"dueDate,omitempty"`
	Notes         *string              `json:"notes,omitempty"`
	Status        domain.InvoiceStatus `json:"status"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// ListInvoicesResponse wraps a page of invoices.
type ListInvoicesResponse struct {
	Invoices  []InvoiceResponse `json:"invoices"`
	NextToken *string           `json:"nextToken,omitempty"`
}

func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	client := InvoiceClient{Name: MissingClientName}
	if inv.Client != nil {
		client = InvoiceClient{
			ClientID: inv.Client.ClientID,
			Name:     inv.Client.Name,
			Email:    inv.Client.Email,
			Phone:    inv.Client.Phone,
			Address:  inv.Client.Address,
		}
	}
	items := inv.Items
	if items == nil {
		items = []domain.LineItem{}
	}
	return InvoiceResponse{
		InvoiceID:     inv.InvoiceID,
		InvoiceNumber: inv.InvoiceNumber,
		UserID:        inv.OwnerID,
		Client:        client,
		Items:         items,
		Subtotal:      inv.Subtotal,
		TaxRate:       inv.TaxRate,
		TaxAmount:     inv.TaxAmount,
		Total:         inv.Total,
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		Notes:         inv.Notes,
		Status:        inv.Status,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}

func ToListInvoicesResponse(invoices []domain.Invoice, nextToken *string) ListInvoicesResponse {
	return ListInvoicesResponse{
		Invoices: lo.Map(invoices, func(inv domain.Invoice, _ int) InvoiceResponse {
			return ToInvoiceResponse(&inv)
		}),
		NextToken: nextToken,
	}
}
