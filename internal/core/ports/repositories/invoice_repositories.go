package repositories

import (
	"context"

	"github.com/SscSPs/invoice_management_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// InvoiceReader defines read operations for invoice data
type InvoiceReader interface {
	// FindInvoiceByID retrieves an invoice joined with its client. A non-nil
	// ownerID restricts the lookup to that owner; a mismatch is ErrNotFound.
	FindInvoiceByID(ctx context.Context, invoiceID string, ownerID *string) (*domain.Invoice, error)

	// ListInvoices lists invoices joined with their clients, newest first.
	ListInvoices(ctx context.Context, filter domain.InvoiceFilter) ([]domain.Invoice, error)
}

// InvoiceWriter defines write operations for invoice data
type InvoiceWriter interface {
	// SaveInvoiceInTx inserts an invoice on tx. Returns apperrors.ErrDuplicate
	// when the invoice number is already taken.
	SaveInvoiceInTx(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error

	// UpdateInvoice rewrites the mutable fields of the invoice matching id and owner.
	// The invoice number is never changed.
	UpdateInvoice(ctx context.Context, invoice domain.Invoice) error

	// UpdateInvoiceStatus sets the status of the invoice matching id and owner.
	UpdateInvoiceStatus(ctx context.Context, invoiceID string, ownerID string, status domain.InvoiceStatus) error

	// DeleteInvoice deletes the invoice matching id and owner.
	DeleteInvoice(ctx context.Context, invoiceID string, ownerID string) error
}

// InvoiceRepositoryFacade combines all invoice-related repository interfaces
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}

// InvoiceRepositoryWithTx extends InvoiceRepositoryFacade with transaction capabilities
type InvoiceRepositoryWithTx interface {
	InvoiceRepositoryFacade
	TransactionManager
}
