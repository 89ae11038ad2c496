package services

import (
	"context"
	"time"

	"github.com/SscSPs/invoice_management_app/internal/core/domain"
	"github.com/SscSPs/invoice_management_app/internal/dto"
	"github.com/jackc/pgx/v5"
)

// NumberingSvc mints invoice numbers from the per-scope counters.
type NumberingSvc interface {
	// AllocateNumber increments the counter of the scope owning an invoice
	// created by ownerID at the given time, on the caller's transaction, and
	// returns the formatted number with its raw value.
	AllocateNumber(ctx context.Context, tx pgx.Tx, ownerID string, at time.Time) (string, int64, error)

	// SkipNumber marks the raw value taken as consumed in the scope of ownerID
	// at the given time, outside any transaction.
	SkipNumber(ctx context.Context, ownerID string, at time.Time, taken int64) error

	// PeekNextNumber renders the number the next allocation would get. It does
	// not reserve it.
	PeekNextNumber(ctx context.Context, ownerID string, at time.Time) (string, error)
}

// InvoiceReaderSvc defines read operations for invoices
type InvoiceReaderSvc interface {
	GetInvoice(ctx context.Context, caller domain.Identity, invoiceID string) (*domain.Invoice, error)

	// ListInvoices returns one page, newest first, and the token of the next page if any.
	ListInvoices(ctx context.Context, caller domain.Identity, params dto.ListInvoicesParams) ([]domain.Invoice, *string, error)
}

// InvoiceWriterSvc defines write operations for invoices
type InvoiceWriterSvc interface {
	// CreateInvoice validates the request, allocates a number and persists the
	// invoice in one transaction, then returns it joined with its client.
	CreateInvoice(ctx context.Context, caller domain.Identity, req dto.CreateInvoiceRequest) (*domain.Invoice, error)
	UpdateInvoice(ctx context.Context, caller domain.Identity, invoiceID string, req dto.UpdateInvoiceRequest) (*domain.Invoice, error)
	UpdateInvoiceStatus(ctx context.Context, caller domain.Identity, invoiceID string, status domain.InvoiceStatus) (*domain.Invoice, error)
	DeleteInvoice(ctx context.Context, caller domain.Identity, invoiceID string) error
}

// InvoiceDocumentSvc renders invoices for download.
type InvoiceDocumentSvc interface {
	// RenderInvoicePDF returns the PDF bytes and the file name to offer them under.
	RenderInvoicePDF(ctx context.Context, caller domain.Identity, invoiceID string) ([]byte, string, error)
}

// InvoiceSvcFacade combines all invoice-related service interfaces
type InvoiceSvcFacade interface {
	InvoiceReaderSvc
	InvoiceWriterSvc
	InvoiceDocumentSvc
}

// DocumentRenderer turns a prepared invoice document into PDF bytes.
type DocumentRenderer interface {
	RenderInvoice(ctx context.Context, doc domain.InvoiceDocument) ([]byte, error)
}
