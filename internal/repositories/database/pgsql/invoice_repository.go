package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/invoice_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoice_management_app/internal/core/ports/repositories"
	"github.com/SscSPs/invoice_management_app/internal/models"
	"github.com/SscSPs/invoice_management_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxInvoiceRepository struct {
	BaseRepository
}

func newPgxInvoiceRepository(db *pgxpool.Pool) portsrepo.InvoiceRepositoryWithTx {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxInvoiceRepository implements portsrepo.InvoiceRepositoryWithTx
var _ portsrepo.InvoiceRepositoryWithTx = (*PgxInvoiceRepository)(nil)

const invoiceJoinedSelect = `
    SELECT i.invoice_id, i.invoice_number, i.owner_id, i.client_id, i.items,
           i.subtotal, i.tax_rate, i.tax_amount, i.total,
           i.issue_date, i.due_date, i.notes, i.status, i.created_at, i.updated_at,
           c.name, c.email, c.phone, c.address, c.owner_id
    FROM invoices i
    LEFT JOIN clients c ON c.client_id = i.client_id
`

func scanInvoiceWithClient(row pgx.Row) (models.InvoiceWithClient, error) {
	var m models.InvoiceWithClient
	err := row.Scan(
		&m.InvoiceID,
		&m.InvoiceNumber,
		&m.OwnerID,
		&m.ClientID,
		&m.Items,
		&m.Subtotal,
		&m.TaxRate,
		&m.TaxAmount,
		&m.Total,
		&m.IssueDate,
		&m.DueDate,
		&m.Notes,
		&m.Status,
		&m.CreatedAt,
		&m.UpdatedAt,
		&m.ClientName,
		&m.ClientEmail,
		&m.ClientPhone,
		&m.ClientAddress,
		&m.ClientOwnerID,
	)
	return m, err
}

// SaveInvoiceInTx inserts the invoice on the caller's transaction.
func (r *PgxInvoiceRepository) SaveInvoiceInTx(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error {
	m := mapping.ToModelInvoice(invoice)
	query := `
        INSERT INTO invoices (
            invoice_id, invoice_number, owner_id, client_id, items,
            subtotal, tax_rate, tax_amount, total,
            issue_date, due_date, notes, status, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
    `
	_, err := tx.Exec(ctx, query,
		m.InvoiceID,
		m.InvoiceNumber,
		m.OwnerID,
		m.ClientID,
		m.Items,
		m.Subtotal,
		m.TaxRate,
		m.TaxAmount,
		m.Total,
		m.IssueDate,
		m.DueDate,
		m.Notes,
		m.Status,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return translateWriteError(err, "invoice "+invoice.InvoiceNumber)
	}
	return nil
}

func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string, ownerID *string) (*domain.Invoice, error) {
	query := invoiceJoinedSelect + `
    WHERE i.invoice_id = $1 AND ($2::uuid IS NULL OR i.owner_id = $2::uuid);`
	m, err := scanInvoiceWithClient(r.Pool.QueryRow(ctx, query, invoiceID, ownerID))
	if err != nil {
		return nil, translateReadError(err, "invoice "+invoiceID)
	}
	inv := mapping.ToDomainInvoice(m)
	return &inv, nil
}

// ListInvoices pages newest first on (created_at, invoice_id).
func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, filter domain.InvoiceFilter) ([]domain.Invoice, error) {
	var status *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}
	var afterCreated *time.Time
	var afterID *string
	if filter.After != nil {
		afterCreated = &filter.After.CreatedAt
		afterID = &filter.After.InvoiceID
	}

	query := invoiceJoinedSelect + `
    WHERE ($1::uuid IS NULL OR i.owner_id = $1::uuid)
      AND ($2::text IS NULL OR i.status = $2::text)
      AND ($3::timestamptz IS NULL OR (i.created_at, i.invoice_id) < ($3::timestamptz, $4::uuid))
    ORDER BY i.created_at DESC, i.invoice_id DESC
    LIMIT $5;`

	rows, err := r.Pool.Query(ctx, query, filter.OwnerID, status, afterCreated, afterID, filter.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	invoices := make([]domain.Invoice, 0, filter.Limit)
	for rows.Next() {
		m, err := scanInvoiceWithClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		invoices = append(invoices, mapping.ToDomainInvoice(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice rows: %w", err)
	}
	return invoices, nil
}

// UpdateInvoice never touches invoice_number or owner_id.
func (r *PgxInvoiceRepository) UpdateInvoice(ctx context.Context, invoice domain.Invoice) error {
	m := mapping.ToModelInvoice(invoice)
	query := `
        UPDATE invoices
        SET client_id = $3, items = $4, subtotal = $5, tax_rate = $6, tax_amount = $7, total = $8,
            issue_date = $9, due_date = $10, notes = $11, status = $12, updated_at = $13
        WHERE invoice_id = $1 AND owner_id = $2;
    `
	tag, err := r.Pool.Exec(ctx, query,
		m.InvoiceID,
		m.OwnerID,
		m.ClientID,
		m.Items,
		m.Subtotal,
		m.TaxRate,
		m.TaxAmount,
		m.Total,
		m.IssueDate,
		m.DueDate,
		m.Notes,
		m.Status,
		m.UpdatedAt,
	)
	if err != nil {
		return translateWriteError(err, "invoice "+invoice.InvoiceID)
	}
	return affectedOrNotFound(tag, "invoice "+invoice.InvoiceID)
}

func (r *PgxInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, invoiceID string, ownerID string, status domain.InvoiceStatus) error {
	query := `UPDATE invoices SET status = $3, updated_at = $4 WHERE invoice_id = $1 AND owner_id = $2;`
	tag, err := r.Pool.Exec(ctx, query, invoiceID, ownerID, string(status), time.Now().UTC())
	if err != nil {
		return translateWriteError(err, "invoice "+invoiceID)
	}
	return affectedOrNotFound(tag, "invoice "+invoiceID)
}

func (r *PgxInvoiceRepository) DeleteInvoice(ctx context.Context, invoiceID string, ownerID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM invoices WHERE invoice_id = $1 AND owner_id = $2;`, invoiceID, ownerID)
	if err != nil {
		return translateWriteError(err, "invoice "+invoiceID)
	}
	return affectedOrNotFound(tag, "invoice "+invoiceID)
}
