package mapping

import (
	"github.com/SscSPs/invoice_management_app/internal/core/domain"
	"github.com/SscSPs/invoice_management_app/internal/models"
	"github.com/samber/lo"
)

// ToModelInvoice converts a domain Invoice to a model Invoice. The joined client is dropped.
func ToModelInvoice(d domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:     d.InvoiceID,
		InvoiceNumber: d.InvoiceNumber,
		OwnerID:       d.OwnerID,
		ClientID:      d.ClientID,
		Items: lo.Map(d.Items, func(it domain.LineItem, _ int) models.LineItem {
			return models.LineItem(it)
		}),
		Subtotal:   d.Subtotal,
		TaxRate:    d.TaxRate,
		TaxAmount:  d.TaxAmount,
		Total:      d.Total,
		IssueDate:  d.IssueDate,
		DueDate:    d.DueDate,
		Notes:      d.Notes,
		Status:     string(d.Status),
		Timestamps: ToModelTimestamps(d.Timestamps),
	}
}

// ToDomainInvoice converts a joined invoice row. Client stays nil when the
// client columns are NULL.
func ToDomainInvoice(m models.InvoiceWithClient) domain.Invoice {
	inv := domain.Invoice{
		InvoiceID:     m.InvoiceID,
		InvoiceNumber: m.InvoiceNumber,
		OwnerID:       m.OwnerID,
		ClientID:      m.ClientID,
		Items: lo.Map(m.Items, func(it models.LineItem, _ int) domain.LineItem {
			return domain.LineItem(it)
		}),
		Subtotal:   m.Subtotal,
		TaxRate:    m.TaxRate,
		TaxAmount:  m.TaxAmount,
		Total:      m.Total,
		IssueDate:  m.IssueDate,
		DueDate:    m.DueDate,
		Notes:      m.Notes,
		Status:     domain.InvoiceStatus(m.Status),
		Timestamps: ToDomainTimestamps(m.Timestamps),
	}
	if m.ClientID != nil && m.ClientName != nil {
		inv.Client = &domain.Client{
			ClientID: *m.ClientID,
			OwnerID:  lo.FromPtr(m.ClientOwnerID),
			Name:     *m.ClientName,
			Email:    lo.FromPtr(m.ClientEmail),
			Phone:    lo.FromPtr(m.ClientPhone),
			Address:  lo.FromPtr(m.ClientAddress),
		}
	}
	return inv
}
