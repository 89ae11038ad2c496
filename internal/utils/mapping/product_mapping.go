package mapping

import (
	"github.com/SscSPs/invoice_management_app/internal/core/domain"
	"github.com/SscSPs/invoice_management_app/internal/models"
)

func ToModelProduct(d domain.Product) models.Product {
	return models.Product{
		ProductID:    d.ProductID,
		OwnerID:      d.OwnerID,
		Name:         d.Name,
		Description:  d.Description,
		Price:        d.Price,
		VATRate:      d.VATRate,
		PriceExclTax: d.PriceExclTax,
		VATAmount:    d.VATAmount,
		Timestamps:   ToModelTimestamps(d.Timestamps),
	}
}

func ToDomainProduct(m models.Product) domain.Product {
	return domain.Product{
		ProductID:    m.ProductID,
		OwnerID:      m.OwnerID,
		Name:         m.Name,
		Description:  m.Description,
		Price:        m.Price,
		VATRate:      m.VATRate,
		PriceExclTax: m.PriceExclTax,
		VATAmount:    m.VATAmount,
		Timestamps:   ToDomainTimestamps(m.Timestamps),
	}
}

func ToDomainProductSlice(ms []models.Product) []domain.Product {
	ds := make([]domain.Product, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainProduct(m)
	}
	return ds
}
