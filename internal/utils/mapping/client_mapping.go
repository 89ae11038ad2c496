package mapping

import (
	"github.com/SscSPs/invoice_management_app/internal/core/domain"
	"github.com/SscSPs/invoice_management_app/internal/models"
)

func ToModelClient(d domain.Client) models.Client {
	return models.Client{
		ClientID:   d.ClientID,
		OwnerID:    d.OwnerID,
		Name:       d.Name,
		Email:      d.Email,
		Phone:      d.Phone,
		Address:    d.Address,
		Timestamps: ToModelTimestamps(d.Timestamps),
	}
}

func ToDomainClient(m models.Client) domain.Client {
	return domain.Client{
		ClientID:   m.ClientID,
		OwnerID:    m.OwnerID,
		Name:       m.Name,
		Email:      m.Email,
		Phone:      m.Phone,
		Address:    m.Address,
		Timestamps: ToDomainTimestamps(m.Timestamps),
	}
}

func ToDomainClientSlice(ms []models.Client) []domain.Client {
	ds := make([]domain.Client, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainClient(m)
	}
	return ds
}
