package services

import (
	"context"

	"github.com/SscSPs/invoice_management_app/internal/core/domain"
	"github.com/SscSPs/invoice_management_app/internal/dto"
)

// ClientSvcFacade manages the clients invoices are addressed to.
type ClientSvcFacade interface {
	CreateClient(ctx context.Context, caller domain.Identity, req dto.CreateClientRequest) (*domain.Client, error)
	GetClient(ctx context.Context, caller domain.Identity, clientID string) (*domain.Client, error)
	ListClients(ctx context.Context, caller domain.Identity) ([]domain.Client, error)
	UpdateClient(ctx context.Context, caller domain.Identity, clientID string, req dto.UpdateClientRequest) (*domain.Client, error)
	DeleteClient(ctx context.Context, caller domain.Identity, clientID string) error
}
