package repositories

import (
	"context"

	"github.com/SscSPs/invoice_management_app/internal/core/domain"
)

// ClientReader defines read operations for client data
type ClientReader interface {
	// FindClientByID retrieves a client regardless of owner.
	FindClientByID(ctx context.Context, clientID string) (*domain.Client, error)

	// ListClients lists clients newest first. A nil ownerID lists every owner's clients.
	ListClients(ctx context.Context, ownerID *string) ([]domain.Client, error)
}

// ClientWriter defines write operations for client data
type ClientWriter interface {
	SaveClient(ctx context.Context, client domain.Client) error

	// UpdateClient updates the client matching both id and owner.
	UpdateClient(ctx context.Context, client domain.Client) error

	// DeleteClient deletes the client matching both id and owner.
	DeleteClient(ctx context.Context, clientID string, ownerID string) error
}

// ClientRepositoryFacade combines all client-related repository interfaces
type ClientRepositoryFacade interface {
	ClientReader
	ClientWriter
}
