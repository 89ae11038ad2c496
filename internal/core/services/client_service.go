package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/invoice_management_app/internal/apperrors"
	"github.com/SscSPs/invoice_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoice_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/invoice_management_app/internal/core/ports/services"
	"github.com/SscSPs/invoice_management_app/internal/dto"
	"github.com/SscSPs/invoice_management_app/internal/utils"
	"github.com/google/uuid"
)

type clientService struct {
	BaseService
	clientRepo portsrepo.ClientRepositoryFacade
}

// NewClientService creates a new ClientService.
func NewClientService(clientRepo portsrepo.ClientRepositoryFacade) portssvc.ClientSvcFacade {
	return &clientService{BaseService: newBaseService(), clientRepo: clientRepo}
}

var _ portssvc.ClientSvcFacade = (*clientService)(nil)

func (s *clientService) CreateClient(ctx context.Context, caller domain.Identity, req dto.CreateClientRequest) (*domain.Client, error) {
	ownerID, err := s.Authorizer.WriteScope(caller)
	if err != nil {
		return nil, err
	}

	client := domain.Client{
		ClientID: uuid.NewString(),
		OwnerID:  ownerID,
		Name:     strings.TrimSpace(req.Name),
		Email:    utils.NormalizeEmail(req.Email),
		Phone:    strings.TrimSpace(req.Phone),
		Address:  strings.TrimSpace(req.Address),
	}
	if client.Name == "" || client.Email == "" {
		return nil, fmt.Errorf("%w: name and email are required", apperrors.ErrValidation)
	}
	now := s.Now()
	client.CreatedAt, client.UpdatedAt = now, now

	if err := s.clientRepo.SaveClient(ctx, client); err != nil {
		s.LogError(ctx, err, "Failed to save client")
		return nil, err
	}
	s.LogInfo(ctx, "Client created", slog.String("client_id", client.ClientID))
	return &client, nil
}

func (s *clientService) GetClient(ctx context.Context, caller domain.Identity, clientID string) (*domain.Client, error) {
	if err := s.Authorizer.RequireIdentity(caller); err != nil {
		return nil, err
	}
	client, err := s.clientRepo.FindClientByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if err := s.Authorizer.CanRead(caller, client.OwnerID); err != nil {
		return nil, fmt.Errorf("%w: client %s", err, clientID)
	}
	return client, nil
}

func (s *clientService) ListClients(ctx context.Context, caller domain.Identity) ([]domain.Client, error) {
	scope, err := s.Authorizer.ReadScope(caller)
	if err != nil {
		return nil, err
	}
	return s.clientRepo.ListClients(ctx, scope)
}

// ownedClient loads a client for mutation. Clients of other owners are reported as missing.
func (s *clientService) ownedClient(ctx context.Context, caller domain.Identity, clientID string) (*domain.Client, error) {
	ownerID, err := s.Authorizer.WriteScope(caller)
	if err != nil {
		return nil, err
	}
	client, err := s.clientRepo.FindClientByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: client %s", apperrors.ErrNotFound, clientID)
	}
	return client, nil
}

func (s *clientService) UpdateClient(ctx context.Context, caller domain.Identity, clientID string, req dto.UpdateClientRequest) (*domain.Client, error) {
	client, err := s.ownedClient(ctx, caller, clientID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		client.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		client.Email = utils.NormalizeEmail(*req.Email)
	}
	if req.Phone != nil {
		client.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		client.Address = strings.TrimSpace(*req.Address)
	}
	if client.Name == "" || client.Email == "" {
		return nil, fmt.Errorf("%w: name and email cannot be empty", apperrors.ErrValidation)
	}
	client.UpdatedAt = s.Now()

	if err := s.clientRepo.UpdateClient(ctx, *client); err != nil {
		s.LogError(ctx, err, "Failed to update client", slog.String("client_id", clientID))
		return nil, err
	}
	return client, nil
}

// DeleteClient removes a client. Invoices addressed to it keep their data and
// show the client as unavailable.
func (s *clientService) DeleteClient(ctx context.Context, caller domain.Identity, clientID string) error {
	ownerID, err := s.Authorizer.WriteScope(caller)
	if err != nil {
		return err
	}
	if err := s.clientRepo.DeleteClient(ctx, clientID, ownerID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete client", slog.String("client_id", clientID))
		}
		return err
	}
	return nil
}
