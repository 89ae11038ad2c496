package services

import (
	"context"

	"github.com/SscSPs/invoice_management_app/internal/core/domain"
	"github.com/SscSPs/invoice_management_app/internal/dto"
)

// ProductSvcFacade manages the product catalogue.
type ProductSvcFacade interface {
	CreateProduct(ctx context.Context, caller domain.Identity, req dto.CreateProductRequest) (*domain.Product, error)
	GetProduct(ctx context.Context, caller domain.Identity, productID string) (*domain.Product, error)
	ListProducts(ctx context.Context, caller domain.Identity) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, caller domain.Identity, productID string, req dto.UpdateProductRequest) (*domain.Product, error)
	DeleteProduct(ctx context.Context, caller domain.Identity, productID string) error
}
