package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/invoice_management_app/internal/apperrors"
	"github.com/SscSPs/invoice_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoice_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/invoice_management_app/internal/core/ports/services"
	"github.com/SscSPs/invoice_management_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var maxVATRate = decimal.NewFromInt(100)

type productService struct {
	BaseService
	productRepo portsrepo.ProductRepositoryFacade
}

// NewProductService creates a new ProductService.
func NewProductService(productRepo portsrepo.ProductRepositoryFacade) portssvc.ProductSvcFacade {
	return &productService{BaseService: newBaseService(), productRepo: productRepo}
}

var _ portssvc.ProductSvcFacade = (*productService)(nil)

func validateProduct(p *domain.Product) error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}
	if !p.Price.IsPositive() {
		return fmt.Errorf("%w: price must be greater than 0", apperrors.ErrValidation)
	}
	if p.VATRate.IsNegative() || p.VATRate.GreaterThan(maxVATRate) {
		return fmt.Errorf("%w: tva must be between 0 and 100", apperrors.ErrValidation)
	}
	return nil
}

func (s *productService) CreateProduct(ctx context.Context, caller domain.Identity, req dto.CreateProductRequest) (*domain.Product, error) {
	ownerID, err := s.Authorizer.WriteScope(caller)
	if err != nil {
		return nil, err
	}

	product := domain.Product{
		ProductID:   uuid.NewString(),
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		VATRate:     domain.DefaultVATRate,
	}
	if req.VATRate != nil {
		product.VATRate = *req.VATRate
	}
	if err := validateProduct(&product); err != nil {
		return nil, err
	}
	product.ComputeTaxes()
	now := s.Now()
	product.CreatedAt, product.UpdatedAt = now, now

	if err := s.productRepo.SaveProduct(ctx, product); err != nil {
		s.LogError(ctx, err, "Failed to save product")
		return nil, err
	}
	s.LogInfo(ctx, "Product created", slog.String("product_id", product.ProductID))
	return &product, nil
}

func (s *productService) GetProduct(ctx context.Context, caller domain.Identity, productID string) (*domain.Product, error) {
	if err := s.Authorizer.RequireIdentity(caller); err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := s.Authorizer.CanRead(caller, product.OwnerID); err != nil {
		return nil, fmt.Errorf("%w: product %s", err, productID)
	}
	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, caller domain.Identity) ([]domain.Product, error) {
	scope, err := s.Authorizer.ReadScope(caller)
	if err != nil {
		return nil, err
	}
	return s.productRepo.ListProducts(ctx, scope)
}

func (s *productService) UpdateProduct(ctx context.Context, caller domain.Identity, productID string, req dto.UpdateProductRequest) (*domain.Product, error) {
	ownerID, err := s.Authorizer.WriteScope(caller)
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: product %s", apperrors.ErrNotFound, productID)
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.VATRate != nil {
		product.VATRate = *req.VATRate
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	product.ComputeTaxes()
	product.UpdatedAt = s.Now()

	if err := s.productRepo.UpdateProduct(ctx, *product); err != nil {
		s.LogError(ctx, err, "Failed to update product", slog.String("product_id", productID))
		return nil, err
	}
	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, caller domain.Identity, productID string) error {
	ownerID, err := s.Authorizer.WriteScope(caller)
	if err != nil {
		return err
	}
	return s.productRepo.DeleteProduct(ctx, productID, ownerID)
}
