package repositories

import (
	"context"

	"github.com/SscSPs/invoice_management_app/internal/core/domain"
)

// ProductReader defines read operations for product data
type ProductReader interface {
	// FindProductByID retrieves a product regardless of owner.
	FindProductByID(ctx context.Context, productID string) (*domain.Product, error)

	// FindProductsByIDs retrieves the products that exist among productIDs, keyed by id.
	FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error)

	// ListProducts lists products by name. A nil ownerID lists every owner's products.
	ListProducts(ctx context.Context, ownerID *string) ([]domain.Product, error)
}

// ProductWriter defines write operations for product data
type ProductWriter interface {
	SaveProduct(ctx context.Context, product domain.Product) error

	// UpdateProduct updates the product matching both id and owner.
	UpdateProduct(ctx context.Context, product domain.Product) error

	// DeleteProduct deletes the product matching both id and owner.
	DeleteProduct(ctx context.Context, productID string, ownerID string) error
}

// ProductRepositoryFacade combines all product-related repository interfaces
type ProductRepositoryFacade interface {
	ProductReader
	ProductWriter
}
