package dto

import (
	"time"

	"github.com/SscSPs/invoice_management_app/internal/core/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// CreateProductRequest defines the data needed to create a product.
// Price is tax inclusive; VATRate defaults to 18 when omitted.
type CreateProductRequest struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	Price       decimal.Decimal  `json:"price"`
	VATRate     *decimal.Decimal `json:"tva"`
}

// UpdateProductRequest defines the data allowed for updating a product.
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	VATRate     *decimal.Decimal `json:"tva"`
}

type ProductResponse struct {
	ProductID   string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	VATRate     decimal.Decimal `json:"tva"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func ToProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ProductID:   p.ProductID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		VATRate:     p.VATRate,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ToProductResponses(products []domain.Product) []ProductResponse {
	return lo.Map(products, func(p domain.Product, _ int) ProductResponse {
		return ToProductResponse(&p)
	})
}
