package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/invoice_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoice_management_app/internal/core/ports/repositories"
	"github.com/SscSPs/invoice_management_app/internal/models"
	"github.com/SscSPs/invoice_management_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxProductRepository struct {
	BaseRepository
}

func newPgxProductRepository(db *pgxpool.Pool) portsrepo.ProductRepositoryFacade {
	return &PgxProductRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.ProductRepositoryFacade = (*PgxProductRepository)(nil)

const productColumns = `product_id, owner_id, name, description, price, vat_rate, price_excl_tax, vat_amount, created_at, updated_at`

func scanProduct(row pgx.Row) (models.Product, error) {
	var m models.Product
	err := row.Scan(
		&m.ProductID,
		&m.OwnerID,
		&m.Name,
		&m.Description,
		&m.Price,
		&m.VATRate,
		&m.PriceExclTax,
		&m.VATAmount,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

func (r *PgxProductRepository) collect(rows pgx.Rows) ([]models.Product, error) {
	defer rows.Close()
	var ms []models.Product
	for rows.Next() {
		m, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product rows: %w", err)
	}
	return ms, nil
}

func (r *PgxProductRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	m := mapping.ToModelProduct(product)
	query := `INSERT INTO products (` + productColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`
	_, err := r.Pool.Exec(ctx, query,
		m.ProductID, m.OwnerID, m.Name, m.Description,
		m.Price, m.VATRate, m.PriceExclTax, m.VATAmount,
		m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return translateWriteError(err, "product")
	}
	return nil
}

func (r *PgxProductRepository) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = $1;`
	m, err := scanProduct(r.Pool.QueryRow(ctx, query, productID))
	if err != nil {
		return nil, translateReadError(err, "product "+productID)
	}
	p := mapping.ToDomainProduct(m)
	return &p, nil
}

// FindProductsByIDs ignores ids that are not valid UUIDs rather than failing the whole lookup.
func (r *PgxProductRepository) FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error) {
	result := make(map[string]domain.Product, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}
	query := `
        SELECT ` + productColumns + `
        FROM products
        WHERE product_id::text = ANY($1::text[]);
    `
	rows, err := r.Pool.Query(ctx, query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query products by ids: %w", err)
	}
	ms, err := r.collect(rows)
	if err != nil {
		return nil, err
	}
	for _, m := range ms {
		result[m.ProductID] = mapping.ToDomainProduct(m)
	}
	return result, nil
}

func (r *PgxProductRepository) ListProducts(ctx context.Context, ownerID *string) ([]domain.Product, error) {
	query := `
        SELECT ` + productColumns + `
        FROM products
        WHERE ($1::uuid IS NULL OR owner_id = $1::uuid)
        ORDER BY name ASC;
    `
	rows, err := r.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	ms, err := r.collect(rows)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainProductSlice(ms), nil
}

func (r *PgxProductRepository) UpdateProduct(ctx context.Context, product domain.Product) error {
	m := mapping.ToModelProduct(product)
	query := `
        UPDATE products
        SET name = $3, description = $4, price = $5, vat_rate = $6,
            price_excl_tax = $7, vat_amount = $8, updated_at = $9
        WHERE product_id = $1 AND owner_id = $2;
    `
	tag, err := r.Pool.Exec(ctx, query,
		m.ProductID, m.OwnerID, m.Name, m.Description,
		m.Price, m.VATRate, m.PriceExclTax, m.VATAmount, m.UpdatedAt,
	)
	if err != nil {
		return translateWriteError(err, "product")
	}
	return affectedOrNotFound(tag, "product "+product.ProductID)
}

func (r *PgxProductRepository) DeleteProduct(ctx context.Context, productID string, ownerID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM products WHERE product_id = $1 AND owner_id = $2;`, productID, ownerID)
	if err != nil {
		return translateWriteError(err, "product "+productID)
	}
	return affectedOrNotFound(tag, "product "+productID)
}
