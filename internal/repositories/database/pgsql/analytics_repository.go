package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/invoice_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoice_management_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// NoTopProduct is reported when no invoice line falls in the period.
const NoTopProduct = "-"

type PgxAnalyticsRepository struct {
	BaseRepository
}

func newPgxAnalyticsRepository(db *pgxpool.Pool) portsrepo.AnalyticsRepository {
	return &PgxAnalyticsRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.AnalyticsRepository = (*PgxAnalyticsRepository)(nil)

const (
	analyticsSummarySQL = `
    SELECT COALESCE(SUM(total), 0), COUNT(*)
    FROM invoices
    WHERE ($1::timestamptz IS NULL OR created_at >= $1::timestamptz);`

	analyticsBestCustomerSQL = `
    SELECT c.name, SUM(i.total) AS spent
    FROM invoices i
    JOIN clients c ON c.client_id = i.client_id
    WHERE ($1::timestamptz IS NULL OR i.created_at >= $1::timestamptz)
    GROUP BY c.client_id, c.name
    ORDER BY spent DESC
    LIMIT 1;`

	analyticsTopProductsSQL = `
    SELECT item->>'productName' AS name, SUM((item->>'quantity')::numeric) AS sales
    FROM invoices i, jsonb_array_elements(i.items) AS item
    WHERE ($1::timestamptz IS NULL OR i.created_at >= $1::timestamptz)
    GROUP BY item->>'productName'
    ORDER BY sales DESC
    LIMIT 5;`

	analyticsRevenueTrendSQL = `
    SELECT to_char(day, 'DD/MM'), value FROM (
        SELECT date_trunc('day', created_at) AS day, SUM(total) AS value
        FROM invoices
        WHERE ($1::timestamptz IS NULL OR created_at >= $1::timestamptz)
        GROUP BY 1
    ) t ORDER BY day;`

	analyticsClientCountsSQL = `
    SELECT COUNT(*),
           COUNT(*) FILTER (WHERE $1::timestamptz IS NULL OR created_at >= $1::timestamptz)
    FROM clients;`

	analyticsNewClientsTrendSQL = `
    SELECT to_char(day, 'DD/MM'), value FROM (
        SELECT date_trunc('day', created_at) AS day, COUNT(*)::numeric AS value
        FROM clients
        WHERE ($1::timestamptz IS NULL OR created_at >= $1::timestamptz)
        GROUP BY 1
    ) t ORDER BY day;`
)

// GetAnalytics runs the dashboard aggregates in one round trip.
func (r *PgxAnalyticsRepository) GetAnalytics(ctx context.Context, since *time.Time) (*domain.Analytics, error) {
	batch := &pgx.Batch{}
	batch.Queue(analyticsSummarySQL, since)
	batch.Queue(analyticsBestCustomerSQL, since)
	batch.Queue(analyticsTopProductsSQL, since)
	batch.Queue(analyticsRevenueTrendSQL, since)
	batch.Queue(analyticsClientCountsSQL, since)
	batch.Queue(analyticsNewClientsTrendSQL, since)

	results := r.Pool.SendBatch(ctx, batch)
	defer results.Close()

	a := &domain.Analytics{
		TopProduct:      NoTopProduct,
		RevenueTrend:    []domain.TrendPoint{},
		NewClientsTrend: []domain.TrendPoint{},
		TopProducts:     []domain.ProductSales{},
	}

	if err := results.QueryRow().Scan(&a.Revenue, &a.TotalSales); err != nil {
		return nil, fmt.Errorf("failed to compute revenue summary: %w", err)
	}

	var best domain.BestCustomer
	err := results.QueryRow().Scan(&best.Name, &best.TotalSpent)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to compute best customer: %w", err)
	}
	if err == nil {
		if a.Revenue.IsPositive() {
			best.Percentage = best.TotalSpent.Div(a.Revenue).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
		}
		a.BestCustomer = &best
	}

	rows, err := results.Query()
	if err != nil {
		return nil, fmt.Errorf("failed to compute top products: %w", err)
	}
	a.TopProducts, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ProductSales, error) {
		var p domain.ProductSales
		err := row.Scan(&p.Name, &p.Sales)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan top products: %w", err)
	}
	if len(a.TopProducts) > 0 {
		a.TopProduct = a.TopProducts[0].Name
	}

	if a.RevenueTrend, err = collectTrend(results); err != nil {
		return nil, fmt.Errorf("failed to compute revenue trend: %w", err)
	}

	if err := results.QueryRow().Scan(&a.TotalClients, &a.NewClients); err != nil {
		return nil, fmt.Errorf("failed to count clients: %w", err)
	}

	if a.NewClientsTrend, err = collectTrend(results); err != nil {
		return nil, fmt.Errorf("failed to compute new clients trend: %w", err)
	}

	return a, nil
}

func collectTrend(results pgx.BatchResults) ([]domain.TrendPoint, error) {
	rows, err := results.Query()
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.TrendPoint, error) {
		var p domain.TrendPoint
		err := row.Scan(&p.Label, &p.Value)
		return p, err
	})
}
