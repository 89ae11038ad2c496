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

type PgxSettingsRepository struct {
	BaseRepository
}

func newPgxSettingsRepository(db *pgxpool.Pool) portsrepo.SettingsRepository {
	return &PgxSettingsRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.SettingsRepository = (*PgxSettingsRepository)(nil)

func scanSettings(row pgx.Row) (*domain.Settings, error) {
	var m models.Settings
	if err := row.Scan(&m.TaxRate, &m.InvoicePrefix, &m.FooterText, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	s := mapping.ToDomainSettings(m)
	return &s, nil
}

// GetOrCreateSettings inserts the defaults if the row is missing; a concurrent
// insert is absorbed by ON CONFLICT and the stored row is returned either way.
func (r *PgxSettingsRepository) GetOrCreateSettings(ctx context.Context, defaults domain.Settings) (*domain.Settings, error) {
	m := mapping.ToModelSettings(defaults)
	query := `
        WITH ins AS (
            INSERT INTO settings (id, tax_rate, invoice_prefix, footer_text, created_at, updated_at)
            VALUES (1, $1, $2, $3, $4, $5)
            ON CONFLICT (id) DO NOTHING
            RETURNING tax_rate, invoice_prefix, footer_text, created_at, updated_at
        )
        SELECT tax_rate, invoice_prefix, footer_text, created_at, updated_at FROM ins
        UNION ALL
        SELECT tax_rate, invoice_prefix, footer_text, created_at, updated_at FROM settings WHERE id = 1
        LIMIT 1;
    `
	s, err := scanSettings(r.Pool.QueryRow(ctx, query, m.TaxRate, m.InvoicePrefix, m.FooterText, m.CreatedAt, m.UpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return s, nil
}

func (r *PgxSettingsRepository) UpsertSettings(ctx context.Context, settings domain.Settings) (*domain.Settings, error) {
	m := mapping.ToModelSettings(settings)
	query := `
        INSERT INTO settings (id, tax_rate, invoice_prefix, footer_text, created_at, updated_at)
        VALUES (1, $1, $2, $3, $4, $5)
        ON CONFLICT (id) DO UPDATE
            SET tax_rate = EXCLUDED.tax_rate,
                invoice_prefix = EXCLUDED.invoice_prefix,
                footer_text = EXCLUDED.footer_text,
                updated_at = EXCLUDED.updated_at
        RETURNING tax_rate, invoice_prefix, footer_text, created_at, updated_at;
    `
	s, err := scanSettings(r.Pool.QueryRow(ctx, query, m.TaxRate, m.InvoicePrefix, m.FooterText, m.CreatedAt, m.UpdatedAt))
	if err != nil {
		return nil, translateWriteError(err, "settings")
	}
	return s, nil
}
