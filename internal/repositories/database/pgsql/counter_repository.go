package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/invoice_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoice_management_app/internal/core/ports/repositories"
	"github.com/SscSPs/invoice_management_app/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCounterRepository struct {
	BaseRepository
}

func newPgxCounterRepository(db *pgxpool.Pool) portsrepo.CounterRepository {
	return &PgxCounterRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.CounterRepository = (*PgxCounterRepository)(nil)

// incrementCounterSQL creates the scope at 1 or bumps it, returning the new value.
// The row lock taken by the upsert serialises concurrent allocations on a scope.
const incrementCounterSQL = `
    INSERT INTO invoice_counters (scope, last_number, updated_at)
    VALUES ($1, 1, $2)
    ON CONFLICT (scope) DO UPDATE
        SET last_number = invoice_counters.last_number + 1,
            updated_at  = EXCLUDED.updated_at
    RETURNING last_number;
`

func (r *PgxCounterRepository) IncrementInTx(ctx context.Context, tx pgx.Tx, scope string) (int64, error) {
	var next int64
	if err := tx.QueryRow(ctx, incrementCounterSQL, scope, time.Now().UTC()).Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to increment invoice counter %q: %w", scope, err)
	}
	return next, nil
}

// advanceCounterSQL never moves a counter backwards.
const advanceCounterSQL = `
    INSERT INTO invoice_counters (scope, last_number, updated_at)
    VALUES ($1, $2, $3)
    ON CONFLICT (scope) DO UPDATE
        SET last_number = GREATEST(invoice_counters.last_number, EXCLUDED.last_number),
            updated_at  = EXCLUDED.updated_at;
`

// AdvancePast runs on the pool rather than a caller's transaction so the skip
// survives that transaction's rollback.
func (r *PgxCounterRepository) AdvancePast(ctx context.Context, scope string, taken int64) error {
	if _, err := r.Pool.Exec(ctx, advanceCounterSQL, scope, taken, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to advance invoice counter %q past %d: %w", scope, taken, err)
	}
	return nil
}

// FindCounter returns a zero counter for a scope that has never been used.
func (r *PgxCounterRepository) FindCounter(ctx context.Context, scope string) (*domain.Counter, error) {
	var m models.InvoiceCounter
	err := r.Pool.QueryRow(ctx,
		`SELECT scope, last_number, updated_at FROM invoice_counters WHERE scope = $1;`, scope,
	).Scan(&m.Scope, &m.LastNumber, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.Counter{Scope: scope}, nil
		}
		return nil, fmt.Errorf("failed to read invoice counter %q: %w", scope, err)
	}
	return &domain.Counter{Scope: m.Scope, LastNumber: m.LastNumber, UpdatedAt: m.UpdatedAt}, nil
}
