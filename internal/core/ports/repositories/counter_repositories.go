package repositories

import (
	"context"

	"github.com/SscSPs/invoice_management_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// CounterRepository gives access to the per-scope invoice number sequences.
type CounterRepository interface {
	// IncrementInTx atomically increments the counter for scope on tx, creating
	// it at 1 when absent, and returns the new value.
	IncrementInTx(ctx context.Context, tx pgx.Tx, scope string) (int64, error)

	// AdvancePast raises the counter for scope to at least taken in its own
	// committed statement, so a number found already in use is never drawn
	// again after the allocating transaction rolls back.
	AdvancePast(ctx context.Context, scope string, taken int64) error

	// FindCounter returns the current state of a scope's counter.
	FindCounter(ctx context.Context, scope string) (*domain.Counter, error)
}
