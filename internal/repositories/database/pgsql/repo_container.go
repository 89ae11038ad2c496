package pgsql

import (
	portsrepo "github.com/SscSPs/invoice_management_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:      newPgxUserRepository(dbPool),
		ClientRepo:    newPgxClientRepository(dbPool),
		ProductRepo:   newPgxProductRepository(dbPool),
		InvoiceRepo:   newPgxInvoiceRepository(dbPool),
		CounterRepo:   newPgxCounterRepository(dbPool),
		SettingsRepo:  newPgxSettingsRepository(dbPool),
		AnalyticsRepo: newPgxAnalyticsRepository(dbPool),
	}
}
