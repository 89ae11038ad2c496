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

type PgxClientRepository struct {
	BaseRepository
}

func newPgxClientRepository(db *pgxpool.Pool) portsrepo.ClientRepositoryFacade {
	return &PgxClientRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.ClientRepositoryFacade = (*PgxClientRepository)(nil)

const clientColumns = `client_id, owner_id, name, email, phone, address, created_at, updated_at`

func scanClient(row pgx.Row) (models.Client, error) {
	var m models.Client
	err := row.Scan(&m.ClientID, &m.OwnerID, &m.Name, &m.Email, &m.Phone, &m.Address, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

func (r *PgxClientRepository) SaveClient(ctx context.Context, client domain.Client) error {
	m := mapping.ToModelClient(client)
	query := `INSERT INTO clients (` + clientColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`
	_, err := r.Pool.Exec(ctx, query, m.ClientID, m.OwnerID, m.Name, m.Email, m.Phone, m.Address, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return translateWriteError(err, "client")
	}
	return nil
}

func (r *PgxClientRepository) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE client_id = $1;`
	m, err := scanClient(r.Pool.QueryRow(ctx, query, clientID))
	if err != nil {
		return nil, translateReadError(err, "client "+clientID)
	}
	c := mapping.ToDomainClient(m)
	return &c, nil
}

func (r *PgxClientRepository) ListClients(ctx context.Context, ownerID *string) ([]domain.Client, error) {
	query := `
        SELECT ` + clientColumns + `
        FROM clients
        WHERE ($1::uuid IS NULL OR owner_id = $1::uuid)
        ORDER BY created_at DESC;
    `
	rows, err := r.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	var ms []models.Client
	for rows.Next() {
		m, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating client rows: %w", err)
	}
	return mapping.ToDomainClientSlice(ms), nil
}

func (r *PgxClientRepository) UpdateClient(ctx context.Context, client domain.Client) error {
	m := mapping.ToModelClient(client)
	query := `
        UPDATE clients
        SET name = $3, email = $4, phone = $5, address = $6, updated_at = $7
        WHERE client_id = $1 AND owner_id = $2;
    `
	tag, err := r.Pool.Exec(ctx, query, m.ClientID, m.OwnerID, m.Name, m.Email, m.Phone, m.Address, m.UpdatedAt)
	if err != nil {
		return translateWriteError(err, "client")
	}
	return affectedOrNotFound(tag, "client "+client.ClientID)
}

func (r *PgxClientRepository) DeleteClient(ctx context.Context, clientID string, ownerID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM clients WHERE client_id = $1 AND owner_id = $2;`, clientID, ownerID)
	if err != nil {
		return translateWriteError(err, "client "+clientID)
	}
	return affectedOrNotFound(tag, "client "+clientID)
}
