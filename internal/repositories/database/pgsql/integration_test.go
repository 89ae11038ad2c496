package pgsql_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/invoice_management_app/internal/apperrors"
	"github.com/SscSPs/invoice_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/invoice_management_app/internal/core/ports/repositories"
	"github.com/SscSPs/invoice_management_app/internal/core/services"
	"github.com/SscSPs/invoice_management_app/internal/dto"
	"github.com/SscSPs/invoice_management_app/internal/platform/config"
	"github.com/SscSPs/invoice_management_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/invoice_management_app/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const migrationsSource = "file://../../../../migrations"

// newTestPool starts a disposable PostgreSQL, applies the migrations and
// returns a pool on it.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping PostgreSQL integration test in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("invoicing_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(migrationsSource, dsn))

	pool, err := database.NewPgxPool(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func seedUser(t *testing.T, repos portsrepo.RepositoryProvider, email string) domain.User {
	t.Helper()
	now := time.Now().UTC()
	user := domain.User{
		UserID:       uuid.NewString(),
		Name:         "Owner",
		Email:        email,
		Role:         domain.RoleUser,
		IsActive:     true,
		AuthProvider: domain.ProviderLocal,
		Timestamps:   domain.Timestamps{CreatedAt: now, UpdatedAt: now},
	}
	require.NoError(t, repos.UserRepo.SaveUser(context.Background(), user))
	return user
}

func TestPostgres(t *testing.T) {
	pool := newTestPool(t)
	repos := pgsql.NewRepositoryProvider(pool)

	t.Run("counter increments are serialised per scope", func(t *testing.T) {
		ctx := context.Background()
		const workers = 20
		results := make(chan int64, workers)
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				tx, err := repos.InvoiceRepo.Begin(ctx)
				if !assert.NoError(t, err) {
					return
				}
				defer func() { _ = repos.InvoiceRepo.Rollback(ctx, tx) }()
				n, err := repos.CounterRepo.IncrementInTx(ctx, tx, "year-2030")
				if !assert.NoError(t, err) {
					return
				}
				if assert.NoError(t, repos.InvoiceRepo.Commit(ctx, tx)) {
					results <- n
				}
			}()
		}
		wg.Wait()
		close(results)

		var got []int64
		for n := range results {
			got = append(got, n)
		}
		sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
		require.Len(t, got, workers)
		for i, n := range got {
			assert.Equal(t, int64(i+1), n)
		}

		counter, err := repos.CounterRepo.FindCounter(ctx, "year-2030")
		require.NoError(t, err)
		assert.Equal(t, int64(workers), counter.LastNumber)
	})

	t.Run("rolled back increment is released", func(t *testing.T) {
		ctx := context.Background()
		tx, err := repos.InvoiceRepo.Begin(ctx)
		require.NoError(t, err)
		n, err := repos.CounterRepo.IncrementInTx(ctx, tx, "year-2031")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		require.NoError(t, repos.InvoiceRepo.Rollback(ctx, tx))

		counter, err := repos.CounterRepo.FindCounter(ctx, "year-2031")
		require.NoError(t, err)
		assert.Equal(t, int64(0), counter.LastNumber)
	})

	t.Run("duplicate email is reported as duplicate", func(t *testing.T) {
		seedUser(t, repos, "dup@example.com")
		now := time.Now().UTC()
		err := repos.UserRepo.SaveUser(context.Background(), domain.User{
			UserID: uuid.NewString(), Name: "Other", Email: "dup@example.com",
			Role: domain.RoleUser, IsActive: true, AuthProvider: domain.ProviderLocal,
			Timestamps: domain.Timestamps{CreatedAt: now, UpdatedAt: now},
		})
		assert.True(t, errors.Is(err, apperrors.ErrDuplicate))
	})

	t.Run("concurrent invoice creation end to end", func(t *testing.T) {
		ctx := context.Background()
		cfg := &config.Config{
			JWTSecret:             "integration-secret",
			JWTExpiryDuration:     time.Hour,
			JWTIssuer:             "invoicing-test",
			InvoiceNumberTemplate: "FAC-{year}-{num}",
			InvoiceNumberPad:      4,
		}
		svc := services.NewServiceContainer(cfg, repos, nil)

		owner := seedUser(t, repos, "owner@example.com")
		caller := domain.Identity{UserID: owner.UserID, Name: owner.Name, Email: owner.Email, Role: domain.RoleUser}

		client, err := svc.Client.CreateClient(ctx, caller, dto.CreateClientRequest{Name: "Sahel SARL", Email: "contact@sahel.example"})
		require.NoError(t, err)
		product, err := svc.Product.CreateProduct(ctx, caller, dto.CreateProductRequest{Name: "Consulting", Price: decimal.NewFromInt(59000)})
		require.NoError(t, err)

		req := dto.CreateInvoiceRequest{
			ClientID: client.ClientID,
			Items: []dto.LineItemRequest{{
				ProductID: product.ProductID,
				Quantity:  decimal.NewFromInt(1),
				UnitPrice: product.Price,
				Total:     product.Price,
			}},
			Total: product.Price,
		}

		const creations = 10
		numbers := make(chan string, creations)
		var wg sync.WaitGroup
		for i := 0; i < creations; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				inv, err := svc.Invoice.CreateInvoice(ctx, caller, req)
				if assert.NoError(t, err) {
					numbers <- inv.InvoiceNumber
				}
			}()
		}
		wg.Wait()
		close(numbers)

		year := time.Now().UTC().Year()
		seen := map[string]bool{}
		for n := range numbers {
			assert.False(t, seen[n], "number %s assigned twice", n)
			seen[n] = true
		}
		require.Len(t, seen, creations)
		for i := 1; i <= creations; i++ {
			assert.True(t, seen[fmt.Sprintf("FAC-%d-%04d", year, i)])
		}

		// Preconditions fail before any number is consumed.
		_, err = svc.Invoice.CreateInvoice(ctx, caller, dto.CreateInvoiceRequest{ClientID: client.ClientID})
		require.Error(t, err)
		next, err := svc.Numbering.PeekNextNumber(ctx, owner.UserID, time.Now())
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("FAC-%d-%04d", year, creations+1), next)

		// Deleting the client keeps its invoices.
		require.NoError(t, svc.Client.DeleteClient(ctx, caller, client.ClientID))
		invoices, _, err := svc.Invoice.ListInvoices(ctx, caller, dto.ListInvoicesParams{Limit: 50})
		require.NoError(t, err)
		require.Len(t, invoices, creations)
		for _, inv := range invoices {
			assert.Nil(t, inv.Client)
			assert.Nil(t, inv.ClientID)
		}
	})

	t.Run("number already in use is skipped", func(t *testing.T) {
		ctx := context.Background()
		cfg := &config.Config{
			JWTSecret:             "integration-secret",
			JWTExpiryDuration:     time.Hour,
			JWTIssuer:             "invoicing-test",
			InvoiceNumberTemplate: "FAC-{year}-{num}",
			InvoiceNumberPad:      4,
		}
		svc := services.NewServiceContainer(cfg, repos, nil)

		owner := seedUser(t, repos, "restored@example.com")
		caller := domain.Identity{UserID: owner.UserID, Name: owner.Name, Email: owner.Email, Role: domain.RoleUser}
		client, err := svc.Client.CreateClient(ctx, caller, dto.CreateClientRequest{Name: "Kora SA", Email: "compta@kora.example"})
		require.NoError(t, err)
		product, err := svc.Product.CreateProduct(ctx, caller, dto.CreateProductRequest{Name: "Audit", Price: decimal.NewFromInt(1000)})
		require.NoError(t, err)
		req := dto.CreateInvoiceRequest{
			ClientID: client.ClientID,
			Items: []dto.LineItemRequest{{
				ProductID: product.ProductID,
				Quantity:  decimal.NewFromInt(1),
				UnitPrice: product.Price,
				Total:     product.Price,
			}},
			Total: product.Price,
		}

		first, err := svc.Invoice.CreateInvoice(ctx, caller, req)
		require.NoError(t, err)

		// A counter restored from an older backup lags behind the invoices.
		year := time.Now().UTC().Year()
		scope := domain.YearScope(year)
		before, err := repos.CounterRepo.FindCounter(ctx, scope)
		require.NoError(t, err)
		_, err = pool.Exec(ctx, `UPDATE invoice_counters SET last_number = last_number - 1 WHERE scope = $1`, scope)
		require.NoError(t, err)

		second, err := svc.Invoice.CreateInvoice(ctx, caller, req)
		require.NoError(t, err)
		assert.NotEqual(t, first.InvoiceNumber, second.InvoiceNumber)
		assert.Equal(t, fmt.Sprintf("FAC-%d-%04d", year, before.LastNumber+1), second.InvoiceNumber)

		after, err := repos.CounterRepo.FindCounter(ctx, scope)
		require.NoError(t, err)
		assert.Equal(t, before.LastNumber+1, after.LastNumber)
	})

	t.Run("advancing a counter never moves it backwards", func(t *testing.T) {
		ctx := context.Background()
		require.NoError(t, repos.CounterRepo.AdvancePast(ctx, "year-2032", 5))
		require.NoError(t, repos.CounterRepo.AdvancePast(ctx, "year-2032", 3))

		counter, err := repos.CounterRepo.FindCounter(ctx, "year-2032")
		require.NoError(t, err)
		assert.Equal(t, int64(5), counter.LastNumber)
	})
}
