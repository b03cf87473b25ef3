//go:build integration

package postgres_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/application/sales"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Facturacion-api/pkg/config"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

var now = time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)

func setupDB(t *testing.T) (*pgxpool.Pool, *postgres.TxRunner) {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("facturacion_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	m, err := postgres.NewMigrator(dsn, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	v, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), v)
	assert.False(t, dirty)
	require.NoError(t, m.Close())

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 10})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool, postgres.NewTxRunner(pool)
}

func seed(t *testing.T, tx *postgres.TxRunner, stock int) (customerID, productID string) {
	t.Helper()
	customerID, productID = uuid.NewString(), uuid.NewString()
	err := tx.Run(context.Background(), func(r repository.Repos) error {
		if err := r.Customers.Create(context.Background(), &entity.Customer{
			ID: customerID, Kind: entity.CustomerNatural, Identification: "1710034065",
			Email: "ana@example.com", Natural: &entity.NaturalPerson{FirstName: "Ana", LastName: "Pérez"},
			CreatedAt: now, UpdatedAt: now,
		}); err != nil {
			return err
		}
		return r.Products.Create(context.Background(), &entity.Product{
			ID: productID, Code: "P-3", Name: "Teclado", Price: decimal.RequireFromString("10.00"),
			Kind: entity.ProductPhysical, Physical: &entity.PhysicalProduct{Stock: stock},
			CreatedAt: now, UpdatedAt: now,
		})
	})
	require.NoError(t, err)
	return customerID, productID
}

func seedProduct(t *testing.T, tx *postgres.TxRunner, code string, stock int) string {
	t.Helper()
	id := uuid.NewString()
	err := tx.Run(context.Background(), func(r repository.Repos) error {
		return r.Products.Create(context.Background(), &entity.Product{
			ID: id, Code: code, Name: code, Price: decimal.RequireFromString("25.00"),
			Kind: entity.ProductPhysical, Physical: &entity.PhysicalProduct{Stock: stock},
			CreatedAt: now, UpdatedAt: now,
		})
	})
	require.NoError(t, err)
	return id
}

// Ventas con los mismos productos en orden inverso se emiten a la vez sin interbloqueo.
func TestIntegration_EmisionConcurrenteOrdenInverso(t *testing.T) {
	pool, tx := setupDB(t)
	customerID, p1 := seed(t, tx, 100)
	p2 := seedProduct(t, tx, "P-5", 100)
	ctx := context.Background()
	uc := sales.NewSaleUseCase(tx, logger.Nop())

	draft := func(products ...string) string {
		sale, err := uc.CreateSale(ctx, dto.CreateSaleRequest{CustomerID: customerID})
		require.NoError(t, err)
		for _, id := range products {
			_, err = uc.AddLine(ctx, sale.ID, dto.SaleLineRequest{ProductID: id, Quantity: 1})
			require.NoError(t, err)
		}
		return sale.ID
	}

	const rounds = 20
	for i := 0; i < rounds; i++ {
		a, b := draft(p1, p2), draft(p2, p1)
		var g errgroup.Group
		for _, id := range []string{a, b} {
			g.Go(func() error {
				_, err := uc.EmitSale(ctx, id)
				return err
			})
		}
		require.NoError(t, g.Wait(), "ronda %d", i)
	}

	ledger := postgres.NewStockLedger(pool)
	for _, id := range []string{p1, p2} {
		stock, err := ledger.Available(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 100-2*rounds, stock)
	}
}

func TestIntegration_ReservaConcurrenteNoSobrevende(t *testing.T) {
	pool, tx := setupDB(t)
	_, productID := seed(t, tx, 5)
	ctx := context.Background()

	var ok, rejected int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := tx.Run(ctx, func(r repository.Repos) error {
				return r.Ledger.Reserve(ctx, productID, 1)
			})
			if err == nil {
				atomic.AddInt32(&ok, 1)
			} else if assert.ErrorIs(t, err, domain.ErrInsufficientStock) {
				atomic.AddInt32(&rejected, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(5), ok)
	assert.Equal(t, int32(3), rejected)
	stock, err := postgres.NewStockLedger(pool).Available(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 0, stock)
}

func TestIntegration_RollbackDescartaCambios(t *testing.T) {
	pool, tx := setupDB(t)
	_, productID := seed(t, tx, 5)
	ctx := context.Background()

	err := tx.Run(ctx, func(r repository.Repos) error {
		require.NoError(t, r.Ledger.Reserve(ctx, productID, 2))
		return r.Ledger.Reserve(ctx, productID, 10)
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	stock, err := postgres.NewStockLedger(pool).Available(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 5, stock, "la primera reserva se revierte con la transacción")
}

func TestIntegration_VentaFacturaYSecuencial(t *testing.T) {
	pool, tx := setupDB(t)
	customerID, productID := seed(t, tx, 5)
	ctx := context.Background()

	sale := entity.NewSale(uuid.NewString(), customerID, now)
	require.NoError(t, sale.AddLine(productID, 2, decimal.RequireFromString("10.00")))
	require.NoError(t, sale.MarkEmitted(now))
	repos := postgres.NewRepos(pool)
	require.NoError(t, repos.Sales.Create(ctx, sale))

	got, err := repos.Sales.GetByID(ctx, sale.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.True(t, got.Total.Equal(decimal.RequireFromString("20.00")))
	assert.Equal(t, entity.SaleEmitted, got.State)

	var first *entity.Invoice
	err = tx.Run(ctx, func(r repository.Repos) error {
		seq, err := r.Sequencer.Next(ctx, "001", "001")
		if err != nil {
			return err
		}
		n, err := entity.NewInvoiceNumber("001", "001", seq)
		if err != nil {
			return err
		}
		first = entity.NewInvoice(uuid.NewString(), sale.ID, n, now)
		return r.Invoices.Create(ctx, first)
	})
	require.NoError(t, err)
	assert.Equal(t, "001-001-000000001", first.Number.String())

	dup := entity.NewInvoice(uuid.NewString(), sale.ID, entity.InvoiceNumber{Establishment: "001", EmissionPoint: "001", Sequential: 2}, now)
	err = repos.Invoices.Create(ctx, dup)
	var derr *domain.DuplicateInvoiceError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, sale.ID, derr.SaleID)

	byNumber, err := repos.Invoices.GetByNumber(ctx, "001-001-000000001")
	require.NoError(t, err)
	require.NotNil(t, byNumber)
	assert.Equal(t, first.ID, byNumber.ID)
	assert.Empty(t, byNumber.AccessKey)

	var payloadIsNull bool
	require.NoError(t, pool.QueryRow(ctx, `SELECT authorization_payload IS NULL FROM invoices WHERE id = $1`, first.ID).Scan(&payloadIsNull))
	assert.True(t, payloadIsNull, "sin autorización la columna queda en NULL")

	require.NoError(t, first.MarkEmitted(now, "1410202601179001167400110010010000000011234567816"))
	require.NoError(t, first.MarkAuthorized(now, "<autorizacion/>"))
	require.NoError(t, repos.Invoices.Update(ctx, first))
	authorized, err := repos.Invoices.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "<autorizacion/>", authorized.AuthorizationPayload)
	assert.Empty(t, authorized.AuthorizationNumber)

	next, err := repos.Sequencer.Next(ctx, "001", "001")
	require.NoError(t, err)
	assert.Equal(t, int64(2), next)

	missing, err := repos.Invoices.GetByAccessKey(ctx, "1410202601179001167400110010010000000011234567817")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
