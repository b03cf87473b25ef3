package catalog_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/application/catalog"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/memory"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

func newUseCase() *catalog.ProductUseCase {
	store := memory.NewStore()
	return catalog.NewProductUseCase(store.Repos().Products, store.Repos().Ledger, logger.Nop())
}

func TestProductUseCase_CreateGet(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase()

	p, err := uc.Create(ctx, dto.CreateProductRequest{Code: "P-1", Name: "Teclado", Kind: "physical", Price: decimal.NewFromInt(10), Stock: 7})
	require.NoError(t, err)
	assert.Equal(t, 7, p.Stock)

	got, err := uc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "P-1", got.Code)

	d, err := uc.Create(ctx, dto.CreateProductRequest{Code: "D-1", Name: "Licencia", Kind: "digital", Price: decimal.NewFromInt(99), LicenseKey: "K"})
	require.NoError(t, err)
	assert.Equal(t, 0, d.Stock)
	assert.Equal(t, "K", d.LicenseKey)

	_, err = uc.Get(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProductUseCase_Validaciones(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase()

	_, err := uc.Create(ctx, dto.CreateProductRequest{Code: "P-1", Name: "X", Kind: "physical", Stock: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, dto.CreateProductRequest{Code: "D-1", Name: "X", Kind: "digital", Stock: 3})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, dto.CreateProductRequest{Code: "X-1", Name: "X", Kind: "servicio"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Code: "P-2", Name: "X", Kind: "physical"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateProductRequest{Code: "P-2", Name: "Y", Kind: "physical"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductUseCase_Stock(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase()

	p, err := uc.Create(ctx, dto.CreateProductRequest{Code: "P-1", Name: "Teclado", Kind: "physical", Price: decimal.NewFromInt(10), Stock: 7})
	require.NoError(t, err)
	st, err := uc.Stock(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.StockResponse{ProductID: p.ID, Available: 7, Tracked: true}, *st)

	d, err := uc.Create(ctx, dto.CreateProductRequest{Code: "D-1", Name: "Licencia", Kind: "digital", Price: decimal.NewFromInt(99), LicenseKey: "K"})
	require.NoError(t, err)
	st, err = uc.Stock(ctx, d.ID)
	require.NoError(t, err)
	assert.False(t, st.Tracked)
	assert.Equal(t, 0, st.Available)

	_, err = uc.Stock(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
