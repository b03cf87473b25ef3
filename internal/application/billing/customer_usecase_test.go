package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/memory"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
	"github.com/jhoicas/Facturacion-api/pkg/sri"
)

func TestCustomerUseCase_Create(t *testing.T) {
	ctx := context.Background()
	uc := billing.NewCustomerUseCase(memory.NewStore().Repos().Customers, logger.Nop())

	natural, err := uc.Create(ctx, dto.CreateCustomerRequest{
		Kind: "natural", Identification: "1710034065", FirstName: "Ana", LastName: "Pérez", Email: "ana@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, sri.IdentificationTypeCedula, natural.IdentificationType)
	assert.Equal(t, "Ana Pérez", natural.DisplayName)

	juridica, err := uc.Create(ctx, dto.CreateCustomerRequest{
		Kind: "juridica", Identification: "0990018685001", BusinessName: "ACME S.A.", Email: "facturas@acme.ec",
	})
	require.NoError(t, err)
	assert.Equal(t, sri.IdentificationTypeRUC, juridica.IdentificationType)

	got, err := uc.Get(ctx, natural.ID)
	require.NoError(t, err)
	assert.Equal(t, "1710034065", got.Identification)
}

func TestCustomerUseCase_Rechazos(t *testing.T) {
	ctx := context.Background()
	uc := billing.NewCustomerUseCase(memory.NewStore().Repos().Customers, logger.Nop())

	_, err := uc.Create(ctx, dto.CreateCustomerRequest{Kind: "natural", Identification: "1710034064", FirstName: "A", LastName: "B", Email: "a@b.ec"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "dígito verificador incorrecto")
	_, err = uc.Create(ctx, dto.CreateCustomerRequest{Kind: "juridica", Identification: "1790011675001", BusinessName: "X", Email: "a@b.ec"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, dto.CreateCustomerRequest{Kind: "empresa", Identification: "1790011674001", Email: "a@b.ec"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in := dto.CreateCustomerRequest{Kind: "natural", Identification: "0926687856", FirstName: "Luis", LastName: "Mora", Email: "luis@example.com"}
	_, err = uc.Create(ctx, in)
	require.NoError(t, err)
	_, err = uc.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Get(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}
