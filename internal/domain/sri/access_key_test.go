package sri_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	domainsri "github.com/jhoicas/Facturacion-api/internal/domain/sri"
	pkgsri "github.com/jhoicas/Facturacion-api/pkg/sri"
)

const testRUC = "1790011674001"

func fixedNonce(n string) domainsri.NonceFunc { return func() string { return n } }

func number(t *testing.T, seq int64) entity.InvoiceNumber {
	t.Helper()
	n, err := entity.NewInvoiceNumber("001", "001", seq)
	require.NoError(t, err)
	return n
}

// Vector: 14/10/2026, RUC 1790011674001, pruebas, 001-001-000000001, código 12345678.
func TestKeyGenerator_VectorConocido(t *testing.T) {
	gen, err := domainsri.NewKeyGenerator(testRUC, pkgsri.EnvironmentTest, fixedNonce("12345678"))
	require.NoError(t, err)

	date := time.Date(2026, 10, 14, 15, 4, 5, 0, time.UTC)
	key, err := gen.Generate(date, number(t, 1))
	require.NoError(t, err)

	assert.Equal(t, "1410202601179001167400110010010000000011234567816", key)
	assert.Len(t, key, pkgsri.AccessKeyLength)
	assert.Equal(t, "14102026", key[:8], "la clave comienza con la fecha de emisión")
	assert.Equal(t, "000000001", key[30:39], "el secuencial ocupa las posiciones 30..38")
}

func TestKeyGenerator_SiempreVerificable(t *testing.T) {
	gen, err := domainsri.NewKeyGenerator(testRUC, pkgsri.EnvironmentProduction, nil)
	require.NoError(t, err)
	date := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	for seq := int64(1); seq <= 200; seq++ {
		key, err := gen.Generate(date, number(t, seq))
		require.NoError(t, err)
		assert.True(t, pkgsri.ValidateAccessKey(key), "clave %s debe verificarse", key)
	}
}

func TestKeyGenerator_ConfiguracionInvalida(t *testing.T) {
	_, err := domainsri.NewKeyGenerator("1790011675001", pkgsri.EnvironmentTest, nil)
	assert.Error(t, err, "RUC con verificador incorrecto")
	_, err = domainsri.NewKeyGenerator(testRUC, "3", nil)
	assert.Error(t, err, "ambiente desconocido")
}

func TestKeyGenerator_SinNumero(t *testing.T) {
	gen, err := domainsri.NewKeyGenerator(testRUC, pkgsri.EnvironmentTest, nil)
	require.NoError(t, err)
	_, err = gen.Generate(time.Now(), entity.InvoiceNumber{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRandomNonce_OchoDigitos(t *testing.T) {
	for i := 0; i < 100; i++ {
		n := domainsri.RandomNonce()
		require.Len(t, n, domainsri.NonceLength)
		assert.NotEqual(t, "00000000", n)
		var v int
		_, err := fmt.Sscanf(n, "%d", &v)
		require.NoError(t, err)
	}
}

func TestVerifyStoredKey(t *testing.T) {
	inv := &entity.Invoice{ID: "f-1"}
	assert.NoError(t, domainsri.VerifyStoredKey(inv), "sin clave no hay corrupción")

	inv.AccessKey = "1410202601179001167400110010010000000011234567816"
	assert.NoError(t, domainsri.VerifyStoredKey(inv))

	inv.AccessKey = "1410202601179001167400110010010000000011234567817"
	err := domainsri.VerifyStoredKey(inv)
	var ierr *domain.IntegrityError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, "f-1", ierr.InvoiceID)
	assert.ErrorIs(t, err, domain.ErrIntegrity)
}
