package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/pkg/sri"
)

func naturalCustomer(cedula string) *entity.Customer {
	return &entity.Customer{
		Kind:           entity.CustomerNatural,
		Identification: cedula,
		Email:          "ana@example.com",
		Natural:        &entity.NaturalPerson{FirstName: "Ana", LastName: "Pérez"},
	}
}

func juridicaCustomer(ruc string) *entity.Customer {
	return &entity.Customer{
		Kind:           entity.CustomerJuridica,
		Identification: ruc,
		Email:          "facturas@acme.ec",
		Juridica:       &entity.LegalEntity{BusinessName: "ACME S.A."},
	}
}

func TestCustomer_NaturalValidaCedula(t *testing.T) {
	assert.NoError(t, naturalCustomer("1710034065").Validate())
	assert.ErrorIs(t, naturalCustomer("1710034064").Validate(), domain.ErrInvalidInput)
	assert.ErrorIs(t, naturalCustomer("1710034065001").Validate(), domain.ErrInvalidInput, "persona natural usa cédula")
}

func TestCustomer_JuridicaValidaRUC(t *testing.T) {
	assert.NoError(t, juridicaCustomer("1790011674001").Validate())
	assert.NoError(t, juridicaCustomer("1760001550001").Validate())
	assert.ErrorIs(t, juridicaCustomer("1790011675001").Validate(), domain.ErrInvalidInput)
}

func TestCustomer_RevalidaAlCambiarIdentificacion(t *testing.T) {
	c := naturalCustomer("1710034065")
	assert.NoError(t, c.Validate())
	c.Identification = "1710034066"
	assert.Error(t, c.Validate())
}

func TestCustomer_VarianteInconsistente(t *testing.T) {
	c := naturalCustomer("1710034065")
	c.Juridica = &entity.LegalEntity{BusinessName: "X"}
	assert.ErrorIs(t, c.Validate(), domain.ErrInvalidInput)

	c = naturalCustomer("1710034065")
	c.Kind = "otro"
	assert.ErrorIs(t, c.Validate(), domain.ErrInvalidInput)
}

func TestCustomer_EmailYNombres(t *testing.T) {
	c := naturalCustomer("1710034065")
	c.Email = "no-es-email"
	assert.ErrorIs(t, c.Validate(), domain.ErrInvalidInput)

	c = juridicaCustomer("1790011674001")
	c.Juridica.BusinessName = "  "
	assert.ErrorIs(t, c.Validate(), domain.ErrInvalidInput)
}

func TestCustomer_DisplayNameYTipo(t *testing.T) {
	n := naturalCustomer("1710034065")
	assert.Equal(t, "Ana Pérez", n.DisplayName())
	assert.Equal(t, sri.IdentificationTypeCedula, n.IdentificationType())

	j := juridicaCustomer("1790011674001")
	assert.Equal(t, "ACME S.A.", j.DisplayName())
	assert.Equal(t, sri.IdentificationTypeRUC, j.IdentificationType())
}

func TestProduct_Variantes(t *testing.T) {
	physical := &entity.Product{Code: "P-3", Name: "Teclado", Price: price("10"), Kind: entity.ProductPhysical,
		Physical: &entity.PhysicalProduct{Stock: 4}}
	assert.NoError(t, physical.Validate())
	assert.True(t, physical.TracksInventory())
	assert.Equal(t, 4, physical.Stock())

	digital := &entity.Product{Code: "D-1", Name: "Licencia", Price: price("99"), Kind: entity.ProductDigital,
		Digital: &entity.DigitalProduct{DownloadURL: "https://descargas.example.com/x"}}
	assert.NoError(t, digital.Validate())
	assert.False(t, digital.TracksInventory())
	assert.Equal(t, 0, digital.Stock())

	digital.Digital.DownloadURL = "no es url"
	assert.ErrorIs(t, digital.Validate(), domain.ErrInvalidInput)

	physical.Physical.Stock = -1
	assert.ErrorIs(t, physical.Validate(), domain.ErrInvalidInput)
}
