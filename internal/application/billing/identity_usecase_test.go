package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
)

func TestValidateIdentity(t *testing.T) {
	cases := []struct {
		kind, number string
		valid        bool
	}{
		{"cedula", "1710034065", true},
		{"cedula", "1710034064", false},
		{"RUC", " 1790011674001 ", true},
		{"ruc", "1790011675001", false},
		{"access_key", "1410202601179001167400110010010000000011234567816", true},
		{"access_key", "1410202601179001167400110010010000000011234567810", false},
	}
	for _, tc := range cases {
		out, err := billing.ValidateIdentity(dto.ValidateIdentityRequest{Kind: tc.kind, Number: tc.number})
		require.NoError(t, err, tc.number)
		assert.Equal(t, tc.valid, out.Valid, "%s %s", tc.kind, tc.number)
	}
}

func TestValidateIdentity_TipoDesconocido(t *testing.T) {
	_, err := billing.ValidateIdentity(dto.ValidateIdentityRequest{Kind: "pasaporte", Number: "X123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
