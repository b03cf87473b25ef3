package billing

import (
	"strings"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/pkg/sri"
)

// Tipos de número aceptados por ValidateIdentity.
const (
	IdentityCedula    = "cedula"
	IdentityRUC       = "ruc"
	IdentityAccessKey = "access_key"
)

var identityValidators = map[string]func(string) bool{
	IdentityCedula:    sri.ValidateCedula,
	IdentityRUC:       sri.ValidateRUC,
	IdentityAccessKey: sri.ValidateAccessKey,
}

// ValidateIdentity aplica el dígito verificador del tipo indicado. Un número inválido
// no es error: Valid=false. Solo un tipo desconocido devuelve ValidationError.
func ValidateIdentity(in dto.ValidateIdentityRequest) (*dto.ValidateIdentityResponse, error) {
	kind := strings.ToLower(strings.TrimSpace(in.Kind))
	validate, ok := identityValidators[kind]
	if !ok {
		return nil, domain.Invalid("kind", "debe ser cedula, ruc o access_key")
	}
	number := strings.TrimSpace(in.Number)
	return &dto.ValidateIdentityResponse{Kind: kind, Number: number, Valid: validate(number)}, nil
}
