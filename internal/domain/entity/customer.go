package entity

import (
	"net/mail"
	"strings"
	"time"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/pkg/sri"
)

// CustomerKind discriminador del cliente.
type CustomerKind string

const (
	CustomerNatural  CustomerKind = "natural"  // Persona natural, identificada con cédula
	CustomerJuridica CustomerKind = "juridica" // Persona jurídica, identificada con RUC
)

// Customer cliente de facturación. Exactamente uno de Natural/Juridica está presente según Kind.
// La validez de Identification no se almacena: se recalcula con Validate cada vez que cambia.
type Customer struct {
	ID             string
	Kind           CustomerKind
	Identification string
	Email          string
	Phone          string
	Address        string
	Natural        *NaturalPerson
	Juridica       *LegalEntity
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NaturalPerson datos de una persona natural.
type NaturalPerson struct {
	FirstName string
	LastName  string
}

// LegalEntity datos de una persona jurídica.
type LegalEntity struct {
	BusinessName        string
	LegalRepresentative string
}

// DisplayName nombre para mostrar según la variante.
func (c *Customer) DisplayName() string {
	switch c.Kind {
	case CustomerNatural:
		if c.Natural == nil {
			return ""
		}
		return strings.TrimSpace(c.Natural.FirstName + " " + c.Natural.LastName)
	case CustomerJuridica:
		if c.Juridica == nil {
			return ""
		}
		return c.Juridica.BusinessName
	default:
		return ""
	}
}

// IdentificationType código SRI del tipo de identificación del comprador.
func (c *Customer) IdentificationType() string {
	switch c.Kind {
	case CustomerNatural:
		return sri.IdentificationTypeCedula
	case CustomerJuridica:
		return sri.IdentificationTypeRUC
	default:
		return ""
	}
}

// Validate valida email, nombres y el documento de identidad de la variante.
func (c *Customer) Validate() error {
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return domain.Invalid("email", "formato inválido")
	}
	switch c.Kind {
	case CustomerNatural:
		if c.Natural == nil || c.Juridica != nil {
			return domain.Invalid("kind", "una persona natural solo lleva nombres y apellidos")
		}
		if strings.TrimSpace(c.Natural.FirstName) == "" || strings.TrimSpace(c.Natural.LastName) == "" {
			return domain.Invalid("name", "nombres y apellidos requeridos")
		}
		if !sri.ValidateCedula(c.Identification) {
			return domain.Invalid("identification", "cédula inválida")
		}
	case CustomerJuridica:
		if c.Juridica == nil || c.Natural != nil {
			return domain.Invalid("kind", "una persona jurídica solo lleva razón social")
		}
		if strings.TrimSpace(c.Juridica.BusinessName) == "" {
			return domain.Invalid("business_name", "razón social requerida")
		}
		if !sri.ValidateRUC(c.Identification) {
			return domain.Invalid("identification", "RUC inválido")
		}
	default:
		return domain.Invalid("kind", "debe ser natural o juridica")
	}
	return nil
}
