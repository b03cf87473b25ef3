package entity

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/jhoicas/Facturacion-api/internal/domain"
)

// MaxSequential mayor secuencial representable en 9 dígitos.
const MaxSequential = 999_999_999

var (
	invoiceNumberPattern = regexp.MustCompile(`^([0-9]{3})-([0-9]{3})-([0-9]{9})$`)
	emissionCodePattern  = regexp.MustCompile(`^[0-9]{3}$`)
)

// InvoiceNumber número de factura EEE-PPP-SSSSSSSSS: establecimiento, punto de emisión y secuencial.
type InvoiceNumber struct {
	Establishment string
	EmissionPoint string
	Sequential    int64
}

// NewInvoiceNumber valida los códigos de 3 dígitos y el rango del secuencial.
func NewInvoiceNumber(establishment, emissionPoint string, sequential int64) (InvoiceNumber, error) {
	if err := ValidateEmissionCodes(establishment, emissionPoint); err != nil {
		return InvoiceNumber{}, err
	}
	if sequential < 1 || sequential > MaxSequential {
		return InvoiceNumber{}, domain.Invalid("sequential", fmt.Sprintf("fuera de rango (1..%d)", MaxSequential))
	}
	return InvoiceNumber{Establishment: establishment, EmissionPoint: emissionPoint, Sequential: sequential}, nil
}

// ParseInvoiceNumber interpreta un número con formato EEE-PPP-SSSSSSSSS.
func ParseInvoiceNumber(s string) (InvoiceNumber, error) {
	m := invoiceNumberPattern.FindStringSubmatch(s)
	if m == nil {
		return InvoiceNumber{}, domain.Invalid("number", "formato esperado EEE-PPP-SSSSSSSSS")
	}
	seq, err := strconv.ParseInt(m[3], 10, 64)
	if err != nil {
		return InvoiceNumber{}, domain.Invalid("number", "secuencial inválido")
	}
	return NewInvoiceNumber(m[1], m[2], seq)
}

// ValidateEmissionCodes exige códigos de establecimiento y punto de emisión de 3 dígitos.
func ValidateEmissionCodes(establishment, emissionPoint string) error {
	if !emissionCodePattern.MatchString(establishment) {
		return domain.Invalid("establishment", "debe tener 3 dígitos")
	}
	if !emissionCodePattern.MatchString(emissionPoint) {
		return domain.Invalid("emission_point", "debe tener 3 dígitos")
	}
	return nil
}

// IsZero indica que aún no se asignó número.
func (n InvoiceNumber) IsZero() bool { return n.Sequential == 0 }

// SequentialString secuencial con 9 dígitos (ceros a la izquierda).
func (n InvoiceNumber) SequentialString() string {
	return fmt.Sprintf("%09d", n.Sequential)
}

func (n InvoiceNumber) String() string {
	if n.IsZero() {
		return ""
	}
	return n.Establishment + "-" + n.EmissionPoint + "-" + n.SequentialString()
}
