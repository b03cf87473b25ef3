// Package sri compone y verifica la clave de acceso de las facturas según la
// ficha técnica de comprobantes electrónicos del SRI. Usa los algoritmos de pkg/sri.
package sri

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/pkg/sri"
)

// NonceLength dígitos del código numérico aleatorio.
const NonceLength = 8

// NonceFunc devuelve un código numérico de 8 dígitos.
type NonceFunc func() string

// RandomNonce código numérico en [00000001, 99999999].
func RandomNonce() string {
	n, err := rand.Int(rand.Reader, big.NewInt(99_999_999))
	if err != nil {
		// crypto/rand no falla en plataformas soportadas
		panic(fmt.Sprintf("sri: generar código numérico: %v", err))
	}
	return fmt.Sprintf("%08d", n.Int64()+1)
}

// KeyGenerator compone claves de acceso para un emisor y ambiente fijos.
//
//	ddmmaaaa(8) tipo(2) RUC(13) ambiente(1) establecimiento(3) punto(3)
//	secuencial(9) código numérico(8) tipo emisión(1) + dígito verificador
type KeyGenerator struct {
	emitterRUC   string
	environment  string
	documentType string
	emissionType string
	nonce        NonceFunc
}

// NewKeyGenerator valida el RUC del emisor y el ambiente. nonce nil usa RandomNonce.
func NewKeyGenerator(emitterRUC, environment string, nonce NonceFunc) (*KeyGenerator, error) {
	if !sri.ValidateRUC(emitterRUC) {
		return nil, fmt.Errorf("sri: RUC del emisor inválido %q", emitterRUC)
	}
	if !sri.ValidEnvironments[environment] {
		return nil, fmt.Errorf("sri: ambiente inválido %q (usar %s o %s)", environment, sri.EnvironmentTest, sri.EnvironmentProduction)
	}
	if nonce == nil {
		nonce = RandomNonce
	}
	return &KeyGenerator{
		emitterRUC:   emitterRUC,
		environment:  environment,
		documentType: sri.DocumentTypeInvoice,
		emissionType: sri.EmissionTypeNormal,
		nonce:        nonce,
	}, nil
}

// Generate compone la clave de 49 dígitos para la fecha y el número dados.
func (g *KeyGenerator) Generate(emissionDate time.Time, number entity.InvoiceNumber) (string, error) {
	if number.IsZero() {
		return "", domain.Invalid("number", "la factura no tiene número asignado")
	}
	nonce := g.nonce()
	if len(nonce) != NonceLength {
		return "", fmt.Errorf("sri: código numérico debe tener %d dígitos, se obtuvo %q", NonceLength, nonce)
	}
	base := emissionDate.Format("02012006") +
		g.documentType +
		g.emitterRUC +
		g.environment +
		number.Establishment +
		number.EmissionPoint +
		number.SequentialString() +
		nonce +
		g.emissionType
	check, err := sri.AccessKeyCheckDigit(base)
	if err != nil {
		return "", err
	}
	return base + string(check), nil
}

// VerifyStoredKey re-valida la clave almacenada de una factura.
// Una factura sin clave (aún pendiente) no se considera corrupta.
func VerifyStoredKey(inv *entity.Invoice) error {
	if inv.AccessKey == "" {
		return nil
	}
	if !sri.ValidateAccessKey(inv.AccessKey) {
		return &domain.IntegrityError{InvoiceID: inv.ID, AccessKey: inv.AccessKey}
	}
	return nil
}
