// Package sri contiene catálogos y algoritmos de verificación del Servicio de
// Rentas Internas (Ecuador): cédula, RUC y clave de acceso de comprobantes electrónicos.
package sri

// =============================================================================
// Tabla 3 - Tipos de comprobante (Ficha técnica de comprobantes electrónicos)
// =============================================================================

const (
	DocumentTypeInvoice     = "01" // Factura
	DocumentTypeSettlement  = "03" // Liquidación de compra
	DocumentTypeCreditNote  = "04" // Nota de crédito
	DocumentTypeDebitNote   = "05" // Nota de débito
	DocumentTypeWaybill     = "06" // Guía de remisión
	DocumentTypeWithholding = "07" // Comprobante de retención
)

// =============================================================================
// Tabla 4 - Tipo de ambiente
// =============================================================================

const (
	EnvironmentTest       = "1" // Pruebas
	EnvironmentProduction = "2" // Producción
)

// ValidEnvironments ambientes aceptados en la clave de acceso.
var ValidEnvironments = map[string]bool{
	EnvironmentTest:       true,
	EnvironmentProduction: true,
}

// =============================================================================
// Tabla 2 - Tipo de emisión
// =============================================================================

// EmissionTypeNormal es el único tipo de emisión vigente.
const EmissionTypeNormal = "1"

// =============================================================================
// Tabla 6 - Tipo de identificación del comprador
// =============================================================================

const (
	IdentificationTypeRUC      = "04"
	IdentificationTypeCedula   = "05"
	IdentificationTypePassport = "06"
	IdentificationTypeFinal    = "07" // Consumidor final
)
