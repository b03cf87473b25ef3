package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrSaleNotFound      = errors.New("venta no encontrada")
	ErrInvoiceNotFound   = errors.New("factura no encontrada")
	ErrProductNotFound   = errors.New("producto no encontrado")
	ErrCustomerNotFound  = errors.New("cliente no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	ErrAlreadyCancelled  = errors.New("el documento ya está anulado")
	ErrEmptySale         = errors.New("la venta no tiene detalles")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrDuplicateInvoice  = errors.New("ya existe una factura para esta venta")
	ErrIntegrity         = errors.New("inconsistencia de datos almacenados")
)

// ValidationError indica datos de entrada mal formados. Se rechaza antes de cualquier cambio de estado.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidInput, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", ErrInvalidInput, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid construye un ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Entidades que nombra un StateError.
const (
	EntitySale    = "venta"
	EntityInvoice = "factura"
)

// StateError indica una transición ilegal; State es el estado actual de la entidad.
// Cause distingue casos concretos (ErrAlreadyCancelled, ErrEmptySale); si es nil
// el error se compara como ErrInvalidTransition.
type StateError struct {
	Entity string // EntitySale | EntityInvoice
	ID     string
	State  string
	Action string
	Cause  error
}

func (e *StateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %s: no se puede %s en estado %s: %s", e.Entity, e.ID, e.Action, e.State, e.Cause)
	}
	return fmt.Sprintf("%s %s: no se puede %s en estado %s", e.Entity, e.ID, e.Action, e.State)
}

// Is permite errors.Is(err, ErrInvalidTransition) para cualquier StateError.
func (e *StateError) Is(target error) bool {
	return target == ErrInvalidTransition
}

func (e *StateError) Unwrap() error { return e.Cause }

// InsufficientStockError identifica el producto que no pudo reservarse.
type InsufficientStockError struct {
	ProductID string
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: producto %s (solicitado %d)", ErrInsufficientStock, e.ProductID, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// DuplicateInvoiceError identifica la venta que ya tiene factura.
type DuplicateInvoiceError struct {
	SaleID    string
	InvoiceID string // vacío si el conflicto vino de la restricción única
}

func (e *DuplicateInvoiceError) Error() string {
	if e.InvoiceID == "" {
		return fmt.Sprintf("%s: venta %s", ErrDuplicateInvoice, e.SaleID)
	}
	return fmt.Sprintf("%s: venta %s (factura %s)", ErrDuplicateInvoice, e.SaleID, e.InvoiceID)
}

func (e *DuplicateInvoiceError) Unwrap() error { return ErrDuplicateInvoice }

// NotFoundError envuelve uno de los Err*NotFound con el ID buscado.
type NotFoundError struct {
	Kind error
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.ID)
}

// Is hace que un NotFoundError también coincida con ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func (e *NotFoundError) Unwrap() error { return e.Kind }

// NotFound construye un NotFoundError para el centinela dado.
func NotFound(kind error, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// IntegrityError indica que una clave de acceso almacenada no cumple su dígito verificador.
// Nunca se repara automáticamente.
type IntegrityError struct {
	InvoiceID string
	AccessKey string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s: clave de acceso de la factura %s no supera la verificación módulo 11", ErrIntegrity, e.InvoiceID)
}

func (e *IntegrityError) Unwrap() error { return ErrIntegrity }
