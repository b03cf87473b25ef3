package entity

import (
	"strings"
	"time"

	"github.com/jhoicas/Facturacion-api/internal/domain"
)

// InvoiceState estados de una factura.
// pending -> emitted -> authorized; cualquier estado no anulado -> cancelled (terminal).
type InvoiceState string

const (
	InvoicePending    InvoiceState = "pending"    // Creada con número reservado
	InvoiceEmitted    InvoiceState = "emitted"    // Clave de acceso generada
	InvoiceAuthorized InvoiceState = "authorized" // Autorización del SRI almacenada
	InvoiceCancelled  InvoiceState = "cancelled"  // Anulada
)

const invoiceEntity = domain.EntityInvoice

// Invoice comprobante de venta ligado 1:1 a una venta.
type Invoice struct {
	ID                   string
	SaleID               string
	Number               InvoiceNumber
	AccessKey            string // 49 dígitos; vacío hasta la emisión
	State                InvoiceState
	EmissionDate         time.Time
	AuthorizationPayload string // opaco, almacenado tal cual
	AuthorizationNumber  string
	AuthorizedAt         *time.Time
	CancelledAt          *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NewInvoice crea una factura pendiente con su número ya asignado.
func NewInvoice(id, saleID string, number InvoiceNumber, now time.Time) *Invoice {
	return &Invoice{
		ID:           id,
		SaleID:       saleID,
		Number:       number,
		State:        InvoicePending,
		EmissionDate: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// AssignNumber solo se permite mientras la factura está pendiente.
func (inv *Invoice) AssignNumber(n InvoiceNumber) error {
	if inv.State != InvoicePending {
		return &domain.StateError{Entity: invoiceEntity, ID: inv.ID, State: string(inv.State), Action: "cambiar el número"}
	}
	inv.Number = n
	return nil
}

// CheckEmit solo una factura pendiente puede emitirse.
func (inv *Invoice) CheckEmit() error {
	if inv.State != InvoicePending {
		return &domain.StateError{Entity: invoiceEntity, ID: inv.ID, State: string(inv.State), Action: "emitir"}
	}
	return nil
}

// NeedsAccessKey indica si la emisión debe generar la clave.
func (inv *Invoice) NeedsAccessKey() bool { return inv.AccessKey == "" }

// MarkEmitted registra la emisión: fecha de emisión = now y clave (si aún no existía).
func (inv *Invoice) MarkEmitted(now time.Time, accessKey string) error {
	if err := inv.CheckEmit(); err != nil {
		return err
	}
	if inv.Number.IsZero() {
		return domain.Invalid("number", "la factura no tiene número asignado")
	}
	if inv.AccessKey == "" {
		inv.AccessKey = accessKey
	}
	inv.State = InvoiceEmitted
	inv.EmissionDate = now
	inv.UpdatedAt = now
	return nil
}

// MarkAuthorized almacena el payload de autorización sin interpretarlo.
// El estado se valida antes que el payload.
func (inv *Invoice) MarkAuthorized(now time.Time, payload string) error {
	if inv.State != InvoiceEmitted {
		return &domain.StateError{Entity: invoiceEntity, ID: inv.ID, State: string(inv.State), Action: "autorizar"}
	}
	if strings.TrimSpace(payload) == "" {
		return domain.Invalid("authorization_payload", "requerido")
	}
	inv.State = InvoiceAuthorized
	inv.AuthorizationPayload = payload
	inv.AuthorizedAt = &now
	inv.UpdatedAt = now
	return nil
}

// MarkCancelled anula la factura; una segunda anulación devuelve ErrAlreadyCancelled.
func (inv *Invoice) MarkCancelled(now time.Time) error {
	if inv.State == InvoiceCancelled {
		return &domain.StateError{Entity: invoiceEntity, ID: inv.ID, State: string(inv.State), Action: "anular", Cause: domain.ErrAlreadyCancelled}
	}
	inv.State = InvoiceCancelled
	inv.CancelledAt = &now
	inv.UpdatedAt = now
	return nil
}
