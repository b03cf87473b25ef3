package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest entrada para facturar una venta emitida.
type CreateInvoiceRequest struct {
	SaleID string `json:"sale_id"`
}

// AuthorizeInvoiceRequest respuesta de autorización del SRI (XML tal como se recibió).
type AuthorizeInvoiceRequest struct {
	Payload string `json:"payload"`
}

// InvoiceResponse salida de una factura.
type InvoiceResponse struct {
	ID                  string     `json:"id"`
	SaleID              string     `json:"sale_id"`
	Number              string     `json:"number"`
	AccessKey           string     `json:"access_key,omitempty"`
	State               string     `json:"state"`
	EmissionDate        time.Time  `json:"emission_date"`
	AuthorizationNumber string     `json:"authorization_number,omitempty"`
	AuthorizedAt        *time.Time `json:"authorized_at,omitempty"`
	CancelledAt         *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

// EmitInvoiceResponse número y clave de acceso resultantes de emitir.
type EmitInvoiceResponse struct {
	InvoiceID string `json:"invoice_id"`
	Number    string `json:"number"`
	AccessKey string `json:"access_key"`
}

// VerifyAccessKeyResponse resultado de re-validar la clave almacenada.
type VerifyAccessKeyResponse struct {
	InvoiceID string `json:"invoice_id"`
	AccessKey string `json:"access_key"`
	Valid     bool   `json:"valid"`
}

// InvoiceStatisticsResponse agregados de facturas autorizadas en un período.
type InvoiceStatisticsResponse struct {
	From               time.Time       `json:"from"`
	To                 time.Time       `json:"to"`
	TotalInvoices      int             `json:"total_invoices"`
	AuthorizedInvoices int             `json:"authorized_invoices"`
	Invoiced           decimal.Decimal `json:"invoiced"`
	Average            decimal.Decimal `json:"average"`
	Max                decimal.Decimal `json:"max"`
	Min                decimal.Decimal `json:"min"`
}
