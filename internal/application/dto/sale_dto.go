package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSaleRequest entrada para abrir una venta en borrador.
type CreateSaleRequest struct {
	CustomerID string `json:"customer_id"`
}

// SaleLineRequest línea de venta. Si UnitPrice es nil se usa el precio del producto.
type SaleLineRequest struct {
	ProductID string           `json:"product_id"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// ReplaceLinesRequest reemplazo completo de las líneas de una venta.
type ReplaceLinesRequest struct {
	Lines []SaleLineRequest `json:"lines"`
}

// SaleLineResponse salida de una línea.
type SaleLineResponse struct {
	LineNumber int             `json:"line_number"`
	ProductID  string          `json:"product_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// SaleResponse salida de una venta con sus líneas.
type SaleResponse struct {
	ID          string             `json:"id"`
	CustomerID  string             `json:"customer_id"`
	State       string             `json:"state"`
	Total       decimal.Decimal    `json:"total"`
	Lines       []SaleLineResponse `json:"lines"`
	CreatedAt   time.Time          `json:"created_at"`
	EmittedAt   *time.Time         `json:"emitted_at,omitempty"`
	CancelledAt *time.Time         `json:"cancelled_at,omitempty"`
}

// SaleListResponse ventas de un cliente.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Limit int            `json:"limit"`
}

// SalesStatisticsResponse agregados de ventas emitidas en un período.
type SalesStatisticsResponse struct {
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
	TotalSales   int             `json:"total_sales"`
	EmittedSales int             `json:"emitted_sales"`
	Revenue      decimal.Decimal `json:"revenue"`
	Average      decimal.Decimal `json:"average"`
	Max          decimal.Decimal `json:"max"`
	Min          decimal.Decimal `json:"min"`
}
