package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Period rango de fechas cerrado [From, To].
type Period struct {
	From time.Time
	To   time.Time
}

// SalesStatistics resumen de ventas del período; montos sobre ventas emitidas.
type SalesStatistics struct {
	TotalSales   int
	EmittedSales int
	Revenue      decimal.Decimal
	Average      decimal.Decimal
	Max          decimal.Decimal
	Min          decimal.Decimal
}

// InvoiceStatistics resumen de facturas del período; montos sobre facturas autorizadas.
type InvoiceStatistics struct {
	TotalInvoices      int
	AuthorizedInvoices int
	Invoiced           decimal.Decimal
	Average            decimal.Decimal
	Max                decimal.Decimal
	Min                decimal.Decimal
}
