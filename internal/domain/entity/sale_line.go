package entity

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain"
)

// SaleLine línea de detalle de una venta. Subtotal = Quantity × UnitPrice.
type SaleLine struct {
	LineNumber int
	ProductID  string
	Quantity   int
	UnitPrice  decimal.Decimal
	Subtotal   decimal.Decimal
}

// NewSaleLine valida y construye una línea con su subtotal.
func NewSaleLine(lineNumber int, productID string, quantity int, unitPrice decimal.Decimal) (SaleLine, error) {
	if lineNumber <= 0 {
		return SaleLine{}, domain.Invalid("line_number", "debe ser mayor a cero")
	}
	if strings.TrimSpace(productID) == "" {
		return SaleLine{}, domain.Invalid("product_id", "requerido")
	}
	if quantity <= 0 {
		return SaleLine{}, domain.Invalid("quantity", "debe ser mayor a cero")
	}
	if unitPrice.IsNegative() {
		return SaleLine{}, domain.Invalid("unit_price", "no puede ser negativo")
	}
	l := SaleLine{
		LineNumber: lineNumber,
		ProductID:  productID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
	}
	l.recalculate()
	return l, nil
}

func (l *SaleLine) recalculate() {
	l.Subtotal = l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
