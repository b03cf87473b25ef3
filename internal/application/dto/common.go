package dto

import (
	"time"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// PageRequest límite para listados.
type PageRequest struct {
	Limit int `query:"limit"`
}

// DefaultPage aplica el valor por defecto si Limit es cero o excede el máximo.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
}

// PeriodQuery rango de fechas (RFC 3339) para estadísticas; ambos extremos incluidos.
type PeriodQuery struct {
	From time.Time `query:"from"`
	To   time.Time `query:"to"`
}

// Period valida el rango y lo convierte al tipo de dominio.
func (q PeriodQuery) Period() (entity.Period, error) {
	if q.From.IsZero() || q.To.IsZero() {
		return entity.Period{}, domain.Invalid("period", "from y to son obligatorios")
	}
	if q.To.Before(q.From) {
		return entity.Period{}, domain.Invalid("period", "to es anterior a from")
	}
	return entity.Period{From: q.From, To: q.To}, nil
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	ProductID string `json:"product_id,omitempty"`
	SaleID    string `json:"sale_id,omitempty"`
}
