package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain"
)

// SaleState estados de una venta. Transiciones: draft -> emitted -> cancelled.
type SaleState string

const (
	SaleDraft     SaleState = "draft"     // Borrador: líneas editables, sin impacto en inventario
	SaleEmitted   SaleState = "emitted"   // Emitida: stock reservado, líneas congeladas
	SaleCancelled SaleState = "cancelled" // Anulada: stock devuelto (terminal)
)

const saleEntity = domain.EntitySale

// Sale cabecera de una venta con sus líneas. Total siempre es la suma de los subtotales.
type Sale struct {
	ID          string
	CustomerID  string
	State       SaleState
	Total       decimal.Decimal
	Lines       []SaleLine
	CreatedAt   time.Time
	EmittedAt   *time.Time
	CancelledAt *time.Time
	UpdatedAt   time.Time
}

// NewSale crea una venta en borrador sin líneas.
func NewSale(id, customerID string, now time.Time) *Sale {
	return &Sale{
		ID:         id,
		CustomerID: customerID,
		State:      SaleDraft,
		Total:      decimal.Zero,
		Lines:      []SaleLine{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// IsDraft indica si la venta admite cambios de líneas.
func (s *Sale) IsDraft() bool { return s.State == SaleDraft }

// AddLine agrega una línea al final con el siguiente número correlativo.
func (s *Sale) AddLine(productID string, quantity int, unitPrice decimal.Decimal) error {
	if err := s.requireDraft("modificar detalles"); err != nil {
		return err
	}
	line, err := NewSaleLine(len(s.Lines)+1, productID, quantity, unitPrice)
	if err != nil {
		return err
	}
	s.Lines = append(s.Lines, line)
	s.recalculate()
	return nil
}

// RemoveLine elimina la línea indicada y renumera las restantes desde 1.
func (s *Sale) RemoveLine(lineNumber int) error {
	if err := s.requireDraft("modificar detalles"); err != nil {
		return err
	}
	idx := -1
	for i, l := range s.Lines {
		if l.LineNumber == lineNumber {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.Invalid("line_number", "no existe en la venta")
	}
	s.Lines = append(s.Lines[:idx], s.Lines[idx+1:]...)
	s.renumber()
	s.recalculate()
	return nil
}

// ReplaceLines sustituye todas las líneas; se numeran desde 1 en el orden recibido.
// Si alguna línea es inválida la venta queda sin cambios.
func (s *Sale) ReplaceLines(lines []SaleLine) error {
	if err := s.requireDraft("modificar detalles"); err != nil {
		return err
	}
	next := make([]SaleLine, 0, len(lines))
	for i, l := range lines {
		line, err := NewSaleLine(i+1, l.ProductID, l.Quantity, l.UnitPrice)
		if err != nil {
			return err
		}
		next = append(next, line)
	}
	s.Lines = next
	s.recalculate()
	return nil
}

// CheckEmit valida que la venta pueda emitirse (borrador con al menos una línea).
func (s *Sale) CheckEmit() error {
	if err := s.requireDraft("emitir"); err != nil {
		return err
	}
	if len(s.Lines) == 0 {
		return &domain.StateError{Entity: saleEntity, ID: s.ID, State: string(s.State), Action: "emitir", Cause: domain.ErrEmptySale}
	}
	return nil
}

// MarkEmitted pasa la venta a emitida. El llamador debe haber reservado el stock.
func (s *Sale) MarkEmitted(now time.Time) error {
	if err := s.CheckEmit(); err != nil {
		return err
	}
	s.State = SaleEmitted
	s.EmittedAt = &now
	s.UpdatedAt = now
	return nil
}

// CheckCancel valida que la venta esté emitida. Un borrador se elimina, no se anula;
// una venta ya anulada se rechaza con ErrAlreadyCancelled.
func (s *Sale) CheckCancel() error {
	switch s.State {
	case SaleEmitted:
		return nil
	case SaleCancelled:
		return &domain.StateError{Entity: saleEntity, ID: s.ID, State: string(s.State), Action: "anular", Cause: domain.ErrAlreadyCancelled}
	default:
		return &domain.StateError{Entity: saleEntity, ID: s.ID, State: string(s.State), Action: "anular"}
	}
}

// MarkCancelled pasa la venta a anulada. El llamador debe devolver el stock.
func (s *Sale) MarkCancelled(now time.Time) error {
	if err := s.CheckCancel(); err != nil {
		return err
	}
	s.State = SaleCancelled
	s.CancelledAt = &now
	s.UpdatedAt = now
	return nil
}

// CheckDelete solo los borradores pueden eliminarse (no tienen stock que devolver).
func (s *Sale) CheckDelete() error {
	return s.requireDraft("eliminar")
}

func (s *Sale) requireDraft(action string) error {
	if s.State != SaleDraft {
		return &domain.StateError{Entity: saleEntity, ID: s.ID, State: string(s.State), Action: action}
	}
	return nil
}

func (s *Sale) renumber() {
	for i := range s.Lines {
		s.Lines[i].LineNumber = i + 1
	}
}

func (s *Sale) recalculate() {
	total := decimal.Zero
	for i := range s.Lines {
		s.Lines[i].recalculate()
		total = total.Add(s.Lines[i].Subtotal)
	}
	s.Total = total
}
