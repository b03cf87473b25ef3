package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.InvoiceSequencer = (*InvoiceSequencer)(nil)

// InvoiceSequencer contador por (establecimiento, punto de emisión) en invoice_sequences.
// La fila queda bloqueada hasta el fin de la transacción que persiste la factura.
type InvoiceSequencer struct {
	q Querier
}

// NewInvoiceSequencer construye el adaptador.
func NewInvoiceSequencer(q Querier) *InvoiceSequencer {
	return &InvoiceSequencer{q: q}
}

// Next avanza el contador en una sola sentencia. La primera vez parte del mayor
// secuencial existente para el par (datos importados).
func (s *InvoiceSequencer) Next(ctx context.Context, establishment, emissionPoint string) (int64, error) {
	if err := entity.ValidateEmissionCodes(establishment, emissionPoint); err != nil {
		return 0, err
	}
	query := `
		INSERT INTO invoice_sequences (establishment, emission_point, last_sequential)
		VALUES ($1, $2, COALESCE((
			SELECT MAX(sequential) FROM invoices
			WHERE establishment = $1 AND emission_point = $2
		), 0) + 1)
		ON CONFLICT (establishment, emission_point) DO UPDATE
		SET last_sequential = GREATEST(invoice_sequences.last_sequential, EXCLUDED.last_sequential - 1) + 1
		RETURNING last_sequential`
	var next int64
	if err := s.q.QueryRow(ctx, query, establishment, emissionPoint).Scan(&next); err != nil {
		return 0, fmt.Errorf("next invoice sequential: %w", err)
	}
	return next, nil
}
