package memory

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.InvoiceSequencer = (*Sequencer)(nil)

// Sequencer contador por (establecimiento, punto de emisión). La primera asignación
// parte del mayor secuencial ya emitido para ese par.
type Sequencer struct {
	h handle
}

func (s *Sequencer) Next(ctx context.Context, establishment, emissionPoint string) (int64, error) {
	if err := entity.ValidateEmissionCodes(establishment, emissionPoint); err != nil {
		return 0, err
	}
	key := seqKey{establishment: establishment, emissionPoint: emissionPoint}
	var next int64
	err := s.h.do(ctx, func(st *state) error {
		last := st.sequences[key]
		for _, inv := range st.invoices {
			if inv.Number.Establishment == establishment && inv.Number.EmissionPoint == emissionPoint && inv.Number.Sequential > last {
				last = inv.Number.Sequential
			}
		}
		next = last + 1
		st.sequences[key] = next
		return nil
	})
	return next, err
}
