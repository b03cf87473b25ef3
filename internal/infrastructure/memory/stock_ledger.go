package memory

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.StockLedger = (*StockLedger)(nil)

// StockLedger comprueba y descuenta bajo el lock del store (equivalente a
// UPDATE ... WHERE stock >= n).
type StockLedger struct {
	h handle
}

func (l *StockLedger) Reserve(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return domain.Invalid("quantity", "debe ser mayor a cero")
	}
	return l.h.do(ctx, func(st *state) error {
		p, ok := st.products[productID]
		if !ok || p.Physical == nil || p.Physical.Stock < quantity {
			return &domain.InsufficientStockError{ProductID: productID, Requested: quantity}
		}
		p = copyProduct(p)
		p.Physical.Stock -= quantity
		st.products[productID] = p
		return nil
	})
}

func (l *StockLedger) Release(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return domain.Invalid("quantity", "debe ser mayor a cero")
	}
	return l.h.do(ctx, func(st *state) error {
		p, ok := st.products[productID]
		if !ok || p.Physical == nil {
			return nil
		}
		p = copyProduct(p)
		p.Physical.Stock += quantity
		st.products[productID] = p
		return nil
	})
}

func (l *StockLedger) Available(ctx context.Context, productID string) (int, error) {
	var n int
	err := l.h.do(ctx, func(st *state) error {
		p, ok := st.products[productID]
		if !ok {
			return domain.NotFound(domain.ErrProductNotFound, productID)
		}
		n = p.Stock()
		return nil
	})
	return n, err
}
