package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.StockLedger = (*StockLedger)(nil)

// StockLedger stock de productos físicos sobre la columna products.stock.
// La reserva es un único UPDATE condicional; el CHECK (stock >= 0) de la tabla
// impide valores negativos aunque otro código escriba la columna.
type StockLedger struct {
	q Querier
}

// NewStockLedger construye el adaptador.
func NewStockLedger(q Querier) *StockLedger {
	return &StockLedger{q: q}
}

// Reserve descuenta quantity si hay stock suficiente. Cero filas afectadas significa
// stock insuficiente, producto inexistente o producto digital.
func (l *StockLedger) Reserve(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return domain.Invalid("quantity", "debe ser mayor que cero")
	}
	query := `
		UPDATE products SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND kind = 'physical' AND stock >= $2`
	tag, err := l.q.Exec(ctx, query, productID, quantity)
	if err != nil {
		return fmt.Errorf("reserve stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.InsufficientStockError{ProductID: productID, Requested: quantity}
	}
	return nil
}

// Release suma quantity sin condiciones (anulación o compensación).
func (l *StockLedger) Release(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return domain.Invalid("quantity", "debe ser mayor que cero")
	}
	query := `
		UPDATE products SET stock = stock + $2, updated_at = NOW()
		WHERE id = $1 AND kind = 'physical'`
	if _, err := l.q.Exec(ctx, query, productID, quantity); err != nil {
		return fmt.Errorf("release stock: %w", err)
	}
	return nil
}

// Available stock actual del producto.
func (l *StockLedger) Available(ctx context.Context, productID string) (int, error) {
	var stock int
	err := l.q.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1`, productID).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.NotFound(domain.ErrProductNotFound, productID)
		}
		return 0, fmt.Errorf("available stock: %w", err)
	}
	return stock, nil
}
