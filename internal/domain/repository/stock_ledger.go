package repository

import "context"

// StockLedger guarda las cantidades de productos físicos.
// Reserve comprueba y descuenta en un solo paso indivisible; si no hay stock suficiente
// devuelve *domain.InsufficientStockError sin modificar nada. El stock nunca queda negativo.
// Release suma sin condiciones (anulaciones y compensaciones).
// Available lee el stock actual (consulta de catálogo, sin bloqueo).
type StockLedger interface {
	Reserve(ctx context.Context, productID string, quantity int) error
	Release(ctx context.Context, productID string, quantity int) error
	Available(ctx context.Context, productID string) (int, error)
}
