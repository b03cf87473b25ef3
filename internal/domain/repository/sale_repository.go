package repository

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para Sale y sus líneas.
// Los métodos Get* devuelven (nil, nil) si la venta no existe.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// GetForUpdate bloquea la venta hasta el fin de la transacción (SELECT ... FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	// SaveLines reemplaza las líneas y el total de una venta en borrador.
	SaveLines(ctx context.Context, sale *entity.Sale) error
	// UpdateState persiste estado y marcas de tiempo (emisión, anulación).
	UpdateState(ctx context.Context, sale *entity.Sale) error
	Delete(ctx context.Context, id string) error
	ListByCustomer(ctx context.Context, customerID string, limit int) ([]*entity.Sale, error)
	Statistics(ctx context.Context, period entity.Period) (entity.SalesStatistics, error)
}
