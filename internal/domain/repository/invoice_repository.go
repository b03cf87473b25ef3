package repository

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice.
// Create debe devolver *domain.DuplicateInvoiceError si la venta ya tiene factura
// (restricción única sobre sale_id). Los métodos Get* devuelven (nil, nil) si no existe.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	Update(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error)
	GetBySaleID(ctx context.Context, saleID string) (*entity.Invoice, error)
	GetByNumber(ctx context.Context, number string) (*entity.Invoice, error)
	GetByAccessKey(ctx context.Context, accessKey string) (*entity.Invoice, error)
	Statistics(ctx context.Context, period entity.Period) (entity.InvoiceStatistics, error)
}

// InvoiceSequencer asigna el siguiente secuencial de un par (establecimiento, punto de emisión).
// Debe ejecutarse en la misma transacción que persiste la factura; dos llamadas concurrentes
// nunca obtienen el mismo valor. Se toleran huecos si la transacción falla.
type InvoiceSequencer interface {
	Next(ctx context.Context, establishment, emissionPoint string) (int64, error)
}
