package sales

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con los repositorios atados a ella.
// Si fn devuelve error no se persiste ningún cambio.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repos) error) error
}
