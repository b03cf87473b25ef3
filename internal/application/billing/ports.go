package billing

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/sri"
)

// TxRunner ejecuta fn dentro de una transacción que incluye ventas, facturas y el secuenciador.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repos) error) error
}

// AuthorizationReader interpreta (a mejor esfuerzo) el payload de autorización del SRI.
type AuthorizationReader interface {
	Read(payload string) (sri.Authorization, error)
}
