// Package catalog casos de uso del catálogo de productos.
package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

// ProductUseCase alta y consulta de productos. El stock solo cambia por ventas (StockLedger).
type ProductUseCase struct {
	repo   repository.ProductRepository
	ledger repository.StockLedger
	log    *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, ledger repository.StockLedger, log *logger.Logger) *ProductUseCase {
	return &ProductUseCase{repo: repo, ledger: ledger, log: log.Component("catalog")}
}

// Create crea un producto físico (con stock inicial) o digital.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	now := time.Now()
	p := &entity.Product{
		ID:        uuid.New().String(),
		Code:      strings.TrimSpace(in.Code),
		Name:      strings.TrimSpace(in.Name),
		Price:     in.Price,
		Kind:      entity.ProductKind(strings.TrimSpace(in.Kind)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	switch p.Kind {
	case entity.ProductPhysical:
		p.Physical = &entity.PhysicalProduct{Stock: in.Stock}
	case entity.ProductDigital:
		if in.Stock != 0 {
			return nil, domain.Invalid("stock", "un producto digital no lleva stock")
		}
		p.Digital = &entity.DigitalProduct{DownloadURL: strings.TrimSpace(in.DownloadURL), LicenseKey: in.LicenseKey}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	uc.log.Info().Str("product_id", p.ID).Str("code", p.Code).Str("kind", string(p.Kind)).Msg("producto creado")
	return toProductResponse(p), nil
}

// Get devuelve el producto por ID.
func (uc *ProductUseCase) Get(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound(domain.ErrProductNotFound, id)
	}
	return toProductResponse(p), nil
}

// Stock consulta el disponible en el ledger. Un producto digital informa tracked=false.
func (uc *ProductUseCase) Stock(ctx context.Context, id string) (*dto.StockResponse, error) {
	n, err := uc.ledger.Available(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound(domain.ErrProductNotFound, id)
	}
	return &dto.StockResponse{ProductID: id, Available: n, Tracked: p.TracksInventory()}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	out := &dto.ProductResponse{
		ID:        p.ID,
		Code:      p.Code,
		Name:      p.Name,
		Kind:      string(p.Kind),
		Price:     p.Price,
		Stock:     p.Stock(),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Digital != nil {
		out.DownloadURL = p.Digital.DownloadURL
		out.LicenseKey = p.Digital.LicenseKey
	}
	return out
}
