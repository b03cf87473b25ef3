package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de ProductRepository (pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un producto con su stock inicial (solo físicos).
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	var downloadURL, licenseKey string
	if p.Digital != nil {
		downloadURL, licenseKey = p.Digital.DownloadURL, p.Digital.LicenseKey
	}
	query := `
		INSERT INTO products (id, code, name, kind, price, stock, download_url, license_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Code, p.Name, string(p.Kind), p.Price, p.Stock(), downloadURL, licenseKey, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `
		SELECT id, code, name, kind, price, stock, download_url, license_key, created_at, updated_at
		FROM products WHERE id = $1`
	var p entity.Product
	var kind, downloadURL, licenseKey string
	var stock int
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Code, &p.Name, &kind, &p.Price, &stock, &downloadURL, &licenseKey, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	p.Kind = entity.ProductKind(kind)
	switch p.Kind {
	case entity.ProductPhysical:
		p.Physical = &entity.PhysicalProduct{Stock: stock}
	case entity.ProductDigital:
		p.Digital = &entity.DigitalProduct{DownloadURL: downloadURL, LicenseKey: licenseKey}
	}
	return &p, nil
}
