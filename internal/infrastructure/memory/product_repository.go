package memory

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria; el código es único.
type ProductRepo struct {
	h handle
}

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	return r.h.do(ctx, func(st *state) error {
		for _, other := range st.products {
			if other.ID == p.ID || other.Code == p.Code {
				return domain.ErrDuplicate
			}
		}
		st.products[p.ID] = copyProduct(*p)
		return nil
	})
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.h.do(ctx, func(st *state) error {
		if p, ok := st.products[id]; ok {
			c := copyProduct(p)
			out = &c
		}
		return nil
	})
	return out, err
}
