package memory

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo clientes en memoria; la identificación es única.
type CustomerRepo struct {
	h handle
}

func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	return r.h.do(ctx, func(st *state) error {
		for _, other := range st.customers {
			if other.ID == c.ID || other.Identification == c.Identification {
				return domain.ErrDuplicate
			}
		}
		st.customers[c.ID] = copyCustomer(*c)
		return nil
	})
}

func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.h.do(ctx, func(st *state) error {
		if c, ok := st.customers[id]; ok {
			v := copyCustomer(c)
			out = &v
		}
		return nil
	})
	return out, err
}

func (r *CustomerRepo) GetByIdentification(ctx context.Context, identification string) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.h.do(ctx, func(st *state) error {
		for _, c := range st.customers {
			if c.Identification == identification {
				v := copyCustomer(c)
				out = &v
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *CustomerRepo) Exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := r.h.do(ctx, func(st *state) error {
		_, ok = st.customers[id]
		return nil
	})
	return ok, err
}
