package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas en memoria.
type SaleRepo struct {
	h handle
}

func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	return r.h.do(ctx, func(st *state) error {
		if _, ok := st.sales[sale.ID]; ok {
			return domain.ErrDuplicate
		}
		st.sales[sale.ID] = copySale(*sale)
		return nil
	})
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.h.do(ctx, func(st *state) error {
		if s, ok := st.sales[id]; ok {
			c := copySale(s)
			out = &c
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID: la transacción en memoria ya es exclusiva.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *SaleRepo) SaveLines(ctx context.Context, sale *entity.Sale) error {
	return r.h.do(ctx, func(st *state) error {
		cur, ok := st.sales[sale.ID]
		if !ok {
			return domain.NotFound(domain.ErrSaleNotFound, sale.ID)
		}
		cur.Lines = append([]entity.SaleLine(nil), sale.Lines...)
		cur.Total = sale.Total
		cur.UpdatedAt = sale.UpdatedAt
		st.sales[sale.ID] = cur
		return nil
	})
}

func (r *SaleRepo) UpdateState(ctx context.Context, sale *entity.Sale) error {
	return r.h.do(ctx, func(st *state) error {
		cur, ok := st.sales[sale.ID]
		if !ok {
			return domain.NotFound(domain.ErrSaleNotFound, sale.ID)
		}
		cur.State = sale.State
		cur.EmittedAt = copyTime(sale.EmittedAt)
		cur.CancelledAt = copyTime(sale.CancelledAt)
		cur.UpdatedAt = sale.UpdatedAt
		st.sales[sale.ID] = cur
		return nil
	})
}

func (r *SaleRepo) Delete(ctx context.Context, id string) error {
	return r.h.do(ctx, func(st *state) error {
		delete(st.sales, id)
		return nil
	})
}

func (r *SaleRepo) ListByCustomer(ctx context.Context, customerID string, limit int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	err := r.h.do(ctx, func(st *state) error {
		for _, s := range st.sales {
			if s.CustomerID == customerID {
				c := copySale(s)
				out = append(out, &c)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *SaleRepo) Statistics(ctx context.Context, period entity.Period) (entity.SalesStatistics, error) {
	var totals []decimal.Decimal
	var stats entity.SalesStatistics
	err := r.h.do(ctx, func(st *state) error {
		for _, s := range st.sales {
			if !inPeriod(s.CreatedAt, period.From, period.To) {
				continue
			}
			stats.TotalSales++
			if s.State == entity.SaleEmitted {
				totals = append(totals, s.Total)
			}
		}
		return nil
	})
	if err != nil {
		return entity.SalesStatistics{}, err
	}
	stats.EmittedSales = len(totals)
	stats.Revenue, stats.Average, stats.Max, stats.Min = aggregate(totals)
	return stats, nil
}

// aggregate suma, promedio, máximo y mínimo; ceros si no hay valores.
func aggregate(values []decimal.Decimal) (sum, avg, maxV, minV decimal.Decimal) {
	if len(values) == 0 {
		return decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	}
	sum = decimal.Sum(values[0], values[1:]...)
	return sum, sum.Div(decimal.NewFromInt(int64(len(values)))).Round(2),
		decimal.Max(values[0], values[1:]...), decimal.Min(values[0], values[1:]...)
}
