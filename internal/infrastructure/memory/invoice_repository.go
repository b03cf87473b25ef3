package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo facturas en memoria con las mismas restricciones únicas que PostgreSQL:
// sale_id, number y access_key.
type InvoiceRepo struct {
	h handle
}

func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	return r.h.do(ctx, func(st *state) error {
		if err := checkUnique(st, inv); err != nil {
			return err
		}
		st.invoices[inv.ID] = copyInvoice(*inv)
		return nil
	})
}

func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	return r.h.do(ctx, func(st *state) error {
		if _, ok := st.invoices[inv.ID]; !ok {
			return domain.NotFound(domain.ErrInvoiceNotFound, inv.ID)
		}
		if err := checkUnique(st, inv); err != nil {
			return err
		}
		st.invoices[inv.ID] = copyInvoice(*inv)
		return nil
	})
}

func checkUnique(st *state, inv *entity.Invoice) error {
	for id, other := range st.invoices {
		if id == inv.ID {
			continue
		}
		if other.SaleID == inv.SaleID {
			return &domain.DuplicateInvoiceError{SaleID: inv.SaleID, InvoiceID: other.ID}
		}
		if !inv.Number.IsZero() && other.Number == inv.Number {
			return domain.ErrDuplicate
		}
		if inv.AccessKey != "" && other.AccessKey == inv.AccessKey {
			return domain.ErrDuplicate
		}
	}
	return nil
}

func (r *InvoiceRepo) find(ctx context.Context, match func(entity.Invoice) bool) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := r.h.do(ctx, func(st *state) error {
		for _, inv := range st.invoices {
			if match(inv) {
				c := copyInvoice(inv)
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.find(ctx, func(inv entity.Invoice) bool { return inv.ID == id })
}

func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r *InvoiceRepo) GetBySaleID(ctx context.Context, saleID string) (*entity.Invoice, error) {
	return r.find(ctx, func(inv entity.Invoice) bool { return inv.SaleID == saleID })
}

func (r *InvoiceRepo) GetByNumber(ctx context.Context, number string) (*entity.Invoice, error) {
	return r.find(ctx, func(inv entity.Invoice) bool { return inv.Number.String() == number })
}

func (r *InvoiceRepo) GetByAccessKey(ctx context.Context, accessKey string) (*entity.Invoice, error) {
	return r.find(ctx, func(inv entity.Invoice) bool { return inv.AccessKey == accessKey })
}

func (r *InvoiceRepo) Statistics(ctx context.Context, period entity.Period) (entity.InvoiceStatistics, error) {
	var stats entity.InvoiceStatistics
	var totals []decimal.Decimal
	err := r.h.do(ctx, func(st *state) error {
		for _, inv := range st.invoices {
			if !inPeriod(inv.EmissionDate, period.From, period.To) {
				continue
			}
			stats.TotalInvoices++
			if inv.State == entity.InvoiceAuthorized {
				totals = append(totals, st.sales[inv.SaleID].Total)
			}
		}
		return nil
	})
	if err != nil {
		return entity.InvoiceStatistics{}, err
	}
	stats.AuthorizedInvoices = len(totals)
	stats.Invoiced, stats.Average, stats.Max, stats.Min = aggregate(totals)
	return stats, nil
}
