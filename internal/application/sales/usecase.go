package sales

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/inventory"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/telemetry"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

const spanService = "sale"

// SaleUseCase casos de uso de ventas: borrador, líneas, emisión (reserva de stock) y anulación.
type SaleUseCase struct {
	tx      TxRunner
	log     *logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// Option configura el caso de uso.
type Option func(*SaleUseCase)

// WithMetrics registra transiciones y latencias en m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(uc *SaleUseCase) { uc.metrics = m }
}

// WithClock reemplaza time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(uc *SaleUseCase) { uc.now = now }
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(tx TxRunner, log *logger.Logger, opts ...Option) *SaleUseCase {
	uc := &SaleUseCase{tx: tx, log: log.Component("sales"), now: time.Now}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// CreateSale abre una venta en borrador para un cliente existente.
func (uc *SaleUseCase) CreateSale(ctx context.Context, in dto.CreateSaleRequest) (out *dto.SaleResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "create", attribute.String("customer_id", in.CustomerID))
	defer func() { telemetry.End(span, err) }()

	customerID := strings.TrimSpace(in.CustomerID)
	if customerID == "" {
		return nil, domain.Invalid("customer_id", "es obligatorio")
	}
	sale := entity.NewSale(uuid.New().String(), customerID, uc.now())
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		exists, err := r.Customers.Exists(ctx, customerID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.NotFound(domain.ErrCustomerNotFound, customerID)
		}
		return r.Sales.Create(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.IncSale("create")
	uc.log.Info().Str("sale_id", sale.ID).Str("customer_id", customerID).Msg("venta creada")
	return toSaleResponse(sale), nil
}

// AddLine agrega una línea al borrador. Sin precio explícito se toma el del producto.
func (uc *SaleUseCase) AddLine(ctx context.Context, saleID string, in dto.SaleLineRequest) (*dto.SaleResponse, error) {
	return uc.editDraft(ctx, "add_line", saleID, func(r repository.Repos, sale *entity.Sale) error {
		line, err := resolveLine(ctx, r.Products, in)
		if err != nil {
			return err
		}
		return sale.AddLine(line.ProductID, line.Quantity, line.UnitPrice)
	})
}

// RemoveLine elimina una línea del borrador; las restantes se renumeran.
func (uc *SaleUseCase) RemoveLine(ctx context.Context, saleID string, lineNumber int) (*dto.SaleResponse, error) {
	return uc.editDraft(ctx, "remove_line", saleID, func(_ repository.Repos, sale *entity.Sale) error {
		return sale.RemoveLine(lineNumber)
	})
}

// ReplaceLines sustituye todas las líneas del borrador en un solo paso.
func (uc *SaleUseCase) ReplaceLines(ctx context.Context, saleID string, in dto.ReplaceLinesRequest) (*dto.SaleResponse, error) {
	return uc.editDraft(ctx, "replace_lines", saleID, func(r repository.Repos, sale *entity.Sale) error {
		lines := make([]entity.SaleLine, 0, len(in.Lines))
		for _, l := range in.Lines {
			line, err := resolveLine(ctx, r.Products, l)
			if err != nil {
				return err
			}
			lines = append(lines, line)
		}
		return sale.ReplaceLines(lines)
	})
}

func (uc *SaleUseCase) editDraft(ctx context.Context, method, saleID string, edit func(repository.Repos, *entity.Sale) error) (out *dto.SaleResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, method, attribute.String("sale_id", saleID))
	defer func() { telemetry.End(span, err) }()

	var sale *entity.Sale
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		s, err := lockSale(ctx, r.Sales, saleID)
		if err != nil {
			return err
		}
		if err := edit(r, s); err != nil {
			return err
		}
		s.UpdatedAt = uc.now()
		sale = s
		return r.Sales.SaveLines(ctx, s)
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// resolveLine valida la entrada y completa el precio unitario desde el catálogo.
func resolveLine(ctx context.Context, products repository.ProductRepository, in dto.SaleLineRequest) (entity.SaleLine, error) {
	productID := strings.TrimSpace(in.ProductID)
	if productID == "" {
		return entity.SaleLine{}, domain.Invalid("product_id", "es obligatorio")
	}
	if in.Quantity <= 0 {
		return entity.SaleLine{}, domain.Invalid("quantity", "debe ser mayor que cero")
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return entity.SaleLine{}, domain.Invalid("unit_price", "no puede ser negativo")
	}
	p, err := products.GetByID(ctx, productID)
	if err != nil {
		return entity.SaleLine{}, err
	}
	if p == nil {
		return entity.SaleLine{}, domain.NotFound(domain.ErrProductNotFound, productID)
	}
	price := p.Price
	if in.UnitPrice != nil {
		price = *in.UnitPrice
	}
	return entity.SaleLine{ProductID: productID, Quantity: in.Quantity, UnitPrice: price}, nil
}

// EmitSale reserva el stock de todas las líneas y pasa la venta a emitida.
// Si algún producto no alcanza, la venta sigue en borrador y ningún stock cambia.
func (uc *SaleUseCase) EmitSale(ctx context.Context, saleID string) (out *dto.SaleResponse, err error) {
	start := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "emit", attribute.String("sale_id", saleID))
	defer func() {
		telemetry.End(span, err)
		uc.metrics.ObserveOperation("sale.emit", start)
	}()

	var sale *entity.Sale
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		s, err := lockSale(ctx, r.Sales, saleID)
		if err != nil {
			return err
		}
		if err := s.CheckEmit(); err != nil {
			return err
		}
		items, err := stockItems(ctx, r.Products, s.Lines)
		if err != nil {
			return err
		}
		if err := inventory.ReserveAll(ctx, r.Ledger, items); err != nil {
			return err
		}
		if err := s.MarkEmitted(uc.now()); err != nil {
			return err
		}
		sale = s
		return r.Sales.UpdateState(ctx, s)
	})
	if err != nil {
		var stockErr *domain.InsufficientStockError
		if errors.As(err, &stockErr) {
			uc.metrics.IncStockRejection()
			uc.log.Warn().Str("sale_id", saleID).Str("product_id", stockErr.ProductID).
				Int("requested", stockErr.Requested).Msg("emisión rechazada por stock insuficiente")
		}
		return nil, err
	}
	uc.metrics.IncSale("emit")
	uc.log.Info().Str("sale_id", sale.ID).Str("total", sale.Total.StringFixed(2)).Msg("venta emitida")
	return toSaleResponse(sale), nil
}

// CancelSale anula una venta emitida y devuelve el stock de sus productos físicos.
func (uc *SaleUseCase) CancelSale(ctx context.Context, saleID string) (out *dto.SaleResponse, err error) {
	start := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "cancel", attribute.String("sale_id", saleID))
	defer func() {
		telemetry.End(span, err)
		uc.metrics.ObserveOperation("sale.cancel", start)
	}()

	var sale *entity.Sale
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		s, err := lockSale(ctx, r.Sales, saleID)
		if err != nil {
			return err
		}
		if err := s.CheckCancel(); err != nil {
			return err
		}
		items, err := stockItems(ctx, r.Products, s.Lines)
		if err != nil {
			return err
		}
		if err := inventory.ReleaseAll(ctx, r.Ledger, items); err != nil {
			return err
		}
		if err := s.MarkCancelled(uc.now()); err != nil {
			return err
		}
		sale = s
		return r.Sales.UpdateState(ctx, s)
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.IncSale("cancel")
	uc.log.Info().Str("sale_id", sale.ID).Msg("venta anulada")
	return toSaleResponse(sale), nil
}

// DeleteSale elimina una venta en borrador.
func (uc *SaleUseCase) DeleteSale(ctx context.Context, saleID string) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "delete", attribute.String("sale_id", saleID))
	defer func() { telemetry.End(span, err) }()

	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		s, err := lockSale(ctx, r.Sales, saleID)
		if err != nil {
			return err
		}
		if err := s.CheckDelete(); err != nil {
			return err
		}
		return r.Sales.Delete(ctx, s.ID)
	})
	if err != nil {
		return err
	}
	uc.metrics.IncSale("delete")
	uc.log.Info().Str("sale_id", saleID).Msg("venta eliminada")
	return nil
}

// GetSale devuelve la venta con sus líneas.
func (uc *SaleUseCase) GetSale(ctx context.Context, saleID string) (*dto.SaleResponse, error) {
	var sale *entity.Sale
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		s, err := r.Sales.GetByID(ctx, saleID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.NotFound(domain.ErrSaleNotFound, saleID)
		}
		sale = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// ListByCustomer ventas del cliente, las más recientes primero.
func (uc *SaleUseCase) ListByCustomer(ctx context.Context, customerID string, page dto.PageRequest) (*dto.SaleListResponse, error) {
	page.DefaultPage()
	var list []*entity.Sale
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		list, err = r.Sales.ListByCustomer(ctx, customerID, page.Limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := &dto.SaleListResponse{Items: make([]dto.SaleResponse, 0, len(list)), Limit: page.Limit}
	for _, s := range list {
		out.Items = append(out.Items, *toSaleResponse(s))
	}
	return out, nil
}

// Statistics agregados de ventas del período (montos sobre ventas emitidas).
func (uc *SaleUseCase) Statistics(ctx context.Context, q dto.PeriodQuery) (*dto.SalesStatisticsResponse, error) {
	period, err := q.Period()
	if err != nil {
		return nil, err
	}
	var st entity.SalesStatistics
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		st, err = r.Sales.Statistics(ctx, period)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto.SalesStatisticsResponse{
		From:         period.From,
		To:           period.To,
		TotalSales:   st.TotalSales,
		EmittedSales: st.EmittedSales,
		Revenue:      st.Revenue,
		Average:      st.Average,
		Max:          st.Max,
		Min:          st.Min,
	}, nil
}

func lockSale(ctx context.Context, sales repository.SaleRepository, id string) (*entity.Sale, error) {
	s, err := sales.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.NotFound(domain.ErrSaleNotFound, id)
	}
	return s, nil
}

func stockItems(ctx context.Context, products repository.ProductRepository, lines []entity.SaleLine) ([]inventory.Item, error) {
	catalog := make(map[string]*entity.Product, len(lines))
	for _, l := range lines {
		if _, ok := catalog[l.ProductID]; ok {
			continue
		}
		p, err := products.GetByID(ctx, l.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.NotFound(domain.ErrProductNotFound, l.ProductID)
		}
		catalog[l.ProductID] = p
	}
	return inventory.ItemsForSale(lines, catalog)
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	lines := make([]dto.SaleLineResponse, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, dto.SaleLineResponse{
			LineNumber: l.LineNumber,
			ProductID:  l.ProductID,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
			Subtotal:   l.Subtotal,
		})
	}
	return &dto.SaleResponse{
		ID:          s.ID,
		CustomerID:  s.CustomerID,
		State:       string(s.State),
		Total:       s.Total,
		Lines:       lines,
		CreatedAt:   s.CreatedAt,
		EmittedAt:   s.EmittedAt,
		CancelledAt: s.CancelledAt,
	}
}
