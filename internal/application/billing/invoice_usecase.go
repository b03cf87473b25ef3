package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
	domainsri "github.com/jhoicas/Facturacion-api/internal/domain/sri"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/telemetry"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
	pkgsri "github.com/jhoicas/Facturacion-api/pkg/sri"
)

const spanService = "invoice"

// EmissionPoint establecimiento y punto de emisión desde los que se numeran las facturas.
type EmissionPoint struct {
	Establishment string
	EmissionPoint string
}

// InvoiceUseCase ciclo de vida de la factura: creación con número secuencial, emisión con
// clave de acceso, autorización y anulación. Nunca modifica la venta referenciada.
type InvoiceUseCase struct {
	tx      TxRunner
	keys    *domainsri.KeyGenerator
	point   EmissionPoint
	reader  AuthorizationReader
	log     *logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// Option configura el caso de uso.
type Option func(*InvoiceUseCase)

// WithMetrics registra transiciones, latencias y fallos de integridad en m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(uc *InvoiceUseCase) { uc.metrics = m }
}

// WithClock reemplaza time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(uc *InvoiceUseCase) { uc.now = now }
}

// WithAuthorizationReader lee número y fecha de autorización del payload del SRI.
func WithAuthorizationReader(r AuthorizationReader) Option {
	return func(uc *InvoiceUseCase) { uc.reader = r }
}

// NewInvoiceUseCase construye el caso de uso. Los códigos de emisión deben tener 3 dígitos.
func NewInvoiceUseCase(tx TxRunner, keys *domainsri.KeyGenerator, point EmissionPoint, log *logger.Logger, opts ...Option) (*InvoiceUseCase, error) {
	if keys == nil {
		return nil, fmt.Errorf("billing: generador de claves requerido")
	}
	if err := entity.ValidateEmissionCodes(point.Establishment, point.EmissionPoint); err != nil {
		return nil, err
	}
	uc := &InvoiceUseCase{tx: tx, keys: keys, point: point, log: log.Component("billing"), now: time.Now}
	for _, opt := range opts {
		opt(uc)
	}
	return uc, nil
}

// CreateInvoice crea la factura pendiente de una venta emitida y le reserva el siguiente número.
func (uc *InvoiceUseCase) CreateInvoice(ctx context.Context, in dto.CreateInvoiceRequest) (out *dto.InvoiceResponse, err error) {
	start := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "create", attribute.String("sale_id", in.SaleID))
	defer func() {
		telemetry.End(span, err)
		uc.metrics.ObserveOperation("invoice.create", start)
	}()

	if in.SaleID == "" {
		return nil, domain.Invalid("sale_id", "es obligatorio")
	}
	var inv *entity.Invoice
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		// El bloqueo de la venta serializa dos creaciones concurrentes para la misma venta.
		sale, err := r.Sales.GetForUpdate(ctx, in.SaleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.NotFound(domain.ErrSaleNotFound, in.SaleID)
		}
		if sale.State != entity.SaleEmitted {
			return &domain.StateError{Entity: domain.EntitySale, ID: sale.ID, State: string(sale.State), Action: "facturar"}
		}
		existing, err := r.Invoices.GetBySaleID(ctx, sale.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return &domain.DuplicateInvoiceError{SaleID: sale.ID, InvoiceID: existing.ID}
		}
		number, err := uc.nextNumber(ctx, r.Sequencer)
		if err != nil {
			return err
		}
		inv = entity.NewInvoice(uuid.New().String(), sale.ID, number, uc.now())
		return r.Invoices.Create(ctx, inv)
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateInvoice) {
			uc.log.Warn().Str("sale_id", in.SaleID).Msg("la venta ya tiene factura")
		}
		return nil, err
	}
	uc.metrics.IncInvoice("create")
	uc.log.Info().Str("invoice_id", inv.ID).Str("sale_id", inv.SaleID).Str("number", inv.Number.String()).Msg("factura creada")
	return toInvoiceResponse(inv), nil
}

func (uc *InvoiceUseCase) nextNumber(ctx context.Context, seq repository.InvoiceSequencer) (entity.InvoiceNumber, error) {
	n, err := seq.Next(ctx, uc.point.Establishment, uc.point.EmissionPoint)
	if err != nil {
		return entity.InvoiceNumber{}, err
	}
	return entity.NewInvoiceNumber(uc.point.Establishment, uc.point.EmissionPoint, n)
}

// EmitInvoice emite una factura pendiente: fecha de emisión = ahora y, si falta, número
// y clave de acceso derivada de esa misma fecha.
func (uc *InvoiceUseCase) EmitInvoice(ctx context.Context, invoiceID string) (out *dto.EmitInvoiceResponse, err error) {
	start := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "emit", attribute.String("invoice_id", invoiceID))
	defer func() {
		telemetry.End(span, err)
		uc.metrics.ObserveOperation("invoice.emit", start)
	}()

	var inv *entity.Invoice
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		i, err := lockInvoice(ctx, r.Invoices, invoiceID)
		if err != nil {
			return err
		}
		if err := i.CheckEmit(); err != nil {
			return err
		}
		if err := uc.verify(i); err != nil {
			return err
		}
		if i.Number.IsZero() {
			number, err := uc.nextNumber(ctx, r.Sequencer)
			if err != nil {
				return err
			}
			if err := i.AssignNumber(number); err != nil {
				return err
			}
		}
		now := uc.now()
		var key string
		if i.NeedsAccessKey() {
			if key, err = uc.keys.Generate(now, i.Number); err != nil {
				return err
			}
		}
		if err := i.MarkEmitted(now, key); err != nil {
			return err
		}
		inv = i
		return r.Invoices.Update(ctx, i)
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.IncInvoice("emit")
	uc.log.Info().Str("invoice_id", inv.ID).Str("number", inv.Number.String()).Str("access_key", inv.AccessKey).Msg("factura emitida")
	return &dto.EmitInvoiceResponse{InvoiceID: inv.ID, Number: inv.Number.String(), AccessKey: inv.AccessKey}, nil
}

// AuthorizeInvoice guarda la respuesta de autorización del SRI tal como llegó.
// Si el payload es XML del SRI se toman número y fecha de autorización; una clave
// distinta a la de la factura se registra pero no impide la autorización.
func (uc *InvoiceUseCase) AuthorizeInvoice(ctx context.Context, invoiceID string, in dto.AuthorizeInvoiceRequest) (out *dto.InvoiceResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "authorize", attribute.String("invoice_id", invoiceID))
	defer func() { telemetry.End(span, err) }()

	var inv *entity.Invoice
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		i, err := lockInvoice(ctx, r.Invoices, invoiceID)
		if err != nil {
			return err
		}
		if err := i.MarkAuthorized(uc.now(), in.Payload); err != nil {
			return err
		}
		uc.inspectAuthorization(i)
		inv = i
		return r.Invoices.Update(ctx, i)
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.IncInvoice("authorize")
	uc.log.Info().Str("invoice_id", inv.ID).Str("authorization_number", inv.AuthorizationNumber).Msg("factura autorizada")
	return toInvoiceResponse(inv), nil
}

func (uc *InvoiceUseCase) inspectAuthorization(inv *entity.Invoice) {
	if uc.reader == nil {
		return
	}
	a, err := uc.reader.Read(inv.AuthorizationPayload)
	if err != nil {
		uc.log.Debug().Err(err).Str("invoice_id", inv.ID).Msg("payload de autorización no interpretable, se guarda sin cambios")
		return
	}
	if a.Status != "" && !a.Authorized() {
		uc.log.Warn().Str("invoice_id", inv.ID).Str("estado", a.Status).Msg("el payload no indica AUTORIZADO")
	}
	if a.AccessKey != "" && inv.AccessKey != "" && a.AccessKey != inv.AccessKey {
		uc.log.Warn().Str("invoice_id", inv.ID).Str("access_key", inv.AccessKey).
			Str("payload_access_key", a.AccessKey).Msg("la clave del payload no coincide con la de la factura")
	}
	inv.AuthorizationNumber = a.AuthorizationNumber
	if !a.AuthorizedAt.IsZero() {
		at := a.AuthorizedAt
		inv.AuthorizedAt = &at
	}
}

// CancelInvoice anula la factura. Una factura ya anulada devuelve ErrAlreadyCancelled.
func (uc *InvoiceUseCase) CancelInvoice(ctx context.Context, invoiceID string) (out *dto.InvoiceResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "cancel", attribute.String("invoice_id", invoiceID))
	defer func() { telemetry.End(span, err) }()

	var inv *entity.Invoice
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		i, err := lockInvoice(ctx, r.Invoices, invoiceID)
		if err != nil {
			return err
		}
		if err := i.MarkCancelled(uc.now()); err != nil {
			return err
		}
		inv = i
		return r.Invoices.Update(ctx, i)
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyCancelled) {
			uc.log.Warn().Str("invoice_id", invoiceID).Msg("la factura ya estaba anulada")
		}
		return nil, err
	}
	uc.metrics.IncInvoice("cancel")
	uc.log.Info().Str("invoice_id", inv.ID).Msg("factura anulada")
	return toInvoiceResponse(inv), nil
}

// GetInvoice devuelve la factura por ID.
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	return uc.get(ctx, id, func(r repository.InvoiceRepository) (*entity.Invoice, error) {
		return r.GetByID(ctx, id)
	})
}

// GetInvoiceByNumber busca por número EEE-PPP-SSSSSSSSS.
func (uc *InvoiceUseCase) GetInvoiceByNumber(ctx context.Context, number string) (*dto.InvoiceResponse, error) {
	n, err := entity.ParseInvoiceNumber(number)
	if err != nil {
		return nil, err
	}
	return uc.get(ctx, number, func(r repository.InvoiceRepository) (*entity.Invoice, error) {
		return r.GetByNumber(ctx, n.String())
	})
}

// GetInvoiceByAccessKey busca por clave de acceso de 49 dígitos.
func (uc *InvoiceUseCase) GetInvoiceByAccessKey(ctx context.Context, accessKey string) (*dto.InvoiceResponse, error) {
	if !isDigits(accessKey, pkgsri.AccessKeyLength) {
		return nil, domain.Invalid("access_key", fmt.Sprintf("debe tener %d dígitos", pkgsri.AccessKeyLength))
	}
	return uc.get(ctx, accessKey, func(r repository.InvoiceRepository) (*entity.Invoice, error) {
		return r.GetByAccessKey(ctx, accessKey)
	})
}

// GetInvoiceBySale devuelve la factura de una venta.
func (uc *InvoiceUseCase) GetInvoiceBySale(ctx context.Context, saleID string) (*dto.InvoiceResponse, error) {
	return uc.get(ctx, saleID, func(r repository.InvoiceRepository) (*entity.Invoice, error) {
		return r.GetBySaleID(ctx, saleID)
	})
}

// VerifyInvoiceAccessKey re-valida el dígito verificador de la clave almacenada.
func (uc *InvoiceUseCase) VerifyInvoiceAccessKey(ctx context.Context, invoiceID string) (*dto.VerifyAccessKeyResponse, error) {
	inv, err := uc.load(ctx, invoiceID, func(r repository.InvoiceRepository) (*entity.Invoice, error) {
		return r.GetByID(ctx, invoiceID)
	})
	if err != nil {
		return nil, err
	}
	if inv.AccessKey == "" {
		return nil, &domain.StateError{Entity: domain.EntityInvoice, ID: inv.ID, State: string(inv.State), Action: "verificar la clave de acceso"}
	}
	if err := uc.verify(inv); err != nil {
		return nil, err
	}
	return &dto.VerifyAccessKeyResponse{InvoiceID: inv.ID, AccessKey: inv.AccessKey, Valid: true}, nil
}

// Statistics agregados de facturas del período (montos sobre facturas autorizadas).
func (uc *InvoiceUseCase) Statistics(ctx context.Context, q dto.PeriodQuery) (*dto.InvoiceStatisticsResponse, error) {
	period, err := q.Period()
	if err != nil {
		return nil, err
	}
	var st entity.InvoiceStatistics
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		var err error
		st, err = r.Invoices.Statistics(ctx, period)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto.InvoiceStatisticsResponse{
		From:               period.From,
		To:                 period.To,
		TotalInvoices:      st.TotalInvoices,
		AuthorizedInvoices: st.AuthorizedInvoices,
		Invoiced:           st.Invoiced,
		Average:            st.Average,
		Max:                st.Max,
		Min:                st.Min,
	}, nil
}

func (uc *InvoiceUseCase) get(ctx context.Context, ref string, find func(repository.InvoiceRepository) (*entity.Invoice, error)) (*dto.InvoiceResponse, error) {
	inv, err := uc.load(ctx, ref, find)
	if err != nil {
		return nil, err
	}
	if err := uc.verify(inv); err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

func (uc *InvoiceUseCase) load(ctx context.Context, ref string, find func(repository.InvoiceRepository) (*entity.Invoice, error)) (*entity.Invoice, error) {
	var inv *entity.Invoice
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		i, err := find(r.Invoices)
		if err != nil {
			return err
		}
		if i == nil {
			return domain.NotFound(domain.ErrInvoiceNotFound, ref)
		}
		inv = i
		return nil
	})
	return inv, err
}

// verify re-valida la clave almacenada; una clave corrupta se registra y nunca se repara.
func (uc *InvoiceUseCase) verify(inv *entity.Invoice) error {
	if err := domainsri.VerifyStoredKey(inv); err != nil {
		uc.metrics.IncIntegrityFailure()
		uc.log.Error().Err(err).Str("invoice_id", inv.ID).Str("access_key", inv.AccessKey).Msg("clave de acceso almacenada corrupta")
		return err
	}
	return nil
}

func lockInvoice(ctx context.Context, invoices repository.InvoiceRepository, id string) (*entity.Invoice, error) {
	inv, err := invoices.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.NotFound(domain.ErrInvoiceNotFound, id)
	}
	return inv, nil
}

func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func toInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	return &dto.InvoiceResponse{
		ID:                  inv.ID,
		SaleID:              inv.SaleID,
		Number:              inv.Number.String(),
		AccessKey:           inv.AccessKey,
		State:               string(inv.State),
		EmissionDate:        inv.EmissionDate,
		AuthorizationNumber: inv.AuthorizationNumber,
		AuthorizedAt:        inv.AuthorizedAt,
		CancelledAt:         inv.CancelledAt,
		CreatedAt:           inv.CreatedAt,
	}
}
