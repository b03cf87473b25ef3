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

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// Constraint único sobre invoices.sale_id (ver migración 000001).
const invoiceSaleConstraint = "invoices_sale_id_key"

// InvoiceRepo implementación de InvoiceRepository.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador.
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, sale_id, establishment, emission_point, sequential, access_key, state,
	emission_date, authorization_payload, authorization_number, authorized_at, cancelled_at, created_at, updated_at`

// Create persiste la factura. Una segunda factura para la misma venta devuelve *domain.DuplicateInvoiceError.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `, number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.SaleID, inv.Number.Establishment, inv.Number.EmissionPoint, inv.Number.Sequential,
		nullString(inv.AccessKey), string(inv.State), inv.EmissionDate, nullString(inv.AuthorizationPayload),
		nullString(inv.AuthorizationNumber), inv.AuthorizedAt, inv.CancelledAt, inv.CreatedAt, inv.UpdatedAt,
		inv.Number.String(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			if violatedConstraint(err) == invoiceSaleConstraint {
				return &domain.DuplicateInvoiceError{SaleID: inv.SaleID}
			}
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// Update persiste número, clave, estado y datos de autorización.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	query := `
		UPDATE invoices SET
			number = $2, establishment = $3, emission_point = $4, sequential = $5,
			access_key = $6, state = $7, emission_date = $8, authorization_payload = $9,
			authorization_number = $10, authorized_at = $11, cancelled_at = $12, updated_at = $13
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		inv.ID, inv.Number.String(), inv.Number.Establishment, inv.Number.EmissionPoint, inv.Number.Sequential,
		nullString(inv.AccessKey), string(inv.State), inv.EmissionDate, nullString(inv.AuthorizationPayload),
		nullString(inv.AuthorizationNumber), inv.AuthorizedAt, inv.CancelledAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound(domain.ErrInvoiceNotFound, inv.ID)
	}
	return nil
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.get(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

// GetForUpdate bloquea la factura hasta el fin de la transacción.
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.get(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 FOR UPDATE`, id)
}

func (r *InvoiceRepo) GetBySaleID(ctx context.Context, saleID string) (*entity.Invoice, error) {
	return r.get(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE sale_id = $1`, saleID)
}

func (r *InvoiceRepo) GetByNumber(ctx context.Context, number string) (*entity.Invoice, error) {
	return r.get(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE number = $1`, number)
}

func (r *InvoiceRepo) GetByAccessKey(ctx context.Context, accessKey string) (*entity.Invoice, error) {
	return r.get(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE access_key = $1`, accessKey)
}

// Statistics cuenta facturas emitidas en el período; los montos (total de la venta) solo de las autorizadas.
func (r *InvoiceRepo) Statistics(ctx context.Context, period entity.Period) (entity.InvoiceStatistics, error) {
	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE i.state = 'authorized'),
			COALESCE(SUM(s.total) FILTER (WHERE i.state = 'authorized'), 0),
			COALESCE(ROUND(AVG(s.total) FILTER (WHERE i.state = 'authorized'), 2), 0),
			COALESCE(MAX(s.total) FILTER (WHERE i.state = 'authorized'), 0),
			COALESCE(MIN(s.total) FILTER (WHERE i.state = 'authorized'), 0)
		FROM invoices i JOIN sales s ON s.id = i.sale_id
		WHERE i.emission_date BETWEEN $1 AND $2`
	var st entity.InvoiceStatistics
	err := r.q.QueryRow(ctx, query, period.From, period.To).Scan(
		&st.TotalInvoices, &st.AuthorizedInvoices, &st.Invoiced, &st.Average, &st.Max, &st.Min,
	)
	if err != nil {
		return entity.InvoiceStatistics{}, fmt.Errorf("invoice statistics: %w", err)
	}
	return st, nil
}

func (r *InvoiceRepo) get(ctx context.Context, query string, arg string) (*entity.Invoice, error) {
	var inv entity.Invoice
	var state string
	var accessKey, payload, authNumber *string
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&inv.ID, &inv.SaleID, &inv.Number.Establishment, &inv.Number.EmissionPoint, &inv.Number.Sequential,
		&accessKey, &state, &inv.EmissionDate, &payload, &authNumber,
		&inv.AuthorizedAt, &inv.CancelledAt, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	inv.AccessKey = fromNullString(accessKey)
	inv.AuthorizationPayload = fromNullString(payload)
	inv.AuthorizationNumber = fromNullString(authNumber)
	inv.State = entity.InvoiceState(state)
	return &inv, nil
}
