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

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository: cabecera en sales, detalle en sale_lines.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, customer_id, state, total, created_at, emitted_at, cancelled_at, updated_at`

// Create persiste la cabecera y las líneas de la venta.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `INSERT INTO sales (` + saleColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.CustomerID, string(s.State), s.Total, s.CreatedAt, s.EmittedAt, s.CancelledAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return r.insertLines(ctx, s)
}

// GetByID obtiene la venta con sus líneas ordenadas.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
}

// GetForUpdate igual que GetByID pero bloquea la fila de la venta (SELECT ... FOR UPDATE).
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id)
}

func (r *SaleRepo) get(ctx context.Context, query, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	lines, err := r.lines(ctx, []string{s.ID})
	if err != nil {
		return nil, err
	}
	s.Lines = lines[s.ID]
	if s.Lines == nil {
		s.Lines = []entity.SaleLine{}
	}
	return s, nil
}

// SaveLines reemplaza las líneas y actualiza total y updated_at.
func (r *SaleRepo) SaveLines(ctx context.Context, s *entity.Sale) error {
	tag, err := r.q.Exec(ctx, `UPDATE sales SET total = $2, updated_at = $3 WHERE id = $1`, s.ID, s.Total, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update sale total: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound(domain.ErrSaleNotFound, s.ID)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM sale_lines WHERE sale_id = $1`, s.ID); err != nil {
		return fmt.Errorf("delete sale lines: %w", err)
	}
	return r.insertLines(ctx, s)
}

func (r *SaleRepo) insertLines(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sale_lines (sale_id, line_number, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, l := range s.Lines {
		if _, err := r.q.Exec(ctx, query, s.ID, l.LineNumber, l.ProductID, l.Quantity, l.UnitPrice, l.Subtotal); err != nil {
			return fmt.Errorf("insert sale line %d: %w", l.LineNumber, err)
		}
	}
	return nil
}

// UpdateState persiste estado y marcas de tiempo.
func (r *SaleRepo) UpdateState(ctx context.Context, s *entity.Sale) error {
	query := `
		UPDATE sales SET state = $2, emitted_at = $3, cancelled_at = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, s.ID, string(s.State), s.EmittedAt, s.CancelledAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update sale state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound(domain.ErrSaleNotFound, s.ID)
	}
	return nil
}

// Delete elimina la venta; las líneas caen por ON DELETE CASCADE.
func (r *SaleRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound(domain.ErrSaleNotFound, id)
	}
	return nil
}

// ListByCustomer ventas del cliente, las más recientes primero.
func (r *SaleRepo) ListByCustomer(ctx context.Context, customerID string, limit int) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE customer_id = $1 ORDER BY created_at DESC, id LIMIT $2`
	rows, err := r.q.Query(ctx, query, customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var list []*entity.Sale
	var ids []string
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	if len(ids) == 0 {
		return list, nil
	}
	lines, err := r.lines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, s := range list {
		s.Lines = lines[s.ID]
		if s.Lines == nil {
			s.Lines = []entity.SaleLine{}
		}
	}
	return list, nil
}

// Statistics cuenta ventas creadas en el período; los montos solo de las emitidas.
func (r *SaleRepo) Statistics(ctx context.Context, period entity.Period) (entity.SalesStatistics, error) {
	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE state = 'emitted'),
			COALESCE(SUM(total) FILTER (WHERE state = 'emitted'), 0),
			COALESCE(ROUND(AVG(total) FILTER (WHERE state = 'emitted'), 2), 0),
			COALESCE(MAX(total) FILTER (WHERE state = 'emitted'), 0),
			COALESCE(MIN(total) FILTER (WHERE state = 'emitted'), 0)
		FROM sales WHERE created_at BETWEEN $1 AND $2`
	var st entity.SalesStatistics
	err := r.q.QueryRow(ctx, query, period.From, period.To).Scan(
		&st.TotalSales, &st.EmittedSales, &st.Revenue, &st.Average, &st.Max, &st.Min,
	)
	if err != nil {
		return entity.SalesStatistics{}, fmt.Errorf("sales statistics: %w", err)
	}
	return st, nil
}

func (r *SaleRepo) lines(ctx context.Context, saleIDs []string) (map[string][]entity.SaleLine, error) {
	query := `
		SELECT sale_id, line_number, product_id, quantity, unit_price, subtotal
		FROM sale_lines WHERE sale_id = ANY($1) ORDER BY sale_id, line_number`
	rows, err := r.q.Query(ctx, query, saleIDs)
	if err != nil {
		return nil, fmt.Errorf("get sale lines: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]entity.SaleLine, len(saleIDs))
	for rows.Next() {
		var saleID string
		var l entity.SaleLine
		if err := rows.Scan(&saleID, &l.LineNumber, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		out[saleID] = append(out[saleID], l)
	}
	return out, rows.Err()
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var state string
	if err := row.Scan(&s.ID, &s.CustomerID, &state, &s.Total, &s.CreatedAt, &s.EmittedAt, &s.CancelledAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.State = entity.SaleState(state)
	return &s, nil
}
