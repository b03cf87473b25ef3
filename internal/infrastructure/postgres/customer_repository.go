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

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
// Las variantes natural/jurídica se guardan en columnas de la misma tabla.
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `id, kind, identification, first_name, last_name, business_name,
	legal_representative, email, phone, address, created_at, updated_at`

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	var firstName, lastName, businessName, legalRep string
	if c.Natural != nil {
		firstName, lastName = c.Natural.FirstName, c.Natural.LastName
	}
	if c.Juridica != nil {
		businessName, legalRep = c.Juridica.BusinessName, c.Juridica.LegalRepresentative
	}
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		c.ID, string(c.Kind), c.Identification, firstName, lastName, businessName,
		legalRep, c.Email, c.Phone, c.Address, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	c, err := r.scanOne(r.q.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// GetByIdentification obtiene un cliente por cédula o RUC.
func (r *CustomerRepo) GetByIdentification(ctx context.Context, identification string) (*entity.Customer, error) {
	c, err := r.scanOne(r.q.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE identification = $1`, identification))
	if err != nil {
		return nil, fmt.Errorf("get customer by identification: %w", err)
	}
	return c, nil
}

// Exists indica si el cliente existe.
func (r *CustomerRepo) Exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)`, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("customer exists: %w", err)
	}
	return ok, nil
}

func (r *CustomerRepo) scanOne(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	var kind, firstName, lastName, businessName, legalRep string
	err := row.Scan(&c.ID, &kind, &c.Identification, &firstName, &lastName, &businessName,
		&legalRep, &c.Email, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	c.Kind = entity.CustomerKind(kind)
	switch c.Kind {
	case entity.CustomerNatural:
		c.Natural = &entity.NaturalPerson{FirstName: firstName, LastName: lastName}
	case entity.CustomerJuridica:
		c.Juridica = &entity.LegalEntity{BusinessName: businessName, LegalRepresentative: legalRep}
	}
	return &c, nil
}
