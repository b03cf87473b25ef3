package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

// CustomerUseCase casos de uso para clientes (facturación).
type CustomerUseCase struct {
	repo repository.CustomerRepository
	log  *logger.Logger
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository, log *logger.Logger) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, log: log.Component("customers")}
}

// Create registra un cliente; la identificación se valida con el algoritmo de su tipo
// (cédula para persona natural, RUC para persona jurídica).
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	now := time.Now()
	customer := &entity.Customer{
		ID:             uuid.New().String(),
		Kind:           entity.CustomerKind(strings.TrimSpace(in.Kind)),
		Identification: strings.TrimSpace(in.Identification),
		Email:          strings.TrimSpace(in.Email),
		Phone:          in.Phone,
		Address:        in.Address,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	switch customer.Kind {
	case entity.CustomerNatural:
		customer.Natural = &entity.NaturalPerson{FirstName: in.FirstName, LastName: in.LastName}
	case entity.CustomerJuridica:
		customer.Juridica = &entity.LegalEntity{BusinessName: in.BusinessName, LegalRepresentative: in.LegalRepresentative}
	}
	if err := customer.Validate(); err != nil {
		return nil, err
	}

	existing, err := uc.repo.GetByIdentification(ctx, customer.Identification)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: identificación %s", domain.ErrDuplicate, customer.Identification)
	}
	if err := uc.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	uc.log.Info().Str("customer_id", customer.ID).Str("kind", string(customer.Kind)).Msg("cliente creado")
	return toCustomerResponse(customer), nil
}

// Get devuelve el cliente por ID.
func (uc *CustomerUseCase) Get(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound(domain.ErrCustomerNotFound, id)
	}
	return toCustomerResponse(c), nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	out := &dto.CustomerResponse{
		ID:                 c.ID,
		Kind:               string(c.Kind),
		Identification:     c.Identification,
		IdentificationType: c.IdentificationType(),
		DisplayName:        c.DisplayName(),
		Email:              c.Email,
		Phone:              c.Phone,
		Address:            c.Address,
		CreatedAt:          c.CreatedAt,
	}
	if c.Natural != nil {
		out.FirstName = c.Natural.FirstName
		out.LastName = c.Natural.LastName
	}
	if c.Juridica != nil {
		out.BusinessName = c.Juridica.BusinessName
		out.LegalRepresentative = c.Juridica.LegalRepresentative
	}
	return out
}
