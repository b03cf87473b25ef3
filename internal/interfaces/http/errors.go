package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
)

// writeError traduce errores de dominio a status HTTP y código estable.
// Una factura ya anulada responde ALREADY_CANCELLED; una venta ya anulada es INVALID_STATE.
func writeError(c *fiber.Ctx, err error) error {
	var (
		verr  *domain.ValidationError
		dup   *domain.DuplicateInvoiceError
		stock *domain.InsufficientStockError
		serr  *domain.StateError
		ierr  *domain.IntegrityError
	)
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: verr.Error()})
	case errors.As(err, &dup):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_INVOICE", Message: dup.Error(), SaleID: dup.SaleID})
	case errors.As(err, &stock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: stock.Error(), ProductID: stock.ProductID})
	case errors.As(err, &serr):
		code := "INVALID_STATE"
		if serr.Entity == domain.EntityInvoice && errors.Is(serr.Cause, domain.ErrAlreadyCancelled) {
			code = "ALREADY_CANCELLED"
		}
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: code, Message: serr.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.As(err, &ierr):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTEGRITY", Message: ierr.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// periodFromQuery lee from/to en RFC 3339 o YYYY-MM-DD; un "to" de solo fecha cubre el día completo.
func periodFromQuery(c *fiber.Ctx) (dto.PeriodQuery, error) {
	from, err := parseQueryTime(c.Query("from"), false)
	if err != nil {
		return dto.PeriodQuery{}, domain.Invalid("from", "fecha inválida")
	}
	to, err := parseQueryTime(c.Query("to"), true)
	if err != nil {
		return dto.PeriodQuery{}, domain.Invalid("to", "fecha inválida")
	}
	return dto.PeriodQuery{From: from, To: to}, nil
}

func parseQueryTime(s string, endOfDay bool) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		d = d.Add(24*time.Hour - time.Nanosecond)
	}
	return d, nil
}
