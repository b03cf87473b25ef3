package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/application/sales"
	"github.com/jhoicas/Facturacion-api/internal/domain"
)

// SaleHandler maneja las peticiones HTTP de ventas (protegido).
type SaleHandler struct {
	uc *sales.SaleUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.SaleUseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Create crea una venta en borrador.
// POST /api/sales
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateSale(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID GET /api/sales/:id
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetSale(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListByCustomer ventas del cliente, las más recientes primero.
// GET /api/customers/:id/sales?limit=20
func (h *SaleHandler) ListByCustomer(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20)}
	out, err := h.uc.ListByCustomer(c.Context(), c.Params("id"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AddLine agrega una línea al borrador.
// POST /api/sales/:id/lines
func (h *SaleHandler) AddLine(c *fiber.Ctx) error {
	var in dto.SaleLineRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.AddLine(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RemoveLine DELETE /api/sales/:id/lines/:line
func (h *SaleHandler) RemoveLine(c *fiber.Ctx) error {
	line, err := c.ParamsInt("line")
	if err != nil {
		return writeError(c, domain.Invalid("line", "debe ser un entero"))
	}
	out, err := h.uc.RemoveLine(c.Context(), c.Params("id"), line)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ReplaceLines reemplaza todas las líneas del borrador.
// PUT /api/sales/:id/lines
func (h *SaleHandler) ReplaceLines(c *fiber.Ctx) error {
	var in dto.ReplaceLinesRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.ReplaceLines(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Emit emite la venta y reserva el stock de sus productos físicos.
// POST /api/sales/:id/emit
func (h *SaleHandler) Emit(c *fiber.Ctx) error {
	out, err := h.uc.EmitSale(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel anula la venta y devuelve el stock.
// POST /api/sales/:id/cancel
func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.CancelSale(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete elimina un borrador.
// DELETE /api/sales/:id
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteSale(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Statistics GET /api/sales/statistics?from=2026-10-01&to=2026-10-31
func (h *SaleHandler) Statistics(c *fiber.Ctx) error {
	q, err := periodFromQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Statistics(c.Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
