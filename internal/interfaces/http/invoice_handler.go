package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
)

// InvoiceHandler maneja las peticiones HTTP de facturación (protegido).
type InvoiceHandler struct {
	uc *billing.InvoiceUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// Create crea la factura pendiente de una venta emitida.
// POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateInvoice(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetInvoice(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByNumber GET /api/invoices/number/:number (formato 001-001-000000001)
func (h *InvoiceHandler) GetByNumber(c *fiber.Ctx) error {
	out, err := h.uc.GetInvoiceByNumber(c.Context(), c.Params("number"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByAccessKey GET /api/invoices/access-key/:key
func (h *InvoiceHandler) GetByAccessKey(c *fiber.Ctx) error {
	out, err := h.uc.GetInvoiceByAccessKey(c.Context(), c.Params("key"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetBySale GET /api/sales/:id/invoice
func (h *InvoiceHandler) GetBySale(c *fiber.Ctx) error {
	out, err := h.uc.GetInvoiceBySale(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Emit asigna número (si falta) y genera la clave de acceso.
// POST /api/invoices/:id/emit
func (h *InvoiceHandler) Emit(c *fiber.Ctx) error {
	out, err := h.uc.EmitInvoice(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Authorize almacena la respuesta de autorización del SRI.
// POST /api/invoices/:id/authorize
func (h *InvoiceHandler) Authorize(c *fiber.Ctx) error {
	var in dto.AuthorizeInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.AuthorizeInvoice(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel POST /api/invoices/:id/cancel
func (h *InvoiceHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.CancelInvoice(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Verify revalida el dígito verificador de la clave almacenada.
// GET /api/invoices/:id/verify
func (h *InvoiceHandler) Verify(c *fiber.Ctx) error {
	out, err := h.uc.VerifyInvoiceAccessKey(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Statistics GET /api/invoices/statistics?from&to
func (h *InvoiceHandler) Statistics(c *fiber.Ctx) error {
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
