package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/catalog"
	"github.com/jhoicas/Facturacion-api/internal/application/sales"
	"github.com/jhoicas/Facturacion-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SaleUC     *sales.SaleUseCase
	InvoiceUC  *billing.InvoiceUseCase
	CustomerUC *billing.CustomerUseCase
	ProductUC  *catalog.ProductUseCase
	JWTSecret  string
	Service    string
	Gatherer   prometheus.Gatherer // nil: sin /metrics
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.Service})
	})
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// Todas las rutas de /api requieren Bearer Token.
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	sellers := RequireRole(jwt.RoleAdmin, jwt.RoleVendedor)
	admins := RequireRole(jwt.RoleAdmin)
	stockers := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)

	saleHandler := NewSaleHandler(deps.SaleUC)
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)

	// Sales. "statistics" antes de ":id".
	salesGroup := api.Group("/sales")
	salesGroup.Get("/statistics", admins, saleHandler.Statistics)
	salesGroup.Post("/", sellers, saleHandler.Create)
	salesGroup.Get("/:id", sellers, saleHandler.GetByID)
	salesGroup.Delete("/:id", sellers, saleHandler.Delete)
	salesGroup.Post("/:id/lines", sellers, saleHandler.AddLine)
	salesGroup.Put("/:id/lines", sellers, saleHandler.ReplaceLines)
	salesGroup.Delete("/:id/lines/:line", sellers, saleHandler.RemoveLine)
	salesGroup.Post("/:id/emit", sellers, saleHandler.Emit)
	salesGroup.Post("/:id/cancel", admins, saleHandler.Cancel)
	salesGroup.Get("/:id/invoice", sellers, invoiceHandler.GetBySale)

	// Invoices
	invoices := api.Group("/invoices")
	invoices.Get("/statistics", admins, invoiceHandler.Statistics)
	invoices.Get("/number/:number", sellers, invoiceHandler.GetByNumber)
	invoices.Get("/access-key/:key", sellers, invoiceHandler.GetByAccessKey)
	invoices.Post("/", sellers, invoiceHandler.Create)
	invoices.Get("/:id", sellers, invoiceHandler.GetByID)
	invoices.Post("/:id/emit", sellers, invoiceHandler.Emit)
	invoices.Post("/:id/authorize", admins, invoiceHandler.Authorize)
	invoices.Post("/:id/cancel", admins, invoiceHandler.Cancel)
	invoices.Get("/:id/verify", admins, invoiceHandler.Verify)

	// Customers (facturación)
	customers := api.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", sellers, customerHandler.Create)
	customers.Get("/:id", sellers, customerHandler.GetByID)
	customers.Get("/:id/sales", sellers, saleHandler.ListByCustomer)

	api.Post("/identity/validate", RequireRole(), ValidateIdentity)

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", stockers, productHandler.Create)
	products.Get("/:id/stock", stockers, productHandler.Stock)
	products.Get("/:id", stockers, productHandler.GetByID)
}
