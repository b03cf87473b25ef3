package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/catalog"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/application/sales"
	domainsri "github.com/jhoicas/Facturacion-api/internal/domain/sri"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/memory"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/metrics"
	apphttp "github.com/jhoicas/Facturacion-api/internal/interfaces/http"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
	pkgjwt "github.com/jhoicas/Facturacion-api/pkg/jwt"
)

var scenarioNow = time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)

type api struct {
	t   *testing.T
	app *fiber.App
}

func newAPI(t *testing.T) api {
	t.Helper()
	store := memory.NewStore()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	clock := func() time.Time { return scenarioNow }

	keys, err := domainsri.NewKeyGenerator("1790011674001", "1", func() string { return "12345678" })
	require.NoError(t, err)
	invoiceUC, err := billing.NewInvoiceUseCase(store, keys,
		billing.EmissionPoint{Establishment: "001", EmissionPoint: "001"}, logger.Nop(),
		billing.WithClock(clock), billing.WithMetrics(m))
	require.NoError(t, err)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		SaleUC:     sales.NewSaleUseCase(store, logger.Nop(), sales.WithClock(clock), sales.WithMetrics(m)),
		InvoiceUC:  invoiceUC,
		CustomerUC: billing.NewCustomerUseCase(store.Repos().Customers, logger.Nop()),
		ProductUC:  catalog.NewProductUseCase(store.Repos().Products, store.Repos().Ledger, logger.Nop()),
		JWTSecret:  testJWTSecret,
		Service:    "facturacion-api",
		Gatherer:   reg,
	})
	return api{t: t, app: app}
}

// call envía la petición con un token del rol indicado ("" = sin token) y decodifica la respuesta en out.
func (a api) call(method, path, role string, body any, out any) int {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		tok, err := pkgjwt.Generate(testJWTSecret, testUserID, role, testIssuer, testExpMin)
		require.NoError(a.t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(a.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (a api) seed() (customerID, keyboardID, mouseID string) {
	a.t.Helper()
	var c dto.CustomerResponse
	require.Equal(a.t, http.StatusCreated, a.call(http.MethodPost, "/api/customers", pkgjwt.RoleVendedor,
		dto.CreateCustomerRequest{Kind: "natural", Identification: "1710034065", FirstName: "Ana", LastName: "Pérez", Email: "ana@example.com"}, &c))

	var p dto.ProductResponse
	require.Equal(a.t, http.StatusCreated, a.call(http.MethodPost, "/api/products", pkgjwt.RoleBodeguero,
		dto.CreateProductRequest{Code: "P-3", Name: "Teclado", Kind: "physical", Price: decimal.NewFromInt(10), Stock: 10}, &p))
	keyboardID = p.ID
	require.Equal(a.t, http.StatusCreated, a.call(http.MethodPost, "/api/products", pkgjwt.RoleBodeguero,
		dto.CreateProductRequest{Code: "P-5", Name: "Mouse", Kind: "physical", Price: decimal.NewFromInt(25), Stock: 4}, &p))
	return c.ID, keyboardID, p.ID
}

func TestRouter_EscenarioVentaFactura(t *testing.T) {
	a := newAPI(t)
	customerID, keyboardID, mouseID := a.seed()

	var sale dto.SaleResponse
	require.Equal(t, http.StatusCreated, a.call(http.MethodPost, "/api/sales", pkgjwt.RoleVendedor,
		dto.CreateSaleRequest{CustomerID: customerID}, &sale))
	assert.Equal(t, "draft", sale.State)

	a.call(http.MethodPost, "/api/sales/"+sale.ID+"/lines", pkgjwt.RoleVendedor,
		dto.SaleLineRequest{ProductID: keyboardID, Quantity: 2}, &sale)
	require.Equal(t, http.StatusCreated, a.call(http.MethodPost, "/api/sales/"+sale.ID+"/lines", pkgjwt.RoleVendedor,
		dto.SaleLineRequest{ProductID: mouseID, Quantity: 1}, &sale))
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(45)), "total %s", sale.Total)

	require.Equal(t, http.StatusOK, a.call(http.MethodPost, "/api/sales/"+sale.ID+"/emit", pkgjwt.RoleVendedor, nil, &sale))
	assert.Equal(t, "emitted", sale.State)

	var product dto.ProductResponse
	a.call(http.MethodGet, "/api/products/"+keyboardID, pkgjwt.RoleAdmin, nil, &product)
	assert.Equal(t, 8, product.Stock)

	var stock dto.StockResponse
	require.Equal(t, http.StatusOK, a.call(http.MethodGet, "/api/products/"+mouseID+"/stock", pkgjwt.RoleBodeguero, nil, &stock))
	assert.Equal(t, 3, stock.Available)
	assert.True(t, stock.Tracked)

	var inv dto.InvoiceResponse
	require.Equal(t, http.StatusCreated, a.call(http.MethodPost, "/api/invoices", pkgjwt.RoleVendedor,
		dto.CreateInvoiceRequest{SaleID: sale.ID}, &inv))

	var emitted dto.EmitInvoiceResponse
	require.Equal(t, http.StatusOK, a.call(http.MethodPost, "/api/invoices/"+inv.ID+"/emit", pkgjwt.RoleVendedor, nil, &emitted))
	assert.Equal(t, "001-001-000000001", emitted.Number)
	assert.Equal(t, "1410202601179001167400110010010000000011234567816", emitted.AccessKey)

	var byKey dto.InvoiceResponse
	require.Equal(t, http.StatusOK, a.call(http.MethodGet, "/api/invoices/access-key/"+emitted.AccessKey, pkgjwt.RoleVendedor, nil, &byKey))
	assert.Equal(t, inv.ID, byKey.ID)

	var byNumber dto.InvoiceResponse
	require.Equal(t, http.StatusOK, a.call(http.MethodGet, "/api/invoices/number/001-001-000000001", pkgjwt.RoleVendedor, nil, &byNumber))
	assert.Equal(t, inv.ID, byNumber.ID)

	var verify dto.VerifyAccessKeyResponse
	require.Equal(t, http.StatusOK, a.call(http.MethodGet, "/api/invoices/"+inv.ID+"/verify", pkgjwt.RoleAdmin, nil, &verify))
	assert.True(t, verify.Valid)

	var dup dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, a.call(http.MethodPost, "/api/invoices", pkgjwt.RoleVendedor,
		dto.CreateInvoiceRequest{SaleID: sale.ID}, &dup))
	assert.Equal(t, "DUPLICATE_INVOICE", dup.Code)
	assert.Equal(t, sale.ID, dup.SaleID)
}

func TestRouter_ErroresMapeados(t *testing.T) {
	a := newAPI(t)
	customerID, _, mouseID := a.seed()

	var sale dto.SaleResponse
	a.call(http.MethodPost, "/api/sales", pkgjwt.RoleVendedor, dto.CreateSaleRequest{CustomerID: customerID}, &sale)

	var e dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, a.call(http.MethodPost, "/api/sales/"+sale.ID+"/emit", pkgjwt.RoleVendedor, nil, &e))
	assert.Equal(t, "INVALID_STATE", e.Code, "venta sin líneas")

	assert.Equal(t, http.StatusBadRequest, a.call(http.MethodPost, "/api/sales/"+sale.ID+"/lines", pkgjwt.RoleVendedor,
		dto.SaleLineRequest{ProductID: mouseID, Quantity: 0}, &e))
	assert.Equal(t, "VALIDATION", e.Code)

	a.call(http.MethodPost, "/api/sales/"+sale.ID+"/lines", pkgjwt.RoleVendedor, dto.SaleLineRequest{ProductID: mouseID, Quantity: 5}, &sale)
	assert.Equal(t, http.StatusConflict, a.call(http.MethodPost, "/api/sales/"+sale.ID+"/emit", pkgjwt.RoleVendedor, nil, &e))
	assert.Equal(t, "INSUFFICIENT_STOCK", e.Code)
	assert.Equal(t, mouseID, e.ProductID)

	assert.Equal(t, http.StatusNotFound, a.call(http.MethodGet, "/api/sales/no-existe", pkgjwt.RoleVendedor, nil, &e))
	assert.Equal(t, "NOT_FOUND", e.Code)

	assert.Equal(t, http.StatusForbidden, a.call(http.MethodPost, "/api/sales/"+sale.ID+"/cancel", pkgjwt.RoleVendedor, nil, &e))
	assert.Equal(t, http.StatusUnauthorized, a.call(http.MethodGet, "/api/sales/"+sale.ID, "", nil, &e))

	assert.Equal(t, http.StatusNoContent, a.call(http.MethodDelete, "/api/sales/"+sale.ID, pkgjwt.RoleVendedor, nil, nil))
}

func TestRouter_AnularDosVeces(t *testing.T) {
	a := newAPI(t)
	customerID, keyboardID, _ := a.seed()

	emitSale := func() dto.SaleResponse {
		var sale dto.SaleResponse
		require.Equal(t, http.StatusCreated, a.call(http.MethodPost, "/api/sales", pkgjwt.RoleVendedor,
			dto.CreateSaleRequest{CustomerID: customerID}, &sale))
		require.Equal(t, http.StatusCreated, a.call(http.MethodPost, "/api/sales/"+sale.ID+"/lines", pkgjwt.RoleVendedor,
			dto.SaleLineRequest{ProductID: keyboardID, Quantity: 1}, &sale))
		require.Equal(t, http.StatusOK, a.call(http.MethodPost, "/api/sales/"+sale.ID+"/emit", pkgjwt.RoleVendedor, nil, &sale))
		return sale
	}

	var e dto.ErrorResponse
	sale := emitSale()
	require.Equal(t, http.StatusOK, a.call(http.MethodPost, "/api/sales/"+sale.ID+"/cancel", pkgjwt.RoleAdmin, nil, &sale))
	assert.Equal(t, http.StatusConflict, a.call(http.MethodPost, "/api/sales/"+sale.ID+"/cancel", pkgjwt.RoleAdmin, nil, &e))
	assert.Equal(t, "INVALID_STATE", e.Code, "venta ya anulada")

	invoiced := emitSale()
	var inv dto.InvoiceResponse
	require.Equal(t, http.StatusCreated, a.call(http.MethodPost, "/api/invoices", pkgjwt.RoleVendedor,
		dto.CreateInvoiceRequest{SaleID: invoiced.ID}, &inv))

	e = dto.ErrorResponse{}
	assert.Equal(t, http.StatusConflict, a.call(http.MethodPost, "/api/invoices/"+inv.ID+"/authorize", pkgjwt.RoleAdmin,
		dto.AuthorizeInvoiceRequest{Payload: ""}, &e))
	assert.Equal(t, "INVALID_STATE", e.Code, "factura pendiente sin payload")

	require.Equal(t, http.StatusOK, a.call(http.MethodPost, "/api/invoices/"+inv.ID+"/cancel", pkgjwt.RoleAdmin, nil, &inv))
	assert.Equal(t, http.StatusConflict, a.call(http.MethodPost, "/api/invoices/"+inv.ID+"/cancel", pkgjwt.RoleAdmin, nil, &e))
	assert.Equal(t, "ALREADY_CANCELLED", e.Code)
}

func TestRouter_ValidarIdentidadYEstadisticas(t *testing.T) {
	a := newAPI(t)

	var out dto.ValidateIdentityResponse
	require.Equal(t, http.StatusOK, a.call(http.MethodPost, "/api/identity/validate", pkgjwt.RoleBodeguero,
		dto.ValidateIdentityRequest{Kind: "ruc", Number: "1790011674001"}, &out))
	assert.True(t, out.Valid)

	var stats dto.SalesStatisticsResponse
	require.Equal(t, http.StatusOK, a.call(http.MethodGet, "/api/sales/statistics?from=2026-10-01&to=2026-10-31", pkgjwt.RoleAdmin, nil, &stats))
	assert.Equal(t, 0, stats.TotalSales)

	var e dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, a.call(http.MethodGet, "/api/invoices/statistics?from=ayer", pkgjwt.RoleAdmin, nil, &e))
}

func TestRouter_HealthYMetrics(t *testing.T) {
	a := newAPI(t)
	var health map[string]string
	assert.Equal(t, http.StatusOK, a.call(http.MethodGet, "/health", "", nil, &health))
	assert.Equal(t, "ok", health["status"])

	resp, err := a.app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
