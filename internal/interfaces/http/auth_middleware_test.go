package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	apphttp "github.com/jhoicas/Facturacion-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Facturacion-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "facturacion-api-test"
	testExpMin    = 60
)

func bearer(t *testing.T, secret, role string, expMin int) string {
	t.Helper()
	tok, err := pkgjwt.Generate(secret, testUserID, role, testIssuer, expMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// send lanza la petición con el header Authorization tal cual ("" = sin header).
func (a api) send(method, path, authorization string, body string) (int, dto.ErrorResponse) {
	a.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	var e dto.ErrorResponse
	_ = json.NewDecoder(resp.Body).Decode(&e)
	return resp.StatusCode, e
}

// Matriz de permisos de los grupos del router: ventas (admin, vendedor), reportes y
// anulaciones (admin), catálogo (admin, bodeguero) y validación de identidad (cualquier rol).
func TestRouter_PermisosPorRol(t *testing.T) {
	a := newAPI(t)
	identity := `{"kind":"cedula","number":"1710034065"}`

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		role   string
		status int
	}{
		{"vendedor consulta venta", http.MethodGet, "/api/sales/no-existe", "", pkgjwt.RoleVendedor, http.StatusNotFound},
		{"bodeguero no ve ventas", http.MethodGet, "/api/sales/no-existe", "", pkgjwt.RoleBodeguero, http.StatusForbidden},
		{"vendedor no anula facturas", http.MethodPost, "/api/invoices/no-existe/cancel", "", pkgjwt.RoleVendedor, http.StatusForbidden},
		{"admin anula facturas", http.MethodPost, "/api/invoices/no-existe/cancel", "", pkgjwt.RoleAdmin, http.StatusNotFound},
		{"vendedor no ve estadísticas", http.MethodGet, "/api/invoices/statistics?from=2026-10-01&to=2026-10-31", "", pkgjwt.RoleVendedor, http.StatusForbidden},
		{"bodeguero consulta stock", http.MethodGet, "/api/products/no-existe/stock", "", pkgjwt.RoleBodeguero, http.StatusNotFound},
		{"vendedor no administra catálogo", http.MethodGet, "/api/products/no-existe", "", pkgjwt.RoleVendedor, http.StatusForbidden},
		{"rol desconocido valida identidad", http.MethodPost, "/api/identity/validate", identity, "contador", http.StatusOK},
		{"rol desconocido no factura", http.MethodPost, "/api/invoices", `{"sale_id":"x"}`, "contador", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, e := a.send(tc.method, tc.path, bearer(t, testJWTSecret, tc.role, testExpMin), tc.body)
			assert.Equal(t, tc.status, status)
			if tc.status == http.StatusForbidden {
				assert.Equal(t, "FORBIDDEN", e.Code)
			}
		})
	}
}

func TestAuthMiddleware_TokensRechazados(t *testing.T) {
	a := newAPI(t)

	cases := []struct {
		name          string
		authorization string
		code          string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"esquema distinto", "Basic dXNlcjpwYXNz", "INVALID_TOKEN"},
		{"token malformado", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
		{"expirado", bearer(t, testJWTSecret, pkgjwt.RoleAdmin, -1), "INVALID_TOKEN"},
		{"otro secreto", bearer(t, "otro-secret-completamente-distinto", pkgjwt.RoleAdmin, testExpMin), "INVALID_TOKEN"},
		{"sin rol", bearer(t, testJWTSecret, "", testExpMin), "MISSING_ROLE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, e := a.send(http.MethodGet, "/api/sales/statistics?from=2026-10-01&to=2026-10-31", tc.authorization, "")
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, tc.code, e.Code)
		})
	}
}

func TestAuthMiddleware_CargaUsuarioYRol(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": apphttp.GetUserID(c), "role": apphttp.GetRole(c)})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", bearer(t, testJWTSecret, pkgjwt.RoleVendedor, testExpMin))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, pkgjwt.RoleVendedor, body["role"])
}
