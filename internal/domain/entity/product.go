package entity

import (
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain"
)

// ProductKind discriminador del producto.
type ProductKind string

const (
	ProductPhysical ProductKind = "physical" // Afecta inventario
	ProductDigital  ProductKind = "digital"  // Descarga o licencia, sin stock
)

// Product producto del catálogo. Exactamente uno de Physical/Digital está presente según Kind.
// El stock se modifica solo a través del StockLedger.
type Product struct {
	ID        string
	Code      string
	Name      string
	Price     decimal.Decimal
	Kind      ProductKind
	Physical  *PhysicalProduct
	Digital   *DigitalProduct
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PhysicalProduct datos propios de un producto físico.
type PhysicalProduct struct {
	Stock int
}

// DigitalProduct datos propios de un producto digital.
type DigitalProduct struct {
	DownloadURL string
	LicenseKey  string
}

// TracksInventory indica si las ventas del producto reservan stock.
// Un tipo desconocido se trata como físico: el ledger rechaza si no hay stock.
func (p *Product) TracksInventory() bool {
	switch p.Kind {
	case ProductDigital:
		return false
	case ProductPhysical:
		return true
	default:
		return true
	}
}

// Stock devuelve el stock de un producto físico; 0 para digitales.
func (p *Product) Stock() int {
	if p.Kind == ProductPhysical && p.Physical != nil {
		return p.Physical.Stock
	}
	return 0
}

// Validate aplica las reglas comunes y las de la variante.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return domain.Invalid("name", "requerido")
	}
	if strings.TrimSpace(p.Code) == "" {
		return domain.Invalid("code", "requerido")
	}
	if p.Price.IsNegative() {
		return domain.Invalid("price", "no puede ser negativo")
	}
	switch p.Kind {
	case ProductPhysical:
		if p.Physical == nil || p.Digital != nil {
			return domain.Invalid("kind", "un producto físico solo lleva datos físicos")
		}
		if p.Physical.Stock < 0 {
			return domain.Invalid("stock", "no puede ser negativo")
		}
	case ProductDigital:
		if p.Digital == nil || p.Physical != nil {
			return domain.Invalid("kind", "un producto digital solo lleva datos digitales")
		}
		if p.Digital.DownloadURL != "" {
			u, err := url.ParseRequestURI(p.Digital.DownloadURL)
			if err != nil || u.Host == "" {
				return domain.Invalid("download_url", "URL inválida")
			}
		}
	default:
		return domain.Invalid("kind", "debe ser physical o digital")
	}
	return nil
}
