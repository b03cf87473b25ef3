package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// Kind "physical" usa Stock; "digital" usa DownloadURL y LicenseKey.
type CreateProductRequest struct {
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Kind        string          `json:"kind"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock,omitempty"`
	DownloadURL string          `json:"download_url,omitempty"`
	LicenseKey  string          `json:"license_key,omitempty"`
}

// StockResponse stock disponible de un producto.
type StockResponse struct {
	ProductID string `json:"product_id"`
	Available int    `json:"available"`
	Tracked   bool   `json:"tracked"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Kind        string          `json:"kind"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	DownloadURL string          `json:"download_url,omitempty"`
	LicenseKey  string          `json:"license_key,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
