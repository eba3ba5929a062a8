package dto

import "github.com/shopspring/decimal"

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	Name      string          `json:"name"`
	Code      string          `json:"code"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	Stock     int64           `json:"stock"`
	Status    string          `json:"status,omitempty"` // ENABLED | DISABLED
}

// UpdateProductRequest body para PUT /api/products/:id.
type UpdateProductRequest struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	Stock     int64           `json:"stock"`
	Status    string          `json:"status"`
}

// ProductResponse producto en respuestas.
type ProductResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Code      string          `json:"code"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	Stock     int64           `json:"stock"`
	Status    string          `json:"status"`
	CreatedAt string          `json:"created_at"`
}
