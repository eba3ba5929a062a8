package dto

import "github.com/shopspring/decimal"

// CreateInvoiceRequest body para POST /api/invoices (liquidación de una venta).
// Items y Denominations llegan como strings tal cual los envía el formulario de
// caja; la validación numérica es responsabilidad del Settlement.
type CreateInvoiceRequest struct {
	CustomerName  string               `json:"customer_name"`
	CustomerEmail string               `json:"customer_email"`
	Items         []InvoiceLineRequest `json:"items"`
	// Denominations mapea ID de denominación -> cantidad recibida.
	// Debe venir una entrada por cada denominación habilitada (puede ser "0").
	Denominations map[string]string `json:"denominations"`
}

// InvoiceLineRequest línea del carrito. Una línea con ambos campos vacíos se
// descarta como relleno del formulario.
type InvoiceLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  string `json:"quantity"`
}

// InvoiceResponse factura con detalle para GET /api/invoices/:id.
type InvoiceResponse struct {
	ID             string                `json:"id"`
	CustomerName   string                `json:"customer_name"`
	CustomerEmail  string                `json:"customer_email"`
	GrossAmount    decimal.Decimal       `json:"gross_amount"`
	TaxAmount      decimal.Decimal       `json:"tax_amount"`
	NetAmount      decimal.Decimal       `json:"net_amount"`
	RoundedPayable decimal.Decimal       `json:"rounded_payable"`
	PaidAmount     decimal.Decimal       `json:"paid_amount"`
	BalanceAmount  decimal.Decimal       `json:"balance_amount"`
	ReceivedDenoms map[string]int64      `json:"received_denoms"`
	ChangeDenoms   map[string]int64      `json:"change_denoms"`
	EmailSent      bool                  `json:"email_sent"`
	EmailFailCount int                   `json:"email_fail_count"`
	EmailLastError string                `json:"email_last_error,omitempty"`
	CreatedAt      string                `json:"created_at"`
	Items          []InvoiceItemResponse `json:"items"`
}

// InvoiceItemResponse línea de la factura en la respuesta.
type InvoiceItemResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductCode  string          `json:"product_code"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	Qty          int64           `json:"qty"`
	LineSubtotal decimal.Decimal `json:"line_subtotal"`
	LineTax      decimal.Decimal `json:"line_tax"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

// ListInvoicesRequest filtros para GET /api/invoices.
type ListInvoicesRequest struct {
	CustomerName  string `query:"customer_name"`
	CustomerEmail string `query:"customer_email"`
	FromDate      string `query:"from_date"` // YYYY-MM-DD
	ToDate        string `query:"to_date"`   // YYYY-MM-DD
	PageRequest
}

// InvoiceSummary fila del listado de facturas (sin líneas).
type InvoiceSummary struct {
	ID             string          `json:"id"`
	CustomerName   string          `json:"customer_name"`
	CustomerEmail  string          `json:"customer_email"`
	NetAmount      decimal.Decimal `json:"net_amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	BalanceAmount  decimal.Decimal `json:"balance_amount"`
	EmailSent      bool            `json:"email_sent"`
	EmailFailCount int             `json:"email_fail_count"`
	CreatedAt      string          `json:"created_at"`
}
