package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChangeRemainingKey clave del sobrante que no pudo representarse con las
// denominaciones disponibles (ej: no existe denominación de valor 1).
const ChangeRemainingKey = "remaining"

// Invoice representa la cabecera de una venta liquidada.
// Nombre y email del cliente se congelan al momento de la venta.
// Invariantes: Gross + Tax = Net; Balance = Paid - RoundedPayable >= 0;
// RoundedPayable es Net truncado a la unidad (los centavos se descartan).
type Invoice struct {
	ID             string
	CustomerName   string
	CustomerEmail  string
	GrossAmount    decimal.Decimal
	TaxAmount      decimal.Decimal
	NetAmount      decimal.Decimal
	RoundedPayable decimal.Decimal
	PaidAmount     decimal.Decimal
	BalanceAmount  decimal.Decimal
	ReceivedDenoms map[string]int64 // valor de denominación -> cantidad recibida
	ChangeDenoms   map[string]int64 // valor -> cantidad de vuelto; puede incluir "remaining"
	EmailSent      bool
	EmailFailCount int
	EmailLastError string // truncado a 1000 caracteres
	CreatedAt      time.Time
}

// InvoiceItem representa una línea de la venta con precio e impuesto congelados.
// Consistencia: LineSubtotal = Qty × UnitPrice; LineTax = LineSubtotal × TaxRate/100;
// LineTotal = LineSubtotal + LineTax (todo a 2 decimales).
type InvoiceItem struct {
	ID           string
	InvoiceID    string
	ProductID    string
	ProductName  string // snapshot para el recibo
	ProductCode  string
	UnitPrice    decimal.Decimal
	TaxRate      decimal.Decimal
	Qty          int64
	LineSubtotal decimal.Decimal
	LineTax      decimal.Decimal
	LineTotal    decimal.Decimal
	CreatedAt    time.Time
}
