package repository

import (
	"time"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// InvoiceFilter criterios de búsqueda del listado de facturas.
type InvoiceFilter struct {
	CustomerName  string // subcadena, case-insensitive
	CustomerEmail string // subcadena, case-insensitive
	FromDate      *time.Time
	ToDate        *time.Time
	Limit         int
	Offset        int
}

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	CreateItem(item *entity.InvoiceItem) error
	GetByID(id string) (*entity.Invoice, error)
	GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error)
	List(filter InvoiceFilter) ([]*entity.Invoice, error)
	// Delete elimina la factura; las líneas caen en cascada. No toca stock.
	Delete(id string) error
	// MarkEmailSent marca el recibo como enviado y limpia el último error.
	MarkEmailSent(id string) error
	// RecordEmailFailure incrementa el contador de fallos y guarda el último
	// error (truncado a 1000 caracteres), dejando email_sent en false.
	RecordEmailFailure(id, lastError string) error
}
