package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Tipos de tarea de la cola de envíos.
const (
	TypeInvoiceEmail = "invoice:email"
)

// MaxDeliveryAttempts intentos totales de envío por factura (primer intento +
// reintentos). Agotados, la tarea queda en estado terminal y no se reintenta.
const MaxDeliveryAttempts = 5

// InvoiceEmailPayload payload de la tarea de envío de recibo.
type InvoiceEmailPayload struct {
	InvoiceID string `json:"invoice_id"`
}

// NewInvoiceEmailTask crea la tarea de envío de recibo para una factura.
func NewInvoiceEmailTask(invoiceID string) (*asynq.Task, error) {
	payload, err := json.Marshal(InvoiceEmailPayload{InvoiceID: invoiceID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeInvoiceEmail, payload), nil
}
