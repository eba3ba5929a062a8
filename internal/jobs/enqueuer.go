package jobs

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

// TaskEnqueuer subconjunto de asynq.Client usado por el enqueuer (fakeable en tests).
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

var _ billing.DeliveryEnqueuer = (*DeliveryEnqueuer)(nil)

// DeliveryEnqueuer entrega tareas de envío de recibo a la cola durable.
// Si el broker no está disponible, registra el fallo sobre la factura
// ("Queue error: ...") y retorna: el cajero nunca ve este error, y la tarea
// jamás existió en la cola, así que no habrá reintentos.
type DeliveryEnqueuer struct {
	client      TaskEnqueuer
	invoiceRepo repository.InvoiceRepository
	log         *logger.Logger
}

// NewDeliveryEnqueuer construye el enqueuer. client suele ser *asynq.Client.
func NewDeliveryEnqueuer(client TaskEnqueuer, invoiceRepo repository.InvoiceRepository, log *logger.Logger) *DeliveryEnqueuer {
	return &DeliveryEnqueuer{client: client, invoiceRepo: invoiceRepo, log: log}
}

// Enqueue encola el envío del recibo de la factura indicada.
func (e *DeliveryEnqueuer) Enqueue(ctx context.Context, invoiceID string) {
	task, err := NewInvoiceEmailTask(invoiceID)
	if err == nil {
		_, err = e.client.EnqueueContext(ctx, task, asynq.MaxRetry(MaxDeliveryAttempts-1))
	}
	if err == nil {
		e.log.Info().Str("invoice_id", invoiceID).Msg("recibo encolado")
		return
	}

	e.log.Error().Err(err).Str("invoice_id", invoiceID).Msg("no se pudo encolar el recibo")
	msg := "Queue error: " + truncateError(err.Error())
	if repoErr := e.invoiceRepo.RecordEmailFailure(invoiceID, msg); repoErr != nil {
		e.log.Error().Err(repoErr).Str("invoice_id", invoiceID).Msg("no se pudo registrar el fallo de encolado")
	}
}

// truncateError corta el texto de la excepción a 1000 caracteres,
// contando runas para no partir una secuencia UTF-8 por la mitad.
func truncateError(s string) string {
	runes := []rune(s)
	if len(runes) > 1000 {
		return string(runes[:1000])
	}
	return s
}
