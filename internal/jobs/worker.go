package jobs

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/jhoicas/Facturacion-api/pkg/config"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

// RedisOpt traduce la configuración de cola a las opciones de conexión de asynq.
func RedisOpt(cfg config.QueueConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}

// NewWorkerServer construye el servidor asynq con el pool de workers y un
// ErrorHandler que deja traza cuando una tarea agota sus reintentos.
func NewWorkerServer(cfg config.QueueConfig, log *logger.Logger) *asynq.Server {
	return asynq.NewServer(RedisOpt(cfg), asynq.Config{
		Concurrency: cfg.Concurrency,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			ev := log.Warn()
			if retried >= maxRetry {
				// Último intento: la tarea queda archivada como fallo terminal.
				ev = log.Error()
			}
			ev.Err(err).
				Str("task_type", task.Type()).
				Int("retried", retried).
				Int("max_retry", maxRetry).
				Msg("fallo en tarea de la cola")
		}),
	})
}

// NewMux registra los handlers de las tareas conocidas.
func NewMux(emailer *InvoiceEmailer) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeInvoiceEmail, emailer.HandleInvoiceEmail)
	return mux
}
