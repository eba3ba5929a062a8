package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

// MessageSender puerto del transporte de correo (un mensaje de texto plano).
type MessageSender interface {
	Send(to, subject, body string) error
}

// InvoiceEmailer worker de envío de recibos. Cada fallo incrementa el contador
// de la factura y retorna error para que asynq reintente con backoff
// exponencial y jitter; al agotar MaxDeliveryAttempts la tarea queda terminal.
type InvoiceEmailer struct {
	invoiceRepo repository.InvoiceRepository
	sender      MessageSender
	log         *logger.Logger
}

// NewInvoiceEmailer construye el worker.
func NewInvoiceEmailer(invoiceRepo repository.InvoiceRepository, sender MessageSender, log *logger.Logger) *InvoiceEmailer {
	return &InvoiceEmailer{invoiceRepo: invoiceRepo, sender: sender, log: log}
}

// HandleInvoiceEmail procesa una tarea TypeInvoiceEmail: carga la factura con
// sus líneas, arma el recibo de texto plano y lo envía.
func (e *InvoiceEmailer) HandleInvoiceEmail(ctx context.Context, t *asynq.Task) error {
	var payload InvoiceEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		// Payload corrupto: reintentar no lo va a arreglar.
		return fmt.Errorf("unmarshal invoice email payload: %v: %w", err, asynq.SkipRetry)
	}

	invoice, err := e.invoiceRepo.GetByID(payload.InvoiceID)
	if err != nil {
		return e.fail(payload.InvoiceID, "cargar factura", err)
	}
	if invoice == nil {
		// La factura fue eliminada después de encolar; no hay a quién enviarle.
		return fmt.Errorf("factura %s no existe: %w", payload.InvoiceID, asynq.SkipRetry)
	}
	items, err := e.invoiceRepo.GetItemsByInvoiceID(invoice.ID)
	if err != nil {
		return e.fail(invoice.ID, "cargar líneas", err)
	}

	subject := fmt.Sprintf("Invoice #%s", invoice.ID)
	body := buildInvoiceEmailBody(invoice, items)
	if err := e.sender.Send(invoice.CustomerEmail, subject, body); err != nil {
		return e.fail(invoice.ID, "enviar recibo", err)
	}

	if err := e.invoiceRepo.MarkEmailSent(invoice.ID); err != nil {
		return e.fail(invoice.ID, "marcar recibo enviado", err)
	}
	e.log.Info().Str("invoice_id", invoice.ID).Str("email", invoice.CustomerEmail).Msg("recibo enviado")
	return nil
}

// fail registra el intento fallido sobre la factura y propaga el error para
// que asynq programe el reintento. Sobre la factura se guarda el texto pelado
// de la causa (sin el prefijo de contexto), que es lo que ven los tableros.
func (e *InvoiceEmailer) fail(invoiceID, op string, cause error) error {
	if repoErr := e.invoiceRepo.RecordEmailFailure(invoiceID, truncateError(cause.Error())); repoErr != nil {
		e.log.Error().Err(repoErr).Str("invoice_id", invoiceID).Msg("no se pudo registrar el fallo de envío")
	}
	e.log.Warn().Err(cause).Str("invoice_id", invoiceID).Str("op", op).Msg("fallo el envío del recibo")
	return fmt.Errorf("%s: %w", op, cause)
}

// buildInvoiceEmailBody arma el recibo de texto plano: cabecera, una línea por
// producto y resumen de montos.
func buildInvoiceEmailBody(invoice *entity.Invoice, items []*entity.InvoiceItem) string {
	lines := []string{
		fmt.Sprintf("Invoice No: %s", invoice.ID),
		fmt.Sprintf("Customer Name: %s", invoice.CustomerName),
		fmt.Sprintf("Customer Email: %s", invoice.CustomerEmail),
		"",
		"Purchased Items:",
	}
	for _, item := range items {
		lines = append(lines, fmt.Sprintf(
			"- %s (%s) | Qty: %d | Unit: %s | Tax: %s | Total: %s",
			item.ProductName, item.ProductCode, item.Qty,
			item.UnitPrice.StringFixed(2), item.LineTax.StringFixed(2), item.LineTotal.StringFixed(2),
		))
	}
	lines = append(lines,
		"",
		fmt.Sprintf("Gross Amount: %s", invoice.GrossAmount.StringFixed(2)),
		fmt.Sprintf("Tax Amount: %s", invoice.TaxAmount.StringFixed(2)),
		fmt.Sprintf("Net Amount: %s", invoice.NetAmount.StringFixed(2)),
		fmt.Sprintf("Rounded Payable: %s", invoice.RoundedPayable.StringFixed(2)),
		fmt.Sprintf("Paid Amount: %s", invoice.PaidAmount.StringFixed(2)),
		fmt.Sprintf("Balance Amount: %s", invoice.BalanceAmount.StringFixed(2)),
		"",
		"Thank you for your purchase.",
	)
	return strings.Join(lines, "\n")
}
