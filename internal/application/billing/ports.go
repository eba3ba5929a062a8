package billing

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// PostCommitHooks acumula callbacks que el runner ejecuta únicamente después
// de un Commit exitoso; en rollback se descartan. Así nunca se encola un
// recibo para una factura que podría no existir.
type PostCommitHooks struct {
	fns []func()
}

// Add registra un callback post-commit.
func (h *PostCommitHooks) Add(fn func()) {
	h.fns = append(h.fns, fn)
}

// Run drena y ejecuta los callbacks registrados. El runner la invoca tras Commit.
func (h *PostCommitHooks) Run() {
	fns := h.fns
	h.fns = nil
	for _, fn := range fns {
		fn()
	}
}

// SettlementTxRunner ejecuta fn dentro de una transacción con los repos atados
// a la tx. Los hooks registrados en fn corren solo si el Commit confirma.
type SettlementTxRunner interface {
	RunSettlement(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		customerRepo repository.CustomerRepository,
		invoiceRepo repository.InvoiceRepository,
		hooks *PostCommitHooks,
	) error) error
}

// DeliveryEnqueuer entrega el ID de la factura recién creada a la cola de
// envío de recibos. El fallo de encolado nunca llega al cajero: el enqueuer
// lo registra sobre la factura y retorna.
type DeliveryEnqueuer interface {
	Enqueue(ctx context.Context, invoiceID string)
}
