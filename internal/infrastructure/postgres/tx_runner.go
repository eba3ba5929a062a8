package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// Ensure TxRunner implements billing.SettlementTxRunner.
var _ billing.SettlementTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunSettlement inicia una transacción con los repos de la liquidación atados a
// la tx y hace Commit o Rollback. Los hooks registrados por fn se ejecutan solo
// después de un Commit exitoso; si hay rollback se descartan.
func (r *TxRunner) RunSettlement(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	invoiceRepo repository.InvoiceRepository,
	hooks *billing.PostCommitHooks,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	productRepo := NewProductRepository(tx)
	customerRepo := NewCustomerRepository(tx)
	invoiceRepo := NewInvoiceRepository(tx)
	hooks := &billing.PostCommitHooks{}

	if err := fn(productRepo, customerRepo, invoiceRepo, hooks); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	hooks.Run()
	return nil
}
