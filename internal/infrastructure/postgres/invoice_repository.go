package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `id, customer_name, customer_email, gross_amount, tax_amount, net_amount,
		rounded_payable, paid_amount, balance_amount, received_denoms, change_denoms,
		email_sent, email_fail_count, email_last_error, created_at`

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la cabecera de la factura. Los mapas de denominaciones se
// guardan como JSONB.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	received, err := json.Marshal(invoice.ReceivedDenoms)
	if err != nil {
		return fmt.Errorf("marshal received denoms: %w", err)
	}
	change, err := json.Marshal(invoice.ChangeDenoms)
	if err != nil {
		return fmt.Errorf("marshal change denoms: %w", err)
	}
	query := `
		INSERT INTO invoices (id, customer_name, customer_email, gross_amount, tax_amount, net_amount,
			rounded_payable, paid_amount, balance_amount, received_denoms, change_denoms,
			email_sent, email_fail_count, email_last_error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err = r.q.Exec(context.Background(), query,
		invoice.ID, invoice.CustomerName, invoice.CustomerEmail,
		invoice.GrossAmount, invoice.TaxAmount, invoice.NetAmount,
		invoice.RoundedPayable, invoice.PaidAmount, invoice.BalanceAmount,
		received, change,
		invoice.EmailSent, invoice.EmailFailCount, invoice.EmailLastError, invoice.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de la factura con los snapshots de producto.
func (r *InvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	query := `
		INSERT INTO invoice_items (id, invoice_id, product_id, product_name, product_code,
			unit_price, tax_rate, qty, line_subtotal, line_tax, line_total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.InvoiceID, item.ProductID, item.ProductName, item.ProductCode,
		item.UnitPrice, item.TaxRate, item.Qty, item.LineSubtotal, item.LineTax, item.LineTotal,
		item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// GetByID obtiene una factura completa por ID.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	row := r.q.QueryRow(context.Background(), query, id)
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// GetItemsByInvoiceID obtiene las líneas de una factura en orden de creación.
func (r *InvoiceRepo) GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error) {
	query := `
		SELECT id, invoice_id, product_id, product_name, product_code,
			unit_price, tax_rate, qty, line_subtotal, line_tax, line_total, created_at
		FROM invoice_items WHERE invoice_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get invoice items: %w", err)
	}
	defer rows.Close()
	var out []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(
			&it.ID, &it.InvoiceID, &it.ProductID, &it.ProductName, &it.ProductCode,
			&it.UnitPrice, &it.TaxRate, &it.Qty, &it.LineSubtotal, &it.LineTax, &it.LineTotal,
			&it.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &it)
	}
	return out, rows.Err()
}

// List lista facturas filtrando por cliente y rango de fechas, más recientes primero.
func (r *InvoiceRepo) List(filter repository.InvoiceFilter) ([]*entity.Invoice, error) {
	sql := `SELECT ` + invoiceColumns + ` FROM invoices WHERE 1=1`
	args := []any{}
	if filter.CustomerName != "" {
		args = append(args, filter.CustomerName)
		sql += fmt.Sprintf(` AND customer_name ILIKE '%%' || $%d || '%%'`, len(args))
	}
	if filter.CustomerEmail != "" {
		args = append(args, filter.CustomerEmail)
		sql += fmt.Sprintf(` AND customer_email ILIKE '%%' || $%d || '%%'`, len(args))
	}
	if filter.FromDate != nil {
		args = append(args, *filter.FromDate)
		sql += fmt.Sprintf(` AND created_at::date >= $%d::date`, len(args))
	}
	if filter.ToDate != nil {
		args = append(args, *filter.ToDate)
		sql += fmt.Sprintf(` AND created_at::date <= $%d::date`, len(args))
	}
	args = append(args, filter.Limit, filter.Offset)
	sql += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var out []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// Delete elimina la factura; invoice_items cae por ON DELETE CASCADE.
func (r *InvoiceRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}

// MarkEmailSent marca el recibo como enviado y limpia el último error.
func (r *InvoiceRepo) MarkEmailSent(id string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE invoices SET email_sent = true, email_last_error = '' WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark email sent: %w", err)
	}
	return nil
}

// RecordEmailFailure incrementa el contador de fallos y guarda el último error
// truncado a 1000 caracteres (runas, no bytes), dejando email_sent en false.
func (r *InvoiceRepo) RecordEmailFailure(id, lastError string) error {
	if runes := []rune(lastError); len(runes) > 1000 {
		lastError = string(runes[:1000])
	}
	_, err := r.q.Exec(context.Background(),
		`UPDATE invoices
		 SET email_fail_count = email_fail_count + 1, email_last_error = $2, email_sent = false
		 WHERE id = $1`,
		id, lastError)
	if err != nil {
		return fmt.Errorf("record email failure: %w", err)
	}
	return nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var received, change []byte
	err := row.Scan(
		&inv.ID, &inv.CustomerName, &inv.CustomerEmail,
		&inv.GrossAmount, &inv.TaxAmount, &inv.NetAmount,
		&inv.RoundedPayable, &inv.PaidAmount, &inv.BalanceAmount,
		&received, &change,
		&inv.EmailSent, &inv.EmailFailCount, &inv.EmailLastError, &inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(received, &inv.ReceivedDenoms); err != nil {
		return nil, fmt.Errorf("unmarshal received denoms: %w", err)
	}
	if err := json.Unmarshal(change, &inv.ChangeDenoms); err != nil {
		return nil, fmt.Errorf("unmarshal change denoms: %w", err)
	}
	return &inv, nil
}
