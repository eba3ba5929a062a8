package billing

import (
	"fmt"
	"time"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// InvoiceUseCase consultas y administración de facturas ya liquidadas.
type InvoiceUseCase struct {
	invoiceRepo repository.InvoiceRepository
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(invoiceRepo repository.InvoiceRepository) *InvoiceUseCase {
	return &InvoiceUseCase{invoiceRepo: invoiceRepo}
}

// GetInvoice obtiene una factura por ID con sus líneas y estado de envío.
func (uc *InvoiceUseCase) GetInvoice(id string) (*dto.InvoiceResponse, error) {
	invoice, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.invoiceRepo.GetItemsByInvoiceID(id)
	if err != nil {
		return nil, err
	}
	return invoiceToResponse(invoice, items), nil
}

// ListInvoices lista facturas filtrando por cliente y rango de fechas.
func (uc *InvoiceUseCase) ListInvoices(in dto.ListInvoicesRequest) ([]*dto.InvoiceSummary, error) {
	in.DefaultPage()
	filter := repository.InvoiceFilter{
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		Limit:         in.Limit,
		Offset:        in.Offset,
	}
	if in.FromDate != "" {
		from, err := time.Parse("2006-01-02", in.FromDate)
		if err != nil {
			return nil, domain.NewValidationError(fmt.Sprintf("Invalid from_date %q.", in.FromDate))
		}
		filter.FromDate = &from
	}
	if in.ToDate != "" {
		to, err := time.Parse("2006-01-02", in.ToDate)
		if err != nil {
			return nil, domain.NewValidationError(fmt.Sprintf("Invalid to_date %q.", in.ToDate))
		}
		filter.ToDate = &to
	}

	invoices, err := uc.invoiceRepo.List(filter)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceSummary, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, &dto.InvoiceSummary{
			ID:             inv.ID,
			CustomerName:   inv.CustomerName,
			CustomerEmail:  inv.CustomerEmail,
			NetAmount:      inv.NetAmount,
			PaidAmount:     inv.PaidAmount,
			BalanceAmount:  inv.BalanceAmount,
			EmailSent:      inv.EmailSent,
			EmailFailCount: inv.EmailFailCount,
			CreatedAt:      inv.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

// DeleteInvoice elimina la factura y sus líneas (cascada). El stock no se repone.
func (uc *InvoiceUseCase) DeleteInvoice(id string) error {
	invoice, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return err
	}
	if invoice == nil {
		return domain.ErrNotFound
	}
	return uc.invoiceRepo.Delete(id)
}
