package billing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// SettleUseCase liquida una venta: valida carrito y efectivo, calcula montos,
// persiste factura + líneas + descuento de stock en una sola transacción y
// encola el envío del recibo después del commit.
type SettleUseCase struct {
	txRunner     SettlementTxRunner
	productRepo  repository.ProductRepository
	denomRepo    repository.DenominationRepository
	customerRepo repository.CustomerRepository
	invoiceRepo  repository.InvoiceRepository
	enqueuer     DeliveryEnqueuer
}

// NewSettleUseCase construye el caso de uso.
func NewSettleUseCase(
	txRunner SettlementTxRunner,
	productRepo repository.ProductRepository,
	denomRepo repository.DenominationRepository,
	customerRepo repository.CustomerRepository,
	invoiceRepo repository.InvoiceRepository,
	enqueuer DeliveryEnqueuer,
) *SettleUseCase {
	return &SettleUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		denomRepo:    denomRepo,
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
		enqueuer:     enqueuer,
	}
}

// mergedLine línea del carrito después de fusionar productos repetidos.
type mergedLine struct {
	productID string
	qty       int64
}

// Settle ejecuta la liquidación completa. Cualquier error de validación se
// retorna como *domain.ValidationError sin haber tocado la base de datos.
func (uc *SettleUseCase) Settle(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	customerName := strings.TrimSpace(in.CustomerName)
	customerEmail := strings.ToLower(strings.TrimSpace(in.CustomerEmail))

	if customerName == "" {
		return nil, domain.NewValidationError("Customer name is required.")
	}
	if customerEmail == "" {
		return nil, domain.NewValidationError("Customer email is required.")
	}

	lines, err := parseCartLines(in.Items)
	if err != nil {
		return nil, err
	}

	productsByID, err := uc.productRepo.GetByIDs(lineProductIDs(lines))
	if err != nil {
		return nil, fmt.Errorf("cargar productos: %w", err)
	}
	if len(productsByID) != len(lines) {
		return nil, domain.NewValidationError("One or more selected products do not exist.")
	}
	for _, line := range lines {
		product := productsByID[line.productID]
		if product.Status != entity.StatusEnabled {
			return nil, domain.NewValidationError(fmt.Sprintf("%s is disabled.", product.Name))
		}
		if line.qty > product.Stock {
			return nil, domain.NewValidationError(fmt.Sprintf(
				"Insufficient stock for %s. Available stock is %d.", product.Name, product.Stock))
		}
	}

	denominations, err := uc.denomRepo.ListEnabled()
	if err != nil {
		return nil, fmt.Errorf("cargar denominaciones: %w", err)
	}
	receivedDenoms, paidAmount, err := parseReceivedDenoms(in.Denominations, denominations)
	if err != nil {
		return nil, err
	}

	// Cálculo de montos, todo en decimal cuantizado a 2 decimales en cada
	// paso. La cuantización usa redondeo bancario (half to even): un empate
	// de medio centavo va al dígito par, 0.025 -> 0.02 y 0.035 -> 0.04.
	now := time.Now()
	grossAmount := decimal.Zero
	taxAmount := decimal.Zero
	invoiceID := uuid.New().String()
	items := make([]*entity.InvoiceItem, 0, len(lines))
	for _, line := range lines {
		product := productsByID[line.productID]
		unitPrice := product.UnitPrice.RoundBank(2)
		taxRate := product.TaxRate.RoundBank(2)
		lineSubtotal := unitPrice.Mul(decimal.NewFromInt(line.qty)).RoundBank(2)
		lineTax := lineSubtotal.Mul(taxRate).Div(decimal.NewFromInt(100)).RoundBank(2)
		lineTotal := lineSubtotal.Add(lineTax).RoundBank(2)

		grossAmount = grossAmount.Add(lineSubtotal)
		taxAmount = taxAmount.Add(lineTax)
		items = append(items, &entity.InvoiceItem{
			ID:           uuid.New().String(),
			InvoiceID:    invoiceID,
			ProductID:    product.ID,
			ProductName:  product.Name,
			ProductCode:  product.Code,
			UnitPrice:    unitPrice,
			TaxRate:      taxRate,
			Qty:          line.qty,
			LineSubtotal: lineSubtotal,
			LineTax:      lineTax,
			LineTotal:    lineTotal,
			CreatedAt:    now,
		})
	}

	grossAmount = grossAmount.RoundBank(2)
	taxAmount = taxAmount.RoundBank(2)
	netAmount := grossAmount.Add(taxAmount).RoundBank(2)
	// El pagable se trunca a la unidad entera: los centavos se descartan, no se redondean.
	roundedPayable := netAmount.Truncate(0).RoundBank(2)
	balanceAmount := paidAmount.Sub(roundedPayable).RoundBank(2)

	if balanceAmount.IsNegative() {
		return nil, domain.NewValidationError("Cash paid by customer is less than rounded payable amount.")
	}

	changeDenoms := AllocateChange(balanceAmount.IntPart(), denominations)

	invoice := &entity.Invoice{
		ID:             invoiceID,
		CustomerName:   customerName,
		CustomerEmail:  customerEmail,
		GrossAmount:    grossAmount,
		TaxAmount:      taxAmount,
		NetAmount:      netAmount,
		RoundedPayable: roundedPayable,
		PaidAmount:     paidAmount,
		BalanceAmount:  balanceAmount,
		ReceivedDenoms: receivedDenoms,
		ChangeDenoms:   changeDenoms,
		EmailSent:      false,
		CreatedAt:      now,
	}

	// Mutación atómica: upsert de cliente, factura, líneas y descuento de stock.
	// El encolado del recibo queda como hook post-commit.
	err = uc.txRunner.RunSettlement(ctx, func(
		productRepo repository.ProductRepository,
		customerRepo repository.CustomerRepository,
		invoiceRepo repository.InvoiceRepository,
		hooks *PostCommitHooks,
	) error {
		if err := upsertCustomer(customerRepo, customerName, customerEmail, now); err != nil {
			return err
		}
		if err := invoiceRepo.Create(invoice); err != nil {
			return err
		}
		for _, item := range items {
			if err := invoiceRepo.CreateItem(item); err != nil {
				return err
			}
		}
		// Descuento de stock con la fila bloqueada: ventas concurrentes del
		// mismo producto se serializan aquí y no pueden sobrevender.
		for _, line := range lines {
			locked, err := productRepo.GetByIDForUpdate(line.productID)
			if err != nil {
				return err
			}
			if locked == nil {
				return domain.NewValidationError("One or more selected products do not exist.")
			}
			if line.qty > locked.Stock {
				return domain.NewValidationError(fmt.Sprintf(
					"Insufficient stock for %s. Available stock is %d.", locked.Name, locked.Stock))
			}
			if err := productRepo.DecrementStock(line.productID, line.qty); err != nil {
				return err
			}
		}
		hooks.Add(func() { uc.enqueuer.Enqueue(ctx, invoice.ID) })
		return nil
	})
	if err != nil {
		return nil, err
	}

	return invoiceToResponse(invoice, items), nil
}

// parseCartLines descarta líneas de relleno, valida cada línea restante y
// fusiona productos repetidos sumando cantidades (orden de primera aparición).
func parseCartLines(raw []dto.InvoiceLineRequest) ([]mergedLine, error) {
	inputs := make([]dto.InvoiceLineRequest, 0, len(raw))
	for _, line := range raw {
		productID := strings.TrimSpace(line.ProductID)
		quantity := strings.TrimSpace(line.Quantity)
		if productID == "" && quantity == "" {
			continue // fila vacía del formulario
		}
		inputs = append(inputs, dto.InvoiceLineRequest{ProductID: productID, Quantity: quantity})
	}
	if len(inputs) == 0 {
		return nil, domain.NewValidationError("Add at least one product line.")
	}

	qtyByProduct := make(map[string]int64)
	order := make([]string, 0, len(inputs))
	for _, line := range inputs {
		if line.ProductID == "" || line.Quantity == "" {
			return nil, domain.NewValidationError("Each bill row needs product and quantity.")
		}
		qty, err := strconv.ParseInt(line.Quantity, 10, 64)
		if err != nil {
			return nil, domain.NewValidationError("Invalid product or quantity value.")
		}
		if qty <= 0 {
			return nil, domain.NewValidationError("Quantity must be greater than zero.")
		}
		if _, seen := qtyByProduct[line.ProductID]; !seen {
			order = append(order, line.ProductID)
		}
		qtyByProduct[line.ProductID] += qty
	}

	lines := make([]mergedLine, 0, len(order))
	for _, productID := range order {
		lines = append(lines, mergedLine{productID: productID, qty: qtyByProduct[productID]})
	}
	return lines, nil
}

func lineProductIDs(lines []mergedLine) []string {
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.productID)
	}
	return ids
}

// parseReceivedDenoms valida el conteo recibido por cada denominación
// habilitada y calcula el monto pagado = Σ valor × cantidad.
func parseReceivedDenoms(counts map[string]string, denominations []*entity.Denomination) (map[string]int64, decimal.Decimal, error) {
	received := make(map[string]int64, len(denominations))
	paid := decimal.Zero
	for _, denom := range denominations {
		raw := strings.TrimSpace(counts[denom.ID])
		if raw == "" {
			raw = "0"
		}
		count, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, decimal.Zero, domain.NewValidationError(fmt.Sprintf(
				"Invalid denomination count for %d.", denom.Value))
		}
		if count < 0 {
			return nil, decimal.Zero, domain.NewValidationError("Denomination count cannot be negative.")
		}
		received[strconv.FormatInt(denom.Value, 10)] = count
		paid = paid.Add(decimal.NewFromInt(denom.Value).Mul(decimal.NewFromInt(count)))
	}
	return received, paid.RoundBank(2), nil
}

// upsertCustomer crea el cliente si el email no existe; si existe con otro
// nombre, solo refresca el nombre. La constraint única del email es la fuente
// de verdad: ante una carrera con otro request se reintenta una vez.
func upsertCustomer(customerRepo repository.CustomerRepository, name, email string, now time.Time) error {
	existing, err := customerRepo.GetByEmail(email)
	if err != nil {
		return err
	}
	if existing == nil {
		customer := &entity.Customer{
			ID:        uuid.New().String(),
			Name:      name,
			Email:     email,
			Status:    entity.StatusEnabled,
			CreatedAt: now,
			UpdatedAt: now,
		}
		err := customerRepo.Create(customer)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return err
		}
		// Otro request creó el cliente entre el GET y el INSERT.
		existing, err = customerRepo.GetByEmail(email)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrConflict
		}
	}
	if existing.Name != name {
		return customerRepo.UpdateName(existing.ID, name)
	}
	return nil
}

func invoiceToResponse(inv *entity.Invoice, items []*entity.InvoiceItem) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:             inv.ID,
		CustomerName:   inv.CustomerName,
		CustomerEmail:  inv.CustomerEmail,
		GrossAmount:    inv.GrossAmount,
		TaxAmount:      inv.TaxAmount,
		NetAmount:      inv.NetAmount,
		RoundedPayable: inv.RoundedPayable,
		PaidAmount:     inv.PaidAmount,
		BalanceAmount:  inv.BalanceAmount,
		ReceivedDenoms: inv.ReceivedDenoms,
		ChangeDenoms:   inv.ChangeDenoms,
		EmailSent:      inv.EmailSent,
		EmailFailCount: inv.EmailFailCount,
		EmailLastError: inv.EmailLastError,
		CreatedAt:      inv.CreatedAt.Format(time.RFC3339),
		Items:          make([]dto.InvoiceItemResponse, 0, len(items)),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ID:           item.ID,
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductCode:  item.ProductCode,
			UnitPrice:    item.UnitPrice,
			TaxRate:      item.TaxRate,
			Qty:          item.Qty,
			LineSubtotal: item.LineSubtotal,
			LineTax:      item.LineTax,
			LineTotal:    item.LineTotal,
		})
	}
	return resp
}
