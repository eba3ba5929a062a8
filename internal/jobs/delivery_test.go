package jobs_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
	"github.com/jhoicas/Facturacion-api/internal/jobs"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeInvoiceRepo struct {
	invoices map[string]*entity.Invoice
	items    map[string][]*entity.InvoiceItem
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices: make(map[string]*entity.Invoice),
		items:    make(map[string][]*entity.InvoiceItem),
	}
}

func (r *fakeInvoiceRepo) Create(inv *entity.Invoice) error { r.invoices[inv.ID] = inv; return nil }
func (r *fakeInvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	r.items[item.InvoiceID] = append(r.items[item.InvoiceID], item)
	return nil
}
func (r *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	return r.invoices[id], nil
}
func (r *fakeInvoiceRepo) GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error) {
	return r.items[invoiceID], nil
}
func (r *fakeInvoiceRepo) List(repository.InvoiceFilter) ([]*entity.Invoice, error) {
	return nil, nil
}
func (r *fakeInvoiceRepo) Delete(id string) error { delete(r.invoices, id); return nil }
func (r *fakeInvoiceRepo) MarkEmailSent(id string) error {
	if inv := r.invoices[id]; inv != nil {
		inv.EmailSent = true
		inv.EmailLastError = ""
	}
	return nil
}
func (r *fakeInvoiceRepo) RecordEmailFailure(id, lastError string) error {
	if inv := r.invoices[id]; inv != nil {
		if runes := []rune(lastError); len(runes) > 1000 {
			lastError = string(runes[:1000])
		}
		inv.EmailFailCount++
		inv.EmailLastError = lastError
		inv.EmailSent = false
	}
	return nil
}

type fakeSender struct {
	err      error
	sentTo   string
	subject  string
	body     string
	attempts int
}

func (s *fakeSender) Send(to, subject, body string) error {
	s.attempts++
	if s.err != nil {
		return s.err
	}
	s.sentTo = to
	s.subject = subject
	s.body = body
	return nil
}

type fakeTaskClient struct {
	err   error
	tasks []*asynq.Task
	opts  [][]asynq.Option
}

func (c *fakeTaskClient) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.tasks = append(c.tasks, task)
	c.opts = append(c.opts, opts)
	return &asynq.TaskInfo{ID: "task-1", Type: task.Type()}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func seedInvoice(repo *fakeInvoiceRepo) *entity.Invoice {
	inv := &entity.Invoice{
		ID:             "inv-1",
		CustomerName:   "Ana Gómez",
		CustomerEmail:  "ana@example.com",
		GrossAmount:    decimal.RequireFromString("40.00"),
		TaxAmount:      decimal.RequireFromString("2.00"),
		NetAmount:      decimal.RequireFromString("42.00"),
		RoundedPayable: decimal.RequireFromString("42.00"),
		PaidAmount:     decimal.RequireFromString("1000.00"),
		BalanceAmount:  decimal.RequireFromString("958.00"),
		CreatedAt:      time.Now(),
	}
	repo.invoices[inv.ID] = inv
	repo.items[inv.ID] = []*entity.InvoiceItem{{
		ID:          "it-1",
		InvoiceID:   inv.ID,
		ProductID:   "p1",
		ProductName: "Keyboard",
		ProductCode: "KB-01",
		UnitPrice:   decimal.RequireFromString("20.00"),
		TaxRate:     decimal.RequireFromString("5.00"),
		Qty:         2,
		LineTax:     decimal.RequireFromString("2.00"),
		LineTotal:   decimal.RequireFromString("42.00"),
	}}
	return inv
}

func emailTask(t *testing.T, invoiceID string) *asynq.Task {
	t.Helper()
	task, err := jobs.NewInvoiceEmailTask(invoiceID)
	require.NoError(t, err)
	return task
}

// ──────────────────────────────────────────────────────────────────────────────
// Worker de envío
// ──────────────────────────────────────────────────────────────────────────────

// Envío exitoso: el recibo sale al email del cliente y la factura queda marcada.
func TestHandleInvoiceEmail_Exitoso(t *testing.T) {
	repo := newFakeInvoiceRepo()
	inv := seedInvoice(repo)
	sender := &fakeSender{}
	emailer := jobs.NewInvoiceEmailer(repo, sender, testLogger())

	err := emailer.HandleInvoiceEmail(context.Background(), emailTask(t, inv.ID))
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", sender.sentTo)
	assert.Equal(t, "Invoice #inv-1", sender.subject)
	assert.True(t, inv.EmailSent)
	assert.Equal(t, 0, inv.EmailFailCount)
	assert.Empty(t, inv.EmailLastError)
}

// El cuerpo del recibo lleva cabecera, una línea por producto y los montos.
func TestHandleInvoiceEmail_CuerpoDelRecibo(t *testing.T) {
	repo := newFakeInvoiceRepo()
	inv := seedInvoice(repo)
	sender := &fakeSender{}
	emailer := jobs.NewInvoiceEmailer(repo, sender, testLogger())

	require.NoError(t, emailer.HandleInvoiceEmail(context.Background(), emailTask(t, inv.ID)))

	lines := strings.Split(sender.body, "\n")
	assert.Equal(t, "Invoice No: inv-1", lines[0])
	assert.Equal(t, "Customer Name: Ana Gómez", lines[1])
	assert.Equal(t, "Customer Email: ana@example.com", lines[2])
	assert.Equal(t, "", lines[3])
	assert.Equal(t, "Purchased Items:", lines[4])
	assert.Equal(t, "- Keyboard (KB-01) | Qty: 2 | Unit: 20.00 | Tax: 2.00 | Total: 42.00", lines[5])
	assert.Contains(t, sender.body, "Gross Amount: 40.00")
	assert.Contains(t, sender.body, "Tax Amount: 2.00")
	assert.Contains(t, sender.body, "Net Amount: 42.00")
	assert.Contains(t, sender.body, "Rounded Payable: 42.00")
	assert.Contains(t, sender.body, "Paid Amount: 1000.00")
	assert.Contains(t, sender.body, "Balance Amount: 958.00")
	assert.Equal(t, "Thank you for your purchase.", lines[len(lines)-1])
}

// Fallo de SMTP: se registra sobre la factura y el error se propaga para que
// la cola reintente.
func TestHandleInvoiceEmail_FalloRegistraYPropagar(t *testing.T) {
	repo := newFakeInvoiceRepo()
	inv := seedInvoice(repo)
	sender := &fakeSender{err: errors.New("smtp: connection refused")}
	emailer := jobs.NewInvoiceEmailer(repo, sender, testLogger())

	err := emailer.HandleInvoiceEmail(context.Background(), emailTask(t, inv.ID))
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry, "el fallo de envío debe reintentarse")

	assert.False(t, inv.EmailSent)
	assert.Equal(t, 1, inv.EmailFailCount)
	assert.Equal(t, "smtp: connection refused", inv.EmailLastError,
		"sobre la factura va el texto pelado de la causa, sin prefijo de contexto")
}

// Cada fallo acumula en el contador; un envío posterior exitoso limpia el error.
func TestHandleInvoiceEmail_ContadorDeFallosYRecuperacion(t *testing.T) {
	repo := newFakeInvoiceRepo()
	inv := seedInvoice(repo)
	sender := &fakeSender{err: errors.New("smtp timeout")}
	emailer := jobs.NewInvoiceEmailer(repo, sender, testLogger())

	for i := 0; i < 3; i++ {
		require.Error(t, emailer.HandleInvoiceEmail(context.Background(), emailTask(t, inv.ID)))
	}
	assert.Equal(t, 3, inv.EmailFailCount)

	sender.err = nil
	require.NoError(t, emailer.HandleInvoiceEmail(context.Background(), emailTask(t, inv.ID)))
	assert.True(t, inv.EmailSent)
	assert.Empty(t, inv.EmailLastError)
	assert.Equal(t, 3, inv.EmailFailCount, "el contador histórico no se resetea")
}

// Payload corrupto o factura eliminada: no tiene sentido reintentar.
func TestHandleInvoiceEmail_CasosSinReintento(t *testing.T) {
	repo := newFakeInvoiceRepo()
	sender := &fakeSender{}
	emailer := jobs.NewInvoiceEmailer(repo, sender, testLogger())

	err := emailer.HandleInvoiceEmail(context.Background(), asynq.NewTask(jobs.TypeInvoiceEmail, []byte("{no json")))
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = emailer.HandleInvoiceEmail(context.Background(), emailTask(t, "borrada"))
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Zero(t, sender.attempts, "no debe intentarse ningún envío")
}

// ──────────────────────────────────────────────────────────────────────────────
// Enqueuer
// ──────────────────────────────────────────────────────────────────────────────

// Encolado exitoso: una tarea con el tope de reintentos configurado.
func TestEnqueue_Exitoso(t *testing.T) {
	repo := newFakeInvoiceRepo()
	inv := seedInvoice(repo)
	client := &fakeTaskClient{}
	enq := jobs.NewDeliveryEnqueuer(client, repo, testLogger())

	enq.Enqueue(context.Background(), inv.ID)

	require.Len(t, client.tasks, 1)
	assert.Equal(t, jobs.TypeInvoiceEmail, client.tasks[0].Type())
	assert.Len(t, client.opts[0], 1, "debe llevar la opción MaxRetry")
	assert.Equal(t, 0, inv.EmailFailCount)
}

// Broker caído: el fallo queda sobre la factura con el prefijo "Queue error: "
// y el cajero nunca ve el error.
func TestEnqueue_BrokerCaidoRegistraFallo(t *testing.T) {
	repo := newFakeInvoiceRepo()
	inv := seedInvoice(repo)
	client := &fakeTaskClient{err: errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")}
	enq := jobs.NewDeliveryEnqueuer(client, repo, testLogger())

	enq.Enqueue(context.Background(), inv.ID)

	assert.False(t, inv.EmailSent)
	assert.Equal(t, 1, inv.EmailFailCount)
	assert.True(t, strings.HasPrefix(inv.EmailLastError, "Queue error: "))
	assert.Contains(t, inv.EmailLastError, "connection refused")
}

// El texto de la excepción se trunca a 1000 caracteres antes del registro.
func TestEnqueue_TruncaErroresLargos(t *testing.T) {
	repo := newFakeInvoiceRepo()
	inv := seedInvoice(repo)
	client := &fakeTaskClient{err: errors.New(strings.Repeat("x", 5000))}
	enq := jobs.NewDeliveryEnqueuer(client, repo, testLogger())

	enq.Enqueue(context.Background(), inv.ID)

	assert.LessOrEqual(t, len(inv.EmailLastError), 1000+len("Queue error: "))
	assert.True(t, strings.HasPrefix(inv.EmailLastError, "Queue error: "))
}

// El truncado cuenta runas: un error con caracteres multibyte nunca queda
// partido a mitad de secuencia UTF-8.
func TestEnqueue_TruncaEnLimiteDeRuna(t *testing.T) {
	repo := newFakeInvoiceRepo()
	inv := seedInvoice(repo)
	client := &fakeTaskClient{err: errors.New(strings.Repeat("ñ", 1500))}
	enq := jobs.NewDeliveryEnqueuer(client, repo, testLogger())

	enq.Enqueue(context.Background(), inv.ID)

	assert.True(t, utf8.ValidString(inv.EmailLastError))
	assert.True(t, strings.HasPrefix(inv.EmailLastError, "Queue error: "))
	assert.Equal(t, 1000, utf8.RuneCountInString(inv.EmailLastError),
		"la columna guarda a lo sumo 1000 caracteres")
	assert.True(t, strings.HasSuffix(inv.EmailLastError, "ñ"))
}
