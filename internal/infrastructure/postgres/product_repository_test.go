package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

func newProductMock(t *testing.T) (pgxmock.PgxPoolIface, *ProductRepo) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewProductRepository(mock)
}

func sampleProduct() *entity.Product {
	now := time.Now()
	return &entity.Product{
		ID:        "p1",
		Name:      "Keyboard",
		Code:      "KB-01",
		UnitPrice: decimal.RequireFromString("20.00"),
		TaxRate:   decimal.RequireFromString("5.00"),
		Stock:     10,
		Status:    entity.StatusEnabled,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func productRows(p *entity.Product) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "name", "code", "unit_price", "tax_rate", "stock", "status", "created_at", "updated_at",
	}).AddRow(p.ID, p.Name, p.Code, p.UnitPrice, p.TaxRate, p.Stock, string(p.Status), p.CreatedAt, p.UpdatedAt)
}

func TestProductRepo_Create(t *testing.T) {
	mock, repo := newProductMock(t)
	p := sampleProduct()

	mock.ExpectExec(`INSERT INTO products`).
		WithArgs(p.ID, p.Name, p.Code, p.UnitPrice, p.TaxRate, p.Stock, "ENABLED", p.CreatedAt, p.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(p))
	require.NoError(t, mock.ExpectationsWereMet())
}

// Código repetido: la violación del unique se traduce a ErrDuplicate.
func TestProductRepo_Create_CodigoDuplicado(t *testing.T) {
	mock, repo := newProductMock(t)
	p := sampleProduct()

	mock.ExpectExec(`INSERT INTO products`).
		WithArgs(p.ID, p.Name, p.Code, p.UnitPrice, p.TaxRate, p.Stock, "ENABLED", p.CreatedAt, p.UpdatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(p)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// Sin filas no es error: el repo responde (nil, nil) y el caso de uso decide.
func TestProductRepo_GetByID_NoExiste(t *testing.T) {
	mock, repo := newProductMock(t)

	mock.ExpectQuery(`SELECT .+ FROM products WHERE id = \$1`).
		WithArgs("nope").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "name", "code", "unit_price", "tax_rate", "stock", "status", "created_at", "updated_at",
		}))

	p, err := repo.GetByID("nope")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestProductRepo_GetByID(t *testing.T) {
	mock, repo := newProductMock(t)
	want := sampleProduct()

	mock.ExpectQuery(`SELECT .+ FROM products WHERE id = \$1`).
		WithArgs(want.ID).
		WillReturnRows(productRows(want))

	got, err := repo.GetByID(want.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, entity.StatusEnabled, got.Status)
	assert.True(t, want.UnitPrice.Equal(got.UnitPrice))
}

// El bloqueo de fila usa FOR UPDATE para serializar ventas concurrentes.
func TestProductRepo_GetByIDForUpdate(t *testing.T) {
	mock, repo := newProductMock(t)
	want := sampleProduct()

	mock.ExpectQuery(`SELECT .+ FROM products WHERE id = \$1 FOR UPDATE`).
		WithArgs(want.ID).
		WillReturnRows(productRows(want))

	got, err := repo.GetByIDForUpdate(want.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Descuento con guarda: si el UPDATE afecta una fila, el stock alcanzaba.
func TestProductRepo_DecrementStock(t *testing.T) {
	mock, repo := newProductMock(t)

	mock.ExpectExec(`UPDATE products SET stock = stock - \$2, updated_at = now\(\) WHERE id = \$1 AND stock >= \$2`).
		WithArgs("p1", int64(3)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.DecrementStock("p1", 3))
	require.NoError(t, mock.ExpectationsWereMet())
}

// Si la guarda no se cumple (otra venta ganó la carrera), cero filas afectadas
// se traduce a ErrInsufficientStock.
func TestProductRepo_DecrementStock_GuardaPierde(t *testing.T) {
	mock, repo := newProductMock(t)

	mock.ExpectExec(`UPDATE products SET stock = stock - \$2, updated_at = now\(\) WHERE id = \$1 AND stock >= \$2`).
		WithArgs("p1", int64(999)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.DecrementStock("p1", 999)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// Borrar un producto facturado choca contra la FK y se traduce a ErrConflict.
func TestProductRepo_Delete_ConVentas(t *testing.T) {
	mock, repo := newProductMock(t)

	mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).
		WithArgs("p1").
		WillReturnError(&pgconn.PgError{Code: "23503"})

	err := repo.Delete("p1")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestProductRepo_GetByIDs(t *testing.T) {
	mock, repo := newProductMock(t)
	p := sampleProduct()

	mock.ExpectQuery(`SELECT .+ FROM products WHERE id = ANY\(\$1\)`).
		WithArgs([]string{"p1", "nope"}).
		WillReturnRows(productRows(p))

	got, err := repo.GetByIDs([]string{"p1", "nope"})
	require.NoError(t, err)
	assert.Len(t, got, 1, "solo los IDs existentes aparecen en el mapa")
	assert.NotNil(t, got["p1"])
}

func TestProductRepo_Create_ErrorDeConexion(t *testing.T) {
	mock, repo := newProductMock(t)
	p := sampleProduct()

	mock.ExpectExec(`INSERT INTO products`).
		WithArgs(p.ID, p.Name, p.Code, p.UnitPrice, p.TaxRate, p.Stock, "ENABLED", p.CreatedAt, p.UpdatedAt).
		WillReturnError(errors.New("connection refused"))

	err := repo.Create(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
