package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

const customerColumns = "id, name, email, status, created_at, updated_at"

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create persiste un nuevo cliente. Email único.
func (r *CustomerRepo) Create(customer *entity.Customer) error {
	query := `
		INSERT INTO customers (id, name, email, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		customer.ID, customer.Name, customer.Email, string(customer.Status),
		customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return r.scanOne(query, id)
}

// GetByEmail obtiene un cliente por email (normalizado a minúsculas por el caller).
func (r *CustomerRepo) GetByEmail(email string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE email = $1`
	return r.scanOne(query, email)
}

// UpdateName actualiza solo el nombre (refresco desde el Settlement).
func (r *CustomerRepo) UpdateName(id, name string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE customers SET name = $2, updated_at = now() WHERE id = $1`, id, name)
	if err != nil {
		return fmt.Errorf("update customer name: %w", err)
	}
	return nil
}

// Update actualiza nombre, email y estado.
func (r *CustomerRepo) Update(customer *entity.Customer) error {
	query := `UPDATE customers SET name = $2, email = $3, status = $4, updated_at = $5 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		customer.ID, customer.Name, customer.Email, string(customer.Status), customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

// Delete elimina un cliente del directorio.
func (r *CustomerRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return nil
}

// Search busca clientes por nombre o email (subcadena, case-insensitive) con paginación.
func (r *CustomerRepo) Search(query string, limit, offset int) ([]*entity.Customer, error) {
	sql := `SELECT ` + customerColumns + ` FROM customers`
	args := []any{}
	if query != "" {
		sql += ` WHERE name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%'`
		args = append(args, query)
	}
	sql += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), sql, args...)
	if err != nil {
		return nil, fmt.Errorf("search customers: %w", err)
	}
	defer rows.Close()
	var out []*entity.Customer
	for rows.Next() {
		var c entity.Customer
		var status string
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		c.Status = entity.Status(status)
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *CustomerRepo) scanOne(query string, arg any) (*entity.Customer, error) {
	var c entity.Customer
	var status string
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&c.ID, &c.Name, &c.Email, &status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	c.Status = entity.Status(status)
	return &c, nil
}
