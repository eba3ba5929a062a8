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

var _ repository.DenominationRepository = (*DenominationRepo)(nil)

// DenominationRepo implementación de DenominationRepository (usable con pool o tx).
type DenominationRepo struct {
	q Querier
}

// NewDenominationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDenominationRepository(q Querier) *DenominationRepo {
	return &DenominationRepo{q: q}
}

// Create persiste una denominación. El valor es único.
func (r *DenominationRepo) Create(denom *entity.Denomination) error {
	query := `
		INSERT INTO denominations (id, value, status, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query,
		denom.ID, denom.Value, string(denom.Status), denom.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert denomination: %w", err)
	}
	return nil
}

// GetByID obtiene una denominación por ID.
func (r *DenominationRepo) GetByID(id string) (*entity.Denomination, error) {
	query := `SELECT id, value, status, created_at FROM denominations WHERE id = $1`
	var d entity.Denomination
	var status string
	err := r.q.QueryRow(context.Background(), query, id).Scan(&d.ID, &d.Value, &status, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get denomination: %w", err)
	}
	d.Status = entity.Status(status)
	return &d, nil
}

// ListEnabled devuelve las denominaciones habilitadas ordenadas por valor descendente
// (orden que el reparto de vuelto consume de mayor a menor).
func (r *DenominationRepo) ListEnabled() ([]*entity.Denomination, error) {
	query := `SELECT id, value, status, created_at FROM denominations WHERE status = $1 ORDER BY value DESC`
	return r.list(query, string(entity.StatusEnabled))
}

// List lista todas las denominaciones con paginación, mayor valor primero.
func (r *DenominationRepo) List(limit, offset int) ([]*entity.Denomination, error) {
	query := `SELECT id, value, status, created_at FROM denominations ORDER BY value DESC LIMIT $1 OFFSET $2`
	return r.list(query, limit, offset)
}

// Update actualiza valor y estado.
func (r *DenominationRepo) Update(denom *entity.Denomination) error {
	query := `UPDATE denominations SET value = $2, status = $3 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, denom.ID, denom.Value, string(denom.Status))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update denomination: %w", err)
	}
	return nil
}

// Delete elimina una denominación.
func (r *DenominationRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM denominations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete denomination: %w", err)
	}
	return nil
}

func (r *DenominationRepo) list(query string, args ...any) ([]*entity.Denomination, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list denominations: %w", err)
	}
	defer rows.Close()
	var out []*entity.Denomination
	for rows.Next() {
		var d entity.Denomination
		var status string
		if err := rows.Scan(&d.ID, &d.Value, &status, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.Status = entity.Status(status)
		out = append(out, &d)
	}
	return out, rows.Err()
}
