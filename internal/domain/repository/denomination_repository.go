package repository

import "github.com/jhoicas/Facturacion-api/internal/domain/entity"

// DenominationRepository define el puerto de persistencia para Denomination.
type DenominationRepository interface {
	Create(denom *entity.Denomination) error
	GetByID(id string) (*entity.Denomination, error)
	// ListEnabled devuelve las denominaciones habilitadas ordenadas por valor descendente.
	ListEnabled() ([]*entity.Denomination, error)
	List(limit, offset int) ([]*entity.Denomination, error)
	Update(denom *entity.Denomination) error
	Delete(id string) error
}
