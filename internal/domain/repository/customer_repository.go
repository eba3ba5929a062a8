package repository

import "github.com/jhoicas/Facturacion-api/internal/domain/entity"

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	GetByEmail(email string) (*entity.Customer, error)
	// UpdateName actualiza solo el nombre (refresco durante el Settlement).
	UpdateName(id, name string) error
	Update(customer *entity.Customer) error
	Delete(id string) error
	Search(query string, limit, offset int) ([]*entity.Customer, error)
}
