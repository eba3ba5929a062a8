package repository

import "github.com/jhoicas/Facturacion-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByCode(code string) (*entity.Product, error)
	// GetByIDs obtiene varios productos en una sola consulta (validación del carrito).
	GetByIDs(ids []string) (map[string]*entity.Product, error)
	// GetByIDForUpdate obtiene el producto bloqueando la fila (SELECT FOR UPDATE).
	// Usar solo dentro de una transacción: serializa ventas concurrentes del mismo producto.
	GetByIDForUpdate(id string) (*entity.Product, error)
	// DecrementStock descuenta qty unidades. Retorna ErrInsufficientStock si la
	// guarda stock >= qty no se cumple al momento del UPDATE.
	DecrementStock(id string, qty int64) error
	Update(product *entity.Product) error
	Delete(id string) error
	Search(query string, limit, offset int) ([]*entity.Product, error)
}
