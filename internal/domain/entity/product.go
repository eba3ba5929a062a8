package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de venta.
// Stock nunca es negativo: el descuento se hace con la fila bloqueada (FOR UPDATE).
type Product struct {
	ID        string
	Name      string
	Code      string          // código de negocio único
	UnitPrice decimal.Decimal // precio de venta por unidad (2 decimales)
	TaxRate   decimal.Decimal // porcentaje de impuesto, ej: 5.00 = 5%
	Stock     int64           // unidades disponibles
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}
