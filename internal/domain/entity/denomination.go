package entity

import "time"

// Denomination representa un billete o moneda aceptado en caja.
// Value es único entre todas las denominaciones, habilitadas o no.
type Denomination struct {
	ID        string
	Value     int64 // valor entero positivo, ej: 500, 200, 100
	Status    Status
	CreatedAt time.Time
}
