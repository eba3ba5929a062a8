package entity

import "time"

// Roles de operador de caja.
const (
	RoleAdmin  = "admin"
	RoleCajero = "cajero"
)

// User representa un operador del sistema (login del punto de venta).
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // "admin" | "cajero"
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
