package entity

import "time"

// Customer representa un cliente del directorio (email único).
// El Settlement lo crea o le refresca el nombre la primera vez que ve un email.
type Customer struct {
	ID        string
	Name      string
	Email     string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}
