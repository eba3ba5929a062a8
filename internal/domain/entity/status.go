package entity

// Status estado de visualización de un registro maestro.
type Status string

const (
	StatusEnabled  Status = "ENABLED"
	StatusDisabled Status = "DISABLED"
)

// Valid indica si el valor corresponde a un estado conocido.
func (s Status) Valid() bool {
	return s == StatusEnabled || s == StatusDisabled
}
