package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrEmailAlreadyExists  = errors.New("el email ya está registrado")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrInsufficientPayment = errors.New("el efectivo recibido es menor al total a pagar")
)

// ValidationError error de validación del Settlement con mensaje para el cajero.
// Si el Settlement retorna este error, ninguna tabla fue modificada.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError construye un error de validación.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// IsValidation indica si err es un error de validación del Settlement y, de
// serlo, devuelve el mensaje destinado al cajero.
func IsValidation(err error) (string, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message, true
	}
	return "", false
}
