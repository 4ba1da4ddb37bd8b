package repository

import "errors"

var (
	// ErrNotFound indica que el recurso solicitado no existe.
	ErrNotFound = errors.New("not found")

	// ErrConflict indica un conflicto (ej: la key ya existe).
	ErrConflict = errors.New("conflict")

	// ErrPreconditionFailed indica que el valor almacenado cambió entre la lectura y la escritura (CAS).
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrInvalidInput indica que los datos de entrada son inválidos.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedRecord indica que el valor almacenado no pudo decodificarse.
	ErrMalformedRecord = errors.New("malformed stored record")
)

// IsNotFound verifica si el error es ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict verifica si el error es ErrConflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsPreconditionFailed verifica si el error es ErrPreconditionFailed.
func IsPreconditionFailed(err error) bool {
	return errors.Is(err, ErrPreconditionFailed)
}
