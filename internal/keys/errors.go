package keys

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidExpiry indica un parámetro expiry/days mal formado.
	ErrInvalidExpiry = errors.New("keys: invalid expiry")

	// ErrConcurrentUpdate indica que el compare-and-swap perdió la carrera en todos los reintentos.
	ErrConcurrentUpdate = errors.New("keys: concurrent update, retries exhausted")
)

// StoreError envuelve cualquier falla del backend de persistencia
// (red, timeout, payload corrupto, CAS agotado). Es distinto de los Outcome
// de dominio: un StoreError nunca significa Invalid ni Expired.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("keys: store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError envuelve err. nil => nil.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// IsStoreError verifica si err es (o envuelve) un StoreError.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
