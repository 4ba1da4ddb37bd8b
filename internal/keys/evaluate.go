// Package keys implementa el validador de license keys: la máquina de estados
// de binding de device y expiración, aplicada por key.
//
// Todo lo de este paquete es puro: recibe el record almacenado, el device pedido
// y el instante de evaluación, y devuelve una decisión. La persistencia vive en
// los services, detrás de repository.LicenseKeyRepository.
//
// Orden de evaluación (fijo):
//
//  1. record ausente            -> Invalid
//  2. device bindeado != pedido -> InvalidDevice
//  3. now > 23:59:59 de expiry  -> Expired
//  4. resto                     -> Valid
package keys

import (
	"time"

	"github.com/dropDatabas3/keycheck/internal/domain/types"
)

// Outcome es el resultado de dominio de una operación. No es un error.
type Outcome string

const (
	// Resultados de Evaluate.
	OutcomeValid         Outcome = "valid"
	OutcomeInvalid       Outcome = "invalid"
	OutcomeInvalidDevice Outcome = "invalid_device"
	OutcomeExpired       Outcome = "expired"

	// Resultados de mutaciones.
	OutcomeCreated        Outcome = "created"
	OutcomeUpdated        Outcome = "updated"
	OutcomeUnbound        Outcome = "unbound"
	OutcomeDeleted        Outcome = "deleted"
	OutcomeAlreadyExists  Outcome = "already_exists"
	OutcomeNotFound       Outcome = "not_found"
	OutcomeAlreadyBound   Outcome = "already_bound"
	OutcomeDeviceMismatch Outcome = "device_mismatch"
)

// Decision es el resultado de evaluar una key.
// Device y Expiry sólo se completan cuando Outcome es OutcomeValid.
type Decision struct {
	Outcome Outcome
	Key     string
	Device  *string
	Expiry  *types.Date
}

// Valid indica si la key validó.
func (d Decision) Valid() bool {
	return d.Outcome == OutcomeValid
}

// DeviceOrNotBound devuelve el device bindeado o "Not bound".
func (d Decision) DeviceOrNotBound() string {
	if d.Device == nil {
		return types.NotBound
	}
	return *d.Device
}

// IsExpired indica si el record expiró en now, usando fin de día en loc.
func IsExpired(rec types.KeyRecord, now time.Time, loc *time.Location) bool {
	if rec.Expiry == nil {
		return false
	}
	return now.After(rec.Expiry.EndOfDay(loc))
}

// Evaluate aplica la precedencia absent -> device -> expiry -> valid.
// device vacío significa "no se envió device".
func Evaluate(rec *types.KeyRecord, device string, now time.Time, loc *time.Location) Decision {
	if rec == nil {
		return Decision{Outcome: OutcomeInvalid}
	}
	d := Decision{Key: rec.Key}

	if rec.Device != nil && (device == "" || device != *rec.Device) {
		d.Outcome = OutcomeInvalidDevice
		return d
	}

	if IsExpired(*rec, now, loc) {
		d.Outcome = OutcomeExpired
		return d
	}

	c := rec.Clone()
	d.Outcome = OutcomeValid
	d.Device = c.Device
	d.Expiry = c.Expiry
	return d
}
