package keys

import (
	"time"

	"github.com/dropDatabas3/keycheck/internal/domain/types"
)

// CreateInput son los datos de alta de una key.
type CreateInput struct {
	Key    string
	Device string      // vacío = sin bindear
	Expiry *types.Date // nil = no expira
}

// UpdateInput es un update parcial: campos omitidos no se tocan,
// campos presentes con valor nulo se limpian.
type UpdateInput struct {
	Key    string
	Device types.Field[string]
	Expiry types.Field[types.Date]
}

// UnbindInput con Device vacío significa borrar la key completa.
type UnbindInput struct {
	Key    string
	Device string
}

// ApplyCreate construye el record nuevo. existing != nil => OutcomeAlreadyExists.
func ApplyCreate(existing *types.KeyRecord, in CreateInput) (types.KeyRecord, Outcome) {
	if existing != nil {
		return types.KeyRecord{}, OutcomeAlreadyExists
	}
	rec := types.KeyRecord{Key: in.Key}
	if in.Device != "" {
		d := in.Device
		rec.Device = &d
	}
	if in.Expiry != nil {
		e := *in.Expiry
		rec.Expiry = &e
	}
	return rec, OutcomeCreated
}

// ApplyUpdate aplica la política strict-bind:
//   - una key bindeada rechaza cualquier cambio de device salvo que sea el mismo device
//   - la expiración siempre se puede actualizar (renovar)
//   - una key expirada sin expiry nuevo devuelve OutcomeExpired
func ApplyUpdate(rec *types.KeyRecord, in UpdateInput, now time.Time, loc *time.Location) (types.KeyRecord, Outcome) {
	if rec == nil {
		return types.KeyRecord{}, OutcomeNotFound
	}

	next := rec.Clone()

	if in.Device.Present {
		var want *string
		if in.Device.Value != nil && *in.Device.Value != "" {
			v := *in.Device.Value
			want = &v
		}
		if rec.Device != nil && (want == nil || *want != *rec.Device) {
			return types.KeyRecord{}, OutcomeAlreadyBound
		}
		next.Device = want
	}

	if !in.Expiry.Present && IsExpired(*rec, now, loc) {
		return types.KeyRecord{}, OutcomeExpired
	}

	if in.Expiry.Present {
		if in.Expiry.Value == nil {
			next.Expiry = nil
		} else {
			e := *in.Expiry.Value
			next.Expiry = &e
		}
	}

	return next, OutcomeUpdated
}

// ApplyUnbind resuelve el DELETE: con device limpia el binding y conserva la key,
// sin device la key se borra (OutcomeDeleted, el caller ejecuta el delete).
func ApplyUnbind(rec *types.KeyRecord, in UnbindInput) (types.KeyRecord, Outcome) {
	if rec == nil {
		return types.KeyRecord{}, OutcomeNotFound
	}
	if in.Device == "" {
		return types.KeyRecord{}, OutcomeDeleted
	}
	if rec.Device != nil && *rec.Device != in.Device {
		return types.KeyRecord{}, OutcomeDeviceMismatch
	}
	next := rec.Clone()
	next.Device = nil
	return next, OutcomeUnbound
}
