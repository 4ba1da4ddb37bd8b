// Package keys define los payloads del endpoint de license keys.
package keys

import "github.com/dropDatabas3/keycheck/internal/domain/types"

// Valores del campo status.
const (
	StatusOK            = "ok"
	StatusInvalid       = "invalid"
	StatusInvalidDevice = "invalid_device"
	StatusExpired       = "expired"
	StatusError         = "error"
)

// Mensajes de las respuestas de dominio.
const (
	MsgKeyNotExist    = "key does not exist"
	MsgDeviceMismatch = "device mismatch"
	MsgExpired        = "expired"
	MsgKeyCreated     = "Key created"
	MsgKeyExists      = "Key already exists"
	MsgKeyUpdated     = "Key updated"
	MsgKeyMissing     = "Key does not exist"
	MsgAlreadyBound   = "key already bound to another device"
	MsgDeviceUnbound  = "Device unbound"
	MsgKeyDeleted     = "Key deleted"
)

// CheckResponse es la respuesta de un GET válido.
// Device es "Not bound" si la key no tiene device; Expiry es null si no expira.
type CheckResponse struct {
	Status string      `json:"status"`
	Key    string      `json:"key"`
	Device string      `json:"device"`
	Expiry *types.Date `json:"expiry"`
}

// StatusResponse es la respuesta de cualquier resultado no exitoso de dominio.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// MutationResponse responde a POST/PUT exitosos con el estado resultante.
type MutationResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Key     string      `json:"key"`
	Device  string      `json:"device"`
	Expiry  *types.Date `json:"expiry"`
}

// DeleteResponse responde a DELETE exitosos (unbind o borrado).
type DeleteResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Key     string `json:"key"`
}

// DumpResponse lista todos los records (GET sin key con debug dump habilitado).
type DumpResponse struct {
	Status string            `json:"status"`
	Keys   []types.KeyRecord `json:"keys"`
}
