package keys

import svc "github.com/dropDatabas3/keycheck/internal/http/v2/services/keys"

// Controllers agrupa los controllers del dominio keys.
type Controllers struct {
	Keys *KeyController
}

// NewControllers crea el agregador de controllers keys.
func NewControllers(s svc.Services, opts Options) *Controllers {
	return &Controllers{
		Keys: NewKeyController(s.Keys, opts),
	}
}
