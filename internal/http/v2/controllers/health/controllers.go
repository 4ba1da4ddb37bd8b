package health

import svc "github.com/dropDatabas3/keycheck/internal/http/v2/services/health"

// Controllers agrupa los controllers de health.
type Controllers struct {
	Health *HealthController
}

// NewControllers crea el agregador de controllers health.
func NewControllers(s svc.Services) *Controllers {
	return &Controllers{Health: NewHealthController(s.Health)}
}
