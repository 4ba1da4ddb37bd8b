// Package controllers agrupa todos los controllers HTTP V2.
// Este es el "composition root" de controllers.
//
// Cada dominio vive en internal/http/v2/controllers/{dominio}/ con:
//   - {nombre}_controller.go  → implementación del controller
//   - controllers.go          → aggregator del dominio
//
// Flujo de inicialización (server/wiring.go):
//
//	svcs := services.New(deps)                 ← services con dependencias externas
//	ctrls := controllers.New(svcs, opts)       ← controllers con services
//	handler := router.New(router.Deps{...})    ← rutas con controllers
package controllers

import (
	"github.com/dropDatabas3/keycheck/internal/http/v2/controllers/health"
	"github.com/dropDatabas3/keycheck/internal/http/v2/controllers/keys"
	"github.com/dropDatabas3/keycheck/internal/http/v2/services"
)

// Options agrupa las opciones de comportamiento de los controllers.
type Options struct {
	Keys keys.Options
}

// Controllers agrupa todos los sub-controllers por dominio.
type Controllers struct {
	Keys   *keys.Controllers   // License keys (GET/POST/PUT/DELETE)
	Health *health.Controllers // Health checks (readyz)
}

// New crea el agregador de controllers con todos los services inyectados.
func New(svc *services.Services, opts Options) *Controllers {
	return &Controllers{
		Keys:   keys.NewControllers(svc.Keys, opts.Keys),
		Health: health.NewControllers(svc.Health),
	}
}
