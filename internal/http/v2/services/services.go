// Package services agrupa todos los services HTTP V2.
// Este es el "composition root" de services.
//
// Cada dominio vive en internal/http/v2/services/{dominio}/ con:
//   - {nombre}_service.go  → implementación del service
//   - services.go          → aggregator del dominio (Deps, Services, NewServices)
//
// Uso en server/wiring.go:
//
//	svcs := services.New(services.Deps{
//	    Keys:   keys.Deps{Repo: repo, Location: loc},
//	    Health: health.Deps{StoreCheck: repo.Ping},
//	})
//	ctrls := controllers.New(svcs, controllers.Options{DebugDump: cfg.Keys.DebugDump})
package services

import (
	"github.com/dropDatabas3/keycheck/internal/http/v2/services/health"
	"github.com/dropDatabas3/keycheck/internal/http/v2/services/keys"
)

// Deps contiene las dependencias base para crear los services.
type Deps struct {
	Keys   keys.Deps
	Health health.Deps
}

// Services agrupa todos los sub-services por dominio.
type Services struct {
	Keys   keys.Services   // License keys (check, create, update, unbind/delete)
	Health health.Services // Health checks (readyz)
}

// New crea el agregador de services con todas las dependencias inyectadas.
// Este es el único lugar donde se instancian los services.
func New(d Deps) *Services {
	return &Services{
		Keys:   keys.NewServices(d.Keys),
		Health: health.NewServices(d.Health),
	}
}
