package router

import (
	"github.com/go-chi/chi/v5"

	ctrl "github.com/dropDatabas3/keycheck/internal/http/v2/controllers/health"
)

// HealthRouterDeps contiene las dependencias para el router de health.
type HealthRouterDeps struct {
	Controllers *ctrl.Controllers
}

// RegisterHealthRoutes registra rutas de health check.
// /readyz es público, no requiere auth.
func RegisterHealthRoutes(r chi.Router, deps HealthRouterDeps) {
	r.Get("/readyz", deps.Controllers.Health.Readyz)
}
