// Package router arma el http.Handler V2: endpoint de keys, health y métricas.
package router

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/keycheck/internal/http/v2/controllers"
	httperrors "github.com/dropDatabas3/keycheck/internal/http/v2/errors"
	mw "github.com/dropDatabas3/keycheck/internal/http/v2/middlewares"
	"github.com/dropDatabas3/keycheck/internal/metrics"
)

// Deps contiene todo lo necesario para registrar las rutas.
type Deps struct {
	Controllers *controllers.Controllers

	// Metrics nil deshabilita /metrics y el middleware de métricas.
	Metrics     *metrics.Metrics
	CORSOrigins []string
}

// keyPaths son los paths donde se monta el endpoint de keys.
var keyPaths = []string{"/", "/api/check"}

const (
	allowKeys   = "GET, POST, PUT, DELETE, OPTIONS"
	allowReadyz = "GET"
)

// New construye el handler raíz con el chain de middlewares global.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	RegisterKeyRoutes(r, KeyRouterDeps{Controllers: deps.Controllers.Keys})
	RegisterHealthRoutes(r, HealthRouterDeps{Controllers: deps.Controllers.Health})
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	return mw.Chain(r,
		mw.WithRequestID(),
		mw.WithLogging(),
		mw.WithMetrics(deps.Metrics),
		mw.WithRecover(),
		mw.WithSecurityHeaders(),
		mw.WithNoStore(),
		mw.WithCORS(deps.CORSOrigins),
	)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	httperrors.WriteErrorCtx(w, r, httperrors.ErrRouteNotFound)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	allow := allowKeys
	if strings.TrimSuffix(r.URL.Path, "/") == "/readyz" {
		allow = allowReadyz
	}
	w.Header().Set("Allow", allow)
	httperrors.WriteErrorCtx(w, r, httperrors.ErrMethodNotAllowed.WithDetail(r.Method+" not supported; allowed: "+allow))
}
