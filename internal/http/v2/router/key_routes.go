package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	ctrl "github.com/dropDatabas3/keycheck/internal/http/v2/controllers/keys"
)

// KeyRouterDeps contiene las dependencias para el router de keys.
type KeyRouterDeps struct {
	Controllers *ctrl.Controllers
}

// RegisterKeyRoutes registra el endpoint de keys en cada path de keyPaths.
// OPTIONS lo resuelve el middleware de CORS; la ruta existe para que no sea 405.
func RegisterKeyRoutes(r chi.Router, deps KeyRouterDeps) {
	c := deps.Controllers.Keys
	for _, p := range keyPaths {
		r.Get(p, c.Check)
		r.Post(p, c.Create)
		r.Put(p, c.Update)
		r.Delete(p, c.Delete)
		r.Options(p, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	}
}
